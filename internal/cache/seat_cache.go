// Package cache хранит списки свободных мест вылета в Redis.
// Кэш только ускоряет просмотр: бронирование всегда проверяет место в базе.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL время жизни списка свободных мест
const DefaultTTL = 30 * time.Second

// versionTTL время жизни счётчика версий вылета. После истечения счётчик
// начинается заново, старые записи при этом только промахиваются.
const versionTTL = 24 * time.Hour

type SeatCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// cachedSeats список мест вместе с версией вылета, под которой он прочитан из базы
type cachedSeats struct {
	Version int64    `json:"version"`
	Codes   []string `json:"codes"`
}

func NewSeatCache(client redis.Cmdable, ttl time.Duration) *SeatCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SeatCache{client: client, ttl: ttl}
}

func seatsKey(scheduleID int64, class model.SeatClass) string {
	return fmt.Sprintf("seats:%d:%s", scheduleID, class)
}

func versionKey(scheduleID int64) string {
	return fmt.Sprintf("seats:%d:version", scheduleID)
}

// GetAvailable возвращает закэшированные коды мест и текущую версию вылета.
// ok=false при промахе или если запись сделана до последней инвалидации.
// Версию нужно передать в SetAvailable после чтения из базы.
func (c *SeatCache) GetAvailable(ctx context.Context, scheduleID int64, class model.SeatClass) ([]string, int64, bool, error) {
	vals, err := c.client.MGet(ctx, versionKey(scheduleID), seatsKey(scheduleID, class)).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("get seats from cache: %w", err)
	}

	var version int64
	if raw, ok := vals[0].(string); ok {
		if version, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, 0, false, fmt.Errorf("parse seats cache version: %w", err)
		}
	}

	raw, ok := vals[1].(string)
	if !ok {
		return nil, version, false, nil
	}

	var entry cachedSeats
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, version, false, fmt.Errorf("decode cached seats: %w", err)
	}
	if entry.Version != version {
		return nil, version, false, nil
	}
	return entry.Codes, version, true, nil
}

// SetAvailable сохраняет коды мест на ttl с версией, полученной до чтения из базы
func (c *SeatCache) SetAvailable(ctx context.Context, scheduleID int64, class model.SeatClass, version int64, codes []string) error {
	data, err := json.Marshal(cachedSeats{Version: version, Codes: codes})
	if err != nil {
		return fmt.Errorf("encode seats: %w", err)
	}

	if err := c.client.Set(ctx, seatsKey(scheduleID, class), string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("set seats in cache: %w", err)
	}
	return nil
}

// Invalidate поднимает версию вылета и удаляет списки обоих классов.
// Список, прочитанный из базы до инвалидации и записанный после неё, несёт
// старую версию и не будет отдан.
func (c *SeatCache) Invalidate(ctx context.Context, scheduleID int64) error {
	if err := c.client.Incr(ctx, versionKey(scheduleID)).Err(); err != nil {
		return fmt.Errorf("bump seats cache version: %w", err)
	}
	if err := c.client.Expire(ctx, versionKey(scheduleID), versionTTL).Err(); err != nil {
		return fmt.Errorf("expire seats cache version: %w", err)
	}

	err := c.client.Del(ctx,
		seatsKey(scheduleID, model.SeatClassBusiness),
		seatsKey(scheduleID, model.SeatClassEconomy),
	).Err()
	if err != nil {
		return fmt.Errorf("invalidate seats cache: %w", err)
	}
	return nil
}

// NopSeatCache используется, когда Redis не настроен
type NopSeatCache struct{}

func (NopSeatCache) GetAvailable(context.Context, int64, model.SeatClass) ([]string, int64, bool, error) {
	return nil, 0, false, nil
}

func (NopSeatCache) SetAvailable(context.Context, int64, model.SeatClass, int64, []string) error {
	return nil
}

func (NopSeatCache) Invalidate(context.Context, int64) error {
	return nil
}
