package base

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// maxTxAttempts сколько раз повторяется транзакция после конфликта сериализации
const maxTxAttempts = 5

type txKey struct{}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// Transactor запускает функцию в транзакции и кладёт её в контекст,
// чтобы репозитории выполняли запросы в той же транзакции
type Transactor struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewTransactor создаёт новый Transactor
func NewTransactor(pool *pgxpool.Pool, logger *zap.Logger) *Transactor {
	return &Transactor{pool: pool, logger: logger}
}

// WithinTx выполняет fn в транзакции с указанным уровнем изоляции.
// Ошибка fn откатывает всё. Конфликты сериализации повторяются целиком,
// поэтому fn не должна иметь побочных эффектов вне базы.
// Вложенный вызов присоединяется к внешней транзакции.
func (t *Transactor) WithinTx(ctx context.Context, iso pgx.TxIsoLevel, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = t.run(ctx, iso, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		t.logger.Warn("Transaction conflict, retrying",
			zap.Int("attempt", attempt),
			zap.String("isolation", string(iso)),
			zap.Error(err))
	}
	return err
}

func (t *Transactor) run(ctx context.Context, iso pgx.TxIsoLevel, fn func(ctx context.Context) error) error {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: iso})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
