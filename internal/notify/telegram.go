// Package notify отправляет сотрудникам сообщения о новых вылетах и проданных билетах
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageSender часть *bot.Bot, которая нужна для уведомлений
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type TelegramNotifier struct {
	sender MessageSender
	chatID int64
}

// NewTelegramBot создаёт клиента без запроса getMe, чтобы старт сервиса
// не зависел от доступности Telegram
func NewTelegramBot(token string) (*bot.Bot, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}

func NewTelegramNotifier(sender MessageSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID}
}

// ReceiptIssued сообщение о выписанном чеке
func (n *TelegramNotifier) ReceiptIssued(ctx context.Context, receipt *model.Receipt) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎫 Чек #%d\n", receipt.ID)
	fmt.Fprintf(&sb, "Номер брони: %s\n", receipt.Reference)
	fmt.Fprintf(&sb, "Оплата: %s\n", receipt.Method)
	if receipt.Detail != nil {
		fmt.Fprintf(&sb, "Билетов: %d × %s = %s\n",
			receipt.Detail.Quantity, FormatPrice(receipt.Detail.UnitPrice), FormatPrice(receipt.Total))
	}
	for _, t := range receipt.Tickets {
		fmt.Fprintf(&sb, "• %s - %s\n", t.SeatCode, t.CustomerName)
	}

	return n.send(ctx, sb.String())
}

// ScheduleCreated сообщение о новом вылете
func (n *TelegramNotifier) ScheduleCreated(ctx context.Context, schedule *model.FlightSchedule) error {
	text := fmt.Sprintf(
		"🛫 Новый вылет #%d\nРейс: %d\nВылет: %s\nПрибытие: %s (%s в пути)\nМест: бизнес %d, эконом %d\nЦены: бизнес %s, эконом %s",
		schedule.ID,
		schedule.FlightID,
		FormatDateTime(schedule.DepartureTime),
		FormatDateTime(schedule.ArrivalTime()),
		FormatDuration(schedule.FlightDurationMinutes),
		schedule.BusinessSeatsOffered,
		schedule.EconomySeatsOffered,
		FormatPrice(schedule.BusinessPrice),
		FormatPrice(schedule.EconomyPrice),
	)
	return n.send(ctx, text)
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// NopNotifier используется, когда Telegram не настроен
type NopNotifier struct{}

func (NopNotifier) ReceiptIssued(context.Context, *model.Receipt) error { return nil }

func (NopNotifier) ScheduleCreated(context.Context, *model.FlightSchedule) error { return nil }
