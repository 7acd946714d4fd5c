package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/model"
)

// NotificationWriter stores notifications.
type NotificationWriter interface {
	Create(ctx context.Context, n model.Notification) (model.Notification, error)
}

// Consumer reads booking.confirmed and leaves an unread notification for
// the guest of each booking.
type Consumer struct {
	url   string
	notes NotificationWriter
	log   *zap.Logger
	now   func() time.Time
}

func NewConsumer(url string, notes NotificationWriter, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{url: url, notes: notes, log: log, now: time.Now}
}

// Run consumes until ctx is cancelled, reconnecting with exponential
// backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("booking consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("booking consumer: loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("booking consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	tag := "hotel-" + uuid.NewString()
	msgs, err := ch.Consume(BookingConfirmedQueue, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Info("booking consumer: started", zap.String("tag", tag))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(ctx, d.Body); err != nil {
				c.log.Error("booking consumer: handle message failed", zap.Error(err))
				// reject without requeue to avoid a poison loop
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == 0 || ev.UserID == 0 {
		return fmt.Errorf("event %q lacks booking or user id", ev.EventID)
	}
	n := model.Notification{
		RecipientID: model.ID(ev.UserID),
		Title:       "Booking confirmed",
		Message: fmt.Sprintf("Your booking #%d for room %d from %s to %s is confirmed. Total: %d.",
			ev.BookingID, ev.RoomID, ev.CheckInDate, ev.CheckOutDate, ev.TotalPrice),
		Status:    model.NotificationUnread,
		CreatedAt: model.Timestamp(c.now()),
	}
	if ev.HotelID != nil {
		n.HotelID = model.ID(*ev.HotelID).Ptr()
	}
	if _, err := c.notes.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	c.log.Info("booking confirmed",
		zap.Int64("booking_id", ev.BookingID),
		zap.Int64("user_id", ev.UserID),
		zap.Int64("room_id", ev.RoomID),
		zap.String("check_in", ev.CheckInDate),
		zap.String("check_out", ev.CheckOutDate),
	)
	return nil
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
