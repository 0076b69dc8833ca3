package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"wiktowice_site/internal/logger"
)

// AMQPPublisher đẩy sự kiện sang một topic exchange của RabbitMQ
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// DialAMQP kết nối RabbitMQ và khai báo exchange
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	logger.WithModule("events").WithField("exchange", exchange).Info("Connected to RabbitMQ")
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish gửi sự kiện dạng JSON, persistent
func (p *AMQPPublisher) Publish(ctx context.Context, e CollectionEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, RoutingKeySaved, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		MessageId:    e.ID,
		Body:         body,
	})
}

// Handler trả về handler để đăng ký vào Bus; lỗi publish chỉ được ghi log
func (p *AMQPPublisher) Handler() Handler {
	return func(ctx context.Context, e CollectionEvent) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, e); err != nil {
			logger.WithCollection("events", e.Collection).WithError(err).Warn("Publish event failed")
		}
	}
}

// Close đóng channel và kết nối
func (p *AMQPPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// LogHandler ghi mỗi sự kiện vào audit log
func LogHandler(ctx context.Context, e CollectionEvent) {
	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"event_id":    e.ID,
		"collection":  e.Collection,
		"operation":   e.Operation,
		"destination": e.Destination,
		"count":       e.Count,
	}).Info("Collection persisted")
}

// Ping kiểm tra kết nối RabbitMQ còn mở
func (p *AMQPPublisher) Ping(ctx context.Context) error {
	if p == nil || p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("amqp connection closed")
	}
	return nil
}
