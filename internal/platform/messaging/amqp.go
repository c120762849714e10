package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// VerificationEmail is the message consumed by the mailer to send a signup code.
type VerificationEmail struct {
	Email  string    `json:"email"`
	Code   string    `json:"code"`
	SentAt time.Time `json:"sentAt"`
}

// Publisher sends verification emails and domain events to a direct exchange.
// Each message kind is routed to the queue of the same name.
type Publisher struct {
	conn         *amqp091.Connection
	mu           sync.Mutex // guards channel
	channel      *amqp091.Channel
	exchangeName string
	emailQueue   string
	eventsQueue  string
}

var _ portssvc.Notifier = (*Publisher)(nil)

// NewPublisher dials the broker and declares the exchange and both queues.
func NewPublisher(url, exchangeName, emailQueue, eventsQueue string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &Publisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		emailQueue:   emailQueue,
		eventsQueue:  eventsQueue,
	}
	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}
	return p, nil
}

func (p *Publisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{p.emailQueue, p.eventsQueue} {
		if _, err := p.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		// routing key is the queue name
		if err := p.channel.QueueBind(queue, queue, p.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}
	return nil
}

// SendVerificationCode queues a signup code for the mailer.
func (p *Publisher) SendVerificationCode(ctx context.Context, email, code string) error {
	msg, err := newPublishing("verification_code", "", VerificationEmail{Email: email, Code: code, SentAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := p.publish(ctx, p.emailQueue, msg); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Queued verification email", slog.String("queue", p.emailQueue))
	return nil
}

// PublishEvent sends a domain event. The event name travels as the message type.
func (p *Publisher) PublishEvent(ctx context.Context, event domain.DomainEvent) error {
	msg, err := newPublishing(event.Name, event.EventID, event)
	if err != nil {
		return err
	}
	if err := p.publish(ctx, p.eventsQueue, msg); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Published event",
		slog.String("event", event.Name),
		slog.String("event_id", event.EventID))
	return nil
}

func (p *Publisher) publish(ctx context.Context, routingKey string, msg amqp091.Publishing) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// newPublishing builds a persistent JSON message.
func newPublishing(msgType, messageID string, body any) (amqp091.Publishing, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal message: %w", err)
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Type:         msgType,
		MessageId:    messageID,
		Body:         data,
	}, nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
