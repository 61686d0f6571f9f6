package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/order"
)

const (
	EventTypeOrderPlaced    = "OrderPlaced"
	EventTypeOrderCancelled = "OrderCancelled"
)

type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

type OrderPlaced struct {
	EventType   string      `json:"eventType"`
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	UserID      string      `json:"userId"`
	TotalAmount int64       `json:"totalAmount"`
	Lines       []OrderLine `json:"lines"`
	Timestamp   time.Time   `json:"timestamp"`
}

type OrderCancelled struct {
	EventType string    `json:"eventType"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *order.Order) error {
	ev := OrderPlaced{
		EventType:   EventTypeOrderPlaced,
		OrderID:     o.ID,
		OrderNumber: o.Number,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Timestamp:   time.Now().UTC(),
	}
	for _, l := range o.Lines {
		ev.Lines = append(ev.Lines, OrderLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}
	return p.publishJSON(ctx, OrderPlacedRoutingKey, body)
}

func (p *Publisher) PublishOrderCancelled(ctx context.Context, o *order.Order) error {
	ev := OrderCancelled{
		EventType: EventTypeOrderCancelled,
		OrderID:   o.ID,
		UserID:    o.UserID,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderCancelled: %w", err)
	}
	return p.publishJSON(ctx, OrderCancelledRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	return p.ch.PublishWithContext(ctx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
