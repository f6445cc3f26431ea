// Package events publishes catalog and account changes to Kafka.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/orbitronic/internal/models"
)

const (
	TopicProducts = "product_events"
	TopicUsers    = "user_events"

	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
	UserRegistered = "user_registered"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type ProductEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	ProductID  string    `json:"product_id"`
	Category   string    `json:"category,omitempty"`
	Name       string    `json:"name,omitempty"`
	Price      int64     `json:"price,omitempty"`
}

type UserEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
}

func NewProductEvent(typ string, p models.Product) ProductEvent {
	ev := ProductEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		ProductID:  p.ID,
	}
	if typ != ProductDeleted {
		ev.Category = p.Category
		ev.Name = p.Name
		ev.Price = p.Price
	}
	return ev
}

func NewUserEvent(typ string, u models.User) UserEvent {
	return UserEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Username:   u.Username,
		Role:       u.Role,
	}
}

// Nop drops every event. It stands in when no brokers are configured.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }
