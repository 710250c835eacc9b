package event

import (
	"time"

	"github.com/google/uuid"
)

type Event interface {
	ID() string
	Source() string
	Message() string
	OccurredAt() time.Time
}

type BaseEvent struct {
	id         string
	source     string
	message    string
	occurredAt time.Time
}

func (b BaseEvent) ID() string {
	return b.id
}

func (b BaseEvent) Source() string {
	return b.source
}

func (b BaseEvent) Message() string {
	return b.message
}

func (b BaseEvent) OccurredAt() time.Time {
	return b.occurredAt
}

// Text builds the base every event embeds. source is the feature that raised it, e.g. "Seller".
func Text(source, message string) BaseEvent {
	return BaseEvent{
		id:         uuid.NewString(),
		source:     source,
		message:    message,
		occurredAt: time.Now(),
	}
}

type NotificationEvent struct {
	BaseEvent
}

func Notification(be BaseEvent) NotificationEvent {
	return NotificationEvent{BaseEvent: be}
}

type ItemsSoldEvent struct {
	BaseEvent
	Currency string
	Earned   int
	Sold     map[string]int
}

func ItemsSold(be BaseEvent, currency string, earned int, sold map[string]int) ItemsSoldEvent {
	return ItemsSoldEvent{
		BaseEvent: be,
		Currency:  currency,
		Earned:    earned,
		Sold:      sold,
	}
}

type FeatureToggledEvent struct {
	BaseEvent
	Key     string
	Enabled bool
}

func FeatureToggled(be BaseEvent, key string, enabled bool) FeatureToggledEvent {
	return FeatureToggledEvent{
		BaseEvent: be,
		Key:       key,
		Enabled:   enabled,
	}
}
