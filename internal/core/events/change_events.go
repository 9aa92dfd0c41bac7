package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseChanged = "expense.changed"
	EventTypeProjectChanged = "project.changed"
	EventTypeUserChanged    = "user.changed"
	EventTypeProductChanged = "product.changed"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// RecordChangedEvent announces a committed write to one record.
type RecordChangedEvent struct {
	BaseEvent
	RecordID string `json:"record_id"`
	OwnerID  string `json:"owner_id,omitempty"`
	Action   Action `json:"action"`
}

func NewRecordChangedEvent(eventType, recordID, ownerID string, action Action) *RecordChangedEvent {
	return &RecordChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"record_id": recordID,
				"owner_id":  ownerID,
				"action":    string(action),
			},
		},
		RecordID: recordID,
		OwnerID:  ownerID,
		Action:   action,
	}
}
