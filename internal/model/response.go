package model

import (
	"time"

	"github.com/google/uuid"
)

// SOSResponse records one responder action taken against a request
type SOSResponse struct {
	ID          uuid.UUID `json:"id" db:"id"`
	RequestID   uuid.UUID `json:"request_id" db:"request_id"`
	ResponderID uuid.UUID `json:"responder_id" db:"responder_id"`
	Action      SOSAction `json:"action" db:"action"`
	Message     *string   `json:"message,omitempty" db:"message"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
