package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published on the exchange. The type doubles as routing key.
const (
	InvoiceCreated         = "invoice.created"
	InvoiceStatusChanged   = "invoice.status_changed"
	PaymentRecorded        = "payment.recorded"
	GstReturnGenerated     = "gst_return.generated"
	GstReturnStatusChanged = "gst_return.status_changed"
	AttendanceSaved        = "attendance.saved"
	StockAdjusted          = "inventory.adjusted"
)

// Event is the envelope of every published message.
type Event struct {
	ID             uuid.UUID       `json:"id"`
	Type           string          `json:"type"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Payload        json.RawMessage `json:"payload"`
}

// NewEvent wraps payload in an envelope stamped with a fresh id and time.
func NewEvent(eventType string, orgID uuid.UUID, payload any) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:             uuid.New(),
		Type:           eventType,
		OrganizationID: orgID,
		OccurredAt:     time.Now().UTC(),
		Payload:        body,
	}, nil
}

// ToJSON converts the event to JSON bytes
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event envelope
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
