package models

import "time"

// Payment event types carried over the WebSocket, derived from payment status.
const (
	EventPaymentReceived = "payment_received"
	EventPaymentFailed   = "payment_failed"
	EventPaymentRefunded = "payment_refunded"
)

// Frame type discriminators for non-payment frames.
const (
	FrameConnectionStatus = "connection_status"
	FrameError            = "error"
)

// Connection statuses reported by the stream.
const (
	ConnConnected    = "connected"
	ConnDisconnected = "disconnected"
	ConnError        = "error"
)

// PaymentEvent is the broadcast frame for a created payment. Type is one of
// the payment_* event types.
type PaymentEvent struct {
	Type      string    `json:"type"`
	Payment   Payment   `json:"payment"`
	Timestamp time.Time `json:"timestamp"`
}

// ConnectionStatusEvent is emitted to a session when it joins, and mirrored
// locally by the client when the transport state changes.
type ConnectionStatusEvent struct {
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorEvent is emitted before closing a session that failed validation.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// EventTypeForStatus maps a payment status to its broadcast event type.
func EventTypeForStatus(status string) string {
	switch status {
	case PaymentStatusFailed:
		return EventPaymentFailed
	case PaymentStatusRefunded:
		return EventPaymentRefunded
	default:
		return EventPaymentReceived
	}
}
