package events

// Envelope is the payload delivered to every subscriber on broadcast.
// The wire field names match what socket clients expect.
type Envelope struct {
	Message string `json:"message"`         // short event tag, e.g. "player updated"
	Details any    `json:"message_details"` // arbitrary serializable payload
}

// NewEnvelope builds an immutable event envelope.
func NewEnvelope(message string, details any) Envelope {
	return Envelope{
		Message: message,
		Details: details,
	}
}
