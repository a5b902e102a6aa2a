package outbox

// Event is one row written to outbox_events inside the registration
// transaction. EventType doubles as the kafka topic.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const TopicClientRegistered = "auth.client.registered.v1"

// ClientRegisteredEvent seeds the campaign service's client projection;
// the json keys are part of that contract.
type ClientRegisteredEvent struct {
	ClientID string `json:"clientId"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}
