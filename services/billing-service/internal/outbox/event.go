package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const (
	TopicSubscriptionActivated = "billing.subscription.activated.v1"
	TopicSubscriptionCanceled  = "billing.subscription.canceled.v1"
)

// SubscriptionEvent feeds the booking entitlements cache; the field names
// are part of the contract with that consumer.
type SubscriptionEvent struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientID       string `json:"clientId"`
	ClientName     string `json:"clientName"`
	PlanID         string `json:"planId"`
	PlanName       string `json:"planName"`
	UsageLimit     int    `json:"usageLimit"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
}
