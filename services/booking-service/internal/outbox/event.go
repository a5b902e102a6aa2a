package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Topics emitted by this service.
const (
	TopicAppointmentBooked      = "booking.appointment.booked.v1"
	TopicAppointmentPaid        = "booking.appointment.paid.v1"
	TopicAppointmentCancelled   = "booking.appointment.cancelled.v1"
	TopicAppointmentRescheduled = "booking.appointment.rescheduled.v1"
)

// AppointmentEvent is the payload shared by all four appointment topics.
// Consumers that only need the money (billing) read Price; consumers that
// track activity (campaign) read ClientID and Date.
type AppointmentEvent struct {
	AppointmentID  string `json:"appointmentId"`
	ClientID       string `json:"clientId"`
	ClientName     string `json:"clientName"`
	ClientPhone    string `json:"clientPhone"`
	ServiceID      string `json:"serviceId"`
	ServiceName    string `json:"serviceName"`
	ProfessionalID string `json:"professionalId"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Price          string `json:"price"`
	Status         string `json:"status"`
}
