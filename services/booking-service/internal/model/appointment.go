package model

import "time"

// Appointment is the one entity with lifecycle complexity. Date is
// YYYY-MM-DD and the times are HH:MM strings: the admin views filter by
// exact-day match and by YYYY-MM prefix, so the wire format is also the
// storage format. Client and service fields are copied in at booking time;
// later catalog edits never rewrite history.
type Appointment struct {
	ID               string
	ClientID         string
	ClientName       string
	ClientPhone      string
	ServiceID        string
	ServiceName      string
	ProfessionalID   string
	ProfessionalName string
	Date             string
	StartTime        string
	EndTime          string
	Price            string
	Status           string
	CreatedAt        time.Time
}

// Service in the shop catalog. Inactive services stay on past appointments
// (name/price were copied) but disappear from the booking form.
type Service struct {
	ID              string
	Name            string
	Price           string
	DurationMinutes int
	Active          bool
	CreatedAt       time.Time
}

type Professional struct {
	ID          string
	Name        string
	Specialties []string
	WorkStart   string
	WorkEnd     string
	Likes       int
	CreatedAt   time.Time
}

// BlockedSlot reserves a window for a professional. Date is empty for
// recurring blocks, which instead carry the weekday set (time.Weekday
// values, Sunday = 0).
type BlockedSlot struct {
	ID             string
	ProfessionalID string
	Date           string
	StartTime      string
	EndTime        string
	Reason         string
	Recurring      bool
	Weekdays       []int
	CreatedAt      time.Time
}

type Review struct {
	ID             string
	ClientName     string
	ProfessionalID string
	Rating         int
	Comment        string
	CreatedAt      time.Time
}

type Suggestion struct {
	ID         string
	ClientName string
	Message    string
	CreatedAt  time.Time
}

// ShopConfig is the single settings document behind the public site header
// and the admin settings screen.
type ShopConfig struct {
	Name        string
	Phone       string
	Address     string
	LogoURL     string
	CoverURL    string
	BookingLink string
	OpenTime    string
	CloseTime   string
	UpdatedAt   time.Time
}
