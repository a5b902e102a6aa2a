package model

import "time"

// Campaign targets clients inactive for at least ThresholdDays. Template
// carries the {nome} {dias} {link} {desconto} placeholders.
type Campaign struct {
	ID            string
	Name          string
	ThresholdDays int
	Template      string
	Discount      string
	Active        bool
	CreatedAt     time.Time
}

// Client is the local projection built from auth and booking events.
// LastPaidAt is zero until the first paid appointment arrives.
type Client struct {
	ID         string
	Name       string
	Phone      string
	Email      string
	LastPaidAt time.Time
	CreatedAt  time.Time
}

type Notification struct {
	ID        string
	Kind      string
	Title     string
	Body      string
	CreatedAt time.Time
}
