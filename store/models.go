package store

import "time"

type ContactStatus string

const (
	StatusNew      ContactStatus = "NEW"
	StatusRead     ContactStatus = "READ"
	StatusReplied  ContactStatus = "REPLIED"
	StatusArchived ContactStatus = "ARCHIVED"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied, StatusArchived:
		return true
	}
	return false
}

type ContactSubmission struct {
	ID        string        `json:"id" msgpack:"id"`
	Name      string        `json:"name" msgpack:"name"`
	Email     string        `json:"email" msgpack:"email"`
	Subject   *string       `json:"subject" msgpack:"subject"`
	Message   string        `json:"message" msgpack:"message"`
	IPAddress string        `json:"ipAddress" msgpack:"ipAddress"`
	Status    ContactStatus `json:"status" msgpack:"status"`
	CreatedAt time.Time     `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" msgpack:"updatedAt"`
}

type NewsletterSubscription struct {
	ID                string     `json:"id" msgpack:"id"`
	Email             string     `json:"email" msgpack:"email"`
	Name              *string    `json:"name" msgpack:"name"`
	Preferences       []string   `json:"preferences" msgpack:"preferences"`
	IsActive          bool       `json:"isActive" msgpack:"isActive"`
	SubscribedAt      time.Time  `json:"subscribedAt" msgpack:"subscribedAt"`
	UnsubscribedAt    *time.Time `json:"unsubscribedAt" msgpack:"unsubscribedAt"`
	UnsubscribeReason *string    `json:"unsubscribeReason" msgpack:"unsubscribeReason"`
	UpdatedAt         time.Time  `json:"updatedAt" msgpack:"updatedAt"`
}

type Attendance string

const (
	AttendingYes   Attendance = "YES"
	AttendingNo    Attendance = "NO"
	AttendingMaybe Attendance = "MAYBE"
)

type EventRSVP struct {
	ID                  string     `json:"id" msgpack:"id"`
	EventID             string     `json:"eventId" msgpack:"eventId"`
	Name                string     `json:"name" msgpack:"name"`
	Email               string     `json:"email" msgpack:"email"`
	Phone               *string    `json:"phone" msgpack:"phone"`
	GuestCount          int        `json:"guestCount" msgpack:"guestCount"`
	Attending           Attendance `json:"attending" msgpack:"attending"`
	DietaryRestrictions *string    `json:"dietaryRestrictions" msgpack:"dietaryRestrictions"`
	Message             *string    `json:"message" msgpack:"message"`
	CreatedAt           time.Time  `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt" msgpack:"updatedAt"`
}

// RSVPCount counts the YES answers of an event; TotalGuests includes +1s.
type RSVPCount struct {
	AttendingCount int64 `json:"attendingCount" msgpack:"attendingCount"`
	TotalGuests    int64 `json:"totalGuests" msgpack:"totalGuests"`
}
