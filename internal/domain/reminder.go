package domain

import "time"

// Repeat policies a reminder can carry. The policy is descriptive metadata
// for the client; the API never fires reminders itself.
const (
	RepeatNone   = "None"
	RepeatDaily  = "Daily"
	RepeatWeekly = "Weekly"
)

// ValidRepeat reports whether s is a known repeat policy.
func ValidRepeat(s string) bool {
	return s == RepeatNone || s == RepeatDaily || s == RepeatWeekly
}

// Reminder is a user-owned scheduled note.
type Reminder struct {
	ReminderID string    `json:"id" dynamodbav:"reminder_id"`
	Title      string    `json:"title" dynamodbav:"title"`
	DateTime   time.Time `json:"dateTime" dynamodbav:"date_time"`
	Repeat     string    `json:"repeat" dynamodbav:"repeat"`
	UserID     string    `json:"userId" dynamodbav:"user_id"`
	IsActive   bool      `json:"isActive" dynamodbav:"is_active"`
	CreatedAt  time.Time `json:"createdAt" dynamodbav:"created_at"`
}

type CreateReminderRequest struct {
	Title    string     `json:"title" validate:"required"`
	DateTime *time.Time `json:"dateTime" validate:"required"`
	Repeat   string     `json:"repeat"`
}

type UpdateReminderRequest struct {
	Title    *string    `json:"title"`
	DateTime *time.Time `json:"dateTime"`
	Repeat   *string    `json:"repeat"`
	IsActive *bool      `json:"isActive"`
}
