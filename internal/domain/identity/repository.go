package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("identity record not found")

	// ErrDuplicateUser is returned by CreateUser when the slack_id unique
	// constraint rejects the insert. This is the one store conflict the
	// resolver treats as benign.
	ErrDuplicateUser = errors.New("user already exists")
)

// User is an internal user row, created lazily on first authentication.
type User struct {
	ID       string
	SlackID  string
	Name     string
	Modified time.Time
}

// Attendee is a pre-provisioned registration row. The resolver never creates
// attendees; the admin attendees endpoints do.
type Attendee struct {
	ID         string
	AttendeeID string // registration email, the business key
	SlackID    string // optional until the attendee is matched on Slack
}

type Repository interface {
	FindUserBySlackID(ctx context.Context, slackID string) (*User, error)
	CreateUser(ctx context.Context, user User) error
	FindAttendeeByEmail(ctx context.Context, email string) (*Attendee, error)
	FindAttendeeBySlackID(ctx context.Context, slackID string) (*Attendee, error)
}
