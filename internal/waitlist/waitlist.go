package waitlist

import (
	"errors"
	"time"
)

var (
	// ErrInvalidInput is matched by every validation failure of Join and Check.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateEmail is returned by repositories when the email unique
	// constraint rejects an insert.
	ErrDuplicateEmail = errors.New("email already registered")
)

const (
	MaxNameLength  = 200
	MaxEmailLength = 320
)

// InvalidInputError names the offending field.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Status is the outcome of a successful signup.
type Status int

const (
	StatusAdded Status = iota + 1
	StatusAlreadyRegistered
)

func (s Status) Message() string {
	switch s {
	case StatusAdded:
		return "Added to waitlist!"
	case StatusAlreadyRegistered:
		return "Already on the waitlist."
	}
	return ""
}

func (s Status) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusAlreadyRegistered:
		return "already_registered"
	}
	return "unknown"
}

// Subscriber is a person who asked to be notified at launch.
type Subscriber struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
