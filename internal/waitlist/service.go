package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// Service registers waitlist signups.
type Service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// NormalizeName trims name and enforces 1..MaxNameLength characters.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &InvalidInputError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", &InvalidInputError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", MaxNameLength)}
	}
	return name, nil
}

// NormalizeEmail trims email and checks its syntax. Case is preserved; the
// storage layer compares case-insensitively.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", &InvalidInputError{Field: "email", Message: "email is required"}
	}
	if err := validate.Var(email, fmt.Sprintf("email,max=%d", MaxEmailLength)); err != nil {
		return "", &InvalidInputError{Field: "email", Message: "email must be a valid email address"}
	}
	return email, nil
}

// Join adds a subscriber unless one with the same email already exists.
//
// The existence check and the insert are not atomic. When a concurrent signup
// for the same email wins the gap, the unique constraint rejects our insert
// and the call still reports StatusAlreadyRegistered.
func (s *Service) Join(ctx context.Context, name, email string) (Status, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return 0, err
	}
	email, err = NormalizeEmail(email)
	if err != nil {
		return 0, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("check subscriber: %w", err)
	}
	if exists {
		return StatusAlreadyRegistered, nil
	}

	sub := &Subscriber{
		ID:    s.newID(),
		Name:  name,
		Email: email,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return StatusAlreadyRegistered, nil
		}
		return 0, fmt.Errorf("create subscriber: %w", err)
	}
	return StatusAdded, nil
}

// Check reports whether email is already on the waitlist. It never writes.
func (s *Service) Check(ctx context.Context, email string) (bool, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return false, err
	}
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check subscriber: %w", err)
	}
	return exists, nil
}
