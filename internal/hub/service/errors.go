package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/campaignhub/internal/hub/store"
)

var (
	ErrNotFound           = store.ErrNotFound
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already registered")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownAction      = errors.New("unknown lifecycle action")
)

// TransitionError reports a lifecycle action refused because of the entity's
// current status. It matches ErrInvalidTransition.
type TransitionError struct {
	Entity  string
	Action  string
	Current string
	Target  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Cannot %s %s with status %s", e.Action, e.Entity, e.Current)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
