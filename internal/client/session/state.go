// Package session implements the PIN lifecycle: first-time setup, login,
// locking and credential removal. The Machine persists every transition
// through an injected store before it changes its in-memory state.
package session

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/pinvault/internal/common"
)

type State int

const (
	Uninitialized State = iota
	NoCredential
	Locked
	Unlocked
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case NoCredential:
		return "no-credential"
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// AppState is the host application's lifecycle phase.
type AppState string

const (
	AppActive     AppState = "active"
	AppBackground AppState = "background"
	AppInactive   AppState = "inactive"
)

func ParseAppState(s string) (AppState, error) {
	switch a := AppState(strings.ToLower(strings.TrimSpace(s))); a {
	case AppActive, AppBackground, AppInactive:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown app state %q", common.ErrInvalidArgument, s)
}

var (
	ErrAlreadyConfigured      = errors.New("a PIN is already configured")
	ErrIncorrectCredential    = errors.New("incorrect PIN")
	ErrNoCredentialConfigured = errors.New("no PIN configured")
	ErrNotAuthenticated       = errors.New("not authenticated")
	ErrNotLoaded              = errors.New("session state not loaded")
	ErrCorruptState           = errors.New("corrupt session state")
)

const (
	MinPINLength = 4
	MaxPINLength = 15
)

// ValidatePIN enforces the PIN length policy. Length is counted in
// characters, not bytes.
func ValidatePIN(pin string) error {
	n := utf8.RuneCountInString(pin)
	if n < MinPINLength || n > MaxPINLength {
		return fmt.Errorf("%w: PIN must be %d to %d characters", common.ErrInvalidArgument, MinPINLength, MaxPINLength)
	}
	return nil
}
