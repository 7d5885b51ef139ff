// Package services contains the application services the CLI talks to.
// This file defines the authentication service: PIN policy on top of the
// session state machine, host lifecycle forwarding and PIN maintenance.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pinvault/internal/client/session"
	"github.com/dmitrijs2005/pinvault/internal/common"
)

var ErrPINMismatch = fmt.Errorf("%w: PIN entries do not match", common.ErrInvalidArgument)

// Session is the state machine the services are built on. *session.Machine
// implements it.
type Session interface {
	Load(ctx context.Context) (session.State, error)
	State() session.State
	IsUnlocked() bool
	IsBootstrapped() bool
	HasCredential() bool
	SetupPIN(ctx context.Context, pin string) error
	Login(ctx context.Context, pin string) error
	Lock(ctx context.Context) error
	HandleAppState(ctx context.Context, s session.AppState) error
	RemoveCredential(ctx context.Context) error
	SetPassword(ctx context.Context, pin string) error
	CheckCredential(pin string) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Load: restore the persisted session; every start comes up Locked
//     unless the machine was built to resume.
//   - Ready / Configured: whether Load has completed and whether a PIN exists.
//   - Setup: first PIN, entered twice; unlocks on success.
//   - Login: unlock with the configured PIN.
//   - Lock / AppState: lock explicitly or when the host leaves the foreground.
//   - ChangePIN: replace the PIN while unlocked, re-confirming the current one.
//   - Reset: forget the PIN after re-confirming it.
type AuthService interface {
	Load(ctx context.Context) (session.State, error)
	State() session.State
	Ready() bool
	Configured() bool
	Setup(ctx context.Context, pin, confirm string) error
	Login(ctx context.Context, pin string) error
	Lock(ctx context.Context) error
	AppState(ctx context.Context, s session.AppState) error
	ChangePIN(ctx context.Context, current, pin, confirm string) error
	Reset(ctx context.Context, current string) error
}

type authService struct {
	session Session
}

func NewAuthService(s Session) AuthService {
	return &authService{session: s}
}

func checkNewPIN(pin, confirm string) error {
	if err := session.ValidatePIN(pin); err != nil {
		return err
	}
	if pin != confirm {
		return ErrPINMismatch
	}
	return nil
}

func (a *authService) Load(ctx context.Context) (session.State, error) {
	return a.session.Load(ctx)
}

func (a *authService) State() session.State {
	return a.session.State()
}

func (a *authService) Ready() bool {
	return a.session.IsBootstrapped()
}

func (a *authService) Configured() bool {
	return a.session.HasCredential()
}

func (a *authService) Setup(ctx context.Context, pin, confirm string) error {
	if err := checkNewPIN(pin, confirm); err != nil {
		return err
	}
	return a.session.SetupPIN(ctx, pin)
}

func (a *authService) Login(ctx context.Context, pin string) error {
	return a.session.Login(ctx, pin)
}

func (a *authService) Lock(ctx context.Context) error {
	return a.session.Lock(ctx)
}

func (a *authService) AppState(ctx context.Context, s session.AppState) error {
	return a.session.HandleAppState(ctx, s)
}

func (a *authService) ChangePIN(ctx context.Context, current, pin, confirm string) error {
	if !a.session.IsUnlocked() {
		return session.ErrNotAuthenticated
	}
	if err := a.session.CheckCredential(current); err != nil {
		return err
	}
	if err := checkNewPIN(pin, confirm); err != nil {
		return err
	}
	return a.session.SetPassword(ctx, pin)
}

func (a *authService) Reset(ctx context.Context, current string) error {
	if !a.session.HasCredential() {
		return session.ErrNoCredentialConfigured
	}
	if err := a.session.CheckCredential(current); err != nil {
		if errors.Is(err, session.ErrIncorrectCredential) {
			return fmt.Errorf("reset refused: %w", err)
		}
		return err
	}
	return a.session.RemoveCredential(ctx)
}
