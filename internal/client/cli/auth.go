package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pinvault/internal/client/session"
)

// getSimpleText, getPIN and confirm are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var (
	getSimpleText = GetSimpleText
	getPIN        = GetPIN
	confirm       = Confirm
)

var errCancelled = errors.New("cancelled")

// Setup asks for a new PIN twice and configures it. On success the vault is
// unlocked.
func (a *App) Setup(ctx context.Context) error {
	pin, err := getPIN(a.reader, fmt.Sprintf("Choose a PIN (%d-%d characters)", session.MinPINLength, session.MaxPINLength), a.out)
	if err != nil {
		return err
	}
	again, err := getPIN(a.reader, "Repeat the PIN", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Setup(ctx, pin, again); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "PIN set. Vault unlocked.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	pin, err := getPIN(a.reader, "Enter PIN", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, pin); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Vault unlocked.")
	return nil
}

func (a *App) Lock(ctx context.Context) error {
	if err := a.authService.Lock(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Vault locked.")
	return nil
}

// Background simulates the host application leaving the foreground, which
// locks the vault.
func (a *App) Background(ctx context.Context) error {
	if err := a.authService.AppState(ctx, session.AppBackground); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "App backgrounded. Vault locked.")
	return nil
}

// Foreground simulates the host application becoming active again. It does
// not unlock.
func (a *App) Foreground(ctx context.Context) error {
	return a.authService.AppState(ctx, session.AppActive)
}

// ChangePIN asks for the current PIN and the new one twice.
func (a *App) ChangePIN(ctx context.Context) error {
	current, err := getPIN(a.reader, "Current PIN", a.out)
	if err != nil {
		return err
	}
	pin, err := getPIN(a.reader, "New PIN", a.out)
	if err != nil {
		return err
	}
	again, err := getPIN(a.reader, "Repeat the new PIN", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.ChangePIN(ctx, current, pin, again); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "PIN changed.")
	return nil
}

// Reset removes the PIN after the user re-enters it and confirms. Stored
// files are kept.
func (a *App) Reset(ctx context.Context) error {
	ok, err := confirm(a.reader, "Remove the PIN? Anyone will be able to set a new one and open the vault.", a.out)
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}

	current, err := getPIN(a.reader, "Enter PIN", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Reset(ctx, current); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "PIN removed. Type 'setup' to create a new one.")
	return nil
}
