package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/pinvault/internal/client/models"
	"github.com/dmitrijs2005/pinvault/internal/logging"
)

// StorageKey is the persisted-state key holding the session record.
const StorageKey = "auth-storage"

// CredentialVerifier turns a PIN into its stored form and checks candidates
// against it. cryptox provides plain and argon2 implementations.
type CredentialVerifier interface {
	Seal(pin string) (string, error)
	Verify(stored, candidate string) bool
}

// Repository is the part of the persisted-state store the session needs.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}

type Option func(*Machine)

// WithResumeUnlocked makes Load restore a persisted unlocked flag instead of
// always starting Locked.
func WithResumeUnlocked(v bool) Option {
	return func(m *Machine) { m.resumeUnlocked = v }
}

type Machine struct {
	repo     Repository
	verifier CredentialVerifier
	logger   logging.Logger

	resumeUnlocked bool

	mu    sync.Mutex
	state State
	rec   models.SessionRecord
}

func New(repo Repository, verifier CredentialVerifier, logger logging.Logger, opts ...Option) *Machine {
	m := &Machine{
		repo:     repo,
		verifier: verifier,
		logger:   logger.With("component", "session"),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func decodeRecord(data []byte) (models.SessionRecord, error) {
	var rec models.SessionRecord
	if len(data) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.SessionRecord{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if !rec.HasCredential() {
		rec.IsUnlocked = false
	}
	return rec, nil
}

func (m *Machine) write(ctx context.Context, rec models.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.repo.Set(ctx, StorageKey, data); err != nil {
		m.logger.Error(ctx, "session write failed", "error", err)
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (m *Machine) commit(ctx context.Context, rec models.SessionRecord, st State) {
	from := m.state
	m.rec = rec
	m.state = st
	if from != st {
		m.logger.Info(ctx, "session transition", "from", from.String(), "to", st.String())
	}
}

// Load restores the persisted record, marks the machine bootstrapped and
// leaves Uninitialized. With a credential the machine starts Locked unless
// WithResumeUnlocked was given; a persisted unlocked flag that is not
// honoured is cleared in the store.
func (m *Machine) Load(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.repo.Get(ctx, StorageKey)
	if err != nil {
		return m.state, fmt.Errorf("read session: %w", err)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return m.state, err
	}
	rec.IsBootstrapped = true

	if !rec.HasCredential() {
		rec.IsUnlocked = false
		m.commit(ctx, rec, NoCredential)
		return m.state, nil
	}

	if rec.IsUnlocked && m.resumeUnlocked {
		m.commit(ctx, rec, Unlocked)
		return m.state, nil
	}

	if rec.IsUnlocked {
		rec.IsUnlocked = false
		if err := m.write(ctx, rec); err != nil {
			m.logger.Warn(ctx, "could not persist cold-start lock", "error", err)
		}
	}
	m.commit(ctx, rec, Locked)
	return m.state, nil
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) IsUnlocked() bool {
	return m.State() == Unlocked
}

func (m *Machine) IsBootstrapped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec.IsBootstrapped
}

func (m *Machine) HasCredential() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec.HasCredential()
}

// SetupPIN configures the first PIN and unlocks. The check for an existing
// credential runs inside a store Update, so a setup racing through the same
// store is rejected with ErrAlreadyConfigured and the stored credential wins.
func (m *Machine) SetupPIN(ctx context.Context, pin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case Uninitialized:
		return ErrNotLoaded
	case Locked, Unlocked:
		return ErrAlreadyConfigured
	}

	sealed, err := m.verifier.Seal(pin)
	if err != nil {
		return fmt.Errorf("seal PIN: %w", err)
	}
	next := models.SessionRecord{Credential: &sealed, IsUnlocked: true, IsBootstrapped: true}

	var stored models.SessionRecord
	err = m.repo.Update(ctx, StorageKey, func(current []byte) ([]byte, error) {
		rec, err := decodeRecord(current)
		if err != nil {
			return nil, err
		}
		if rec.HasCredential() {
			stored = rec
			return nil, ErrAlreadyConfigured
		}
		return json.Marshal(next)
	})

	switch {
	case errors.Is(err, ErrAlreadyConfigured):
		// The in-memory NoCredential state is stale: the store already holds
		// another setup's credential. Follow the store, locked.
		stored.IsUnlocked = false
		stored.IsBootstrapped = true
		m.commit(ctx, stored, Locked)
		return err
	case err != nil:
		m.logger.Error(ctx, "PIN setup failed", "error", err)
		return fmt.Errorf("write session: %w", err)
	}

	m.commit(ctx, next, Unlocked)
	return nil
}

// Login unlocks a Locked machine when pin matches the stored credential.
// Logging in while already Unlocked only checks the PIN.
func (m *Machine) Login(ctx context.Context, pin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(pin); err != nil {
		if errors.Is(err, ErrIncorrectCredential) {
			m.logger.Warn(ctx, "login rejected")
		}
		return err
	}
	if m.state == Unlocked {
		return nil
	}

	next := m.rec
	next.IsUnlocked = true
	next.IsBootstrapped = true
	if err := m.write(ctx, next); err != nil {
		return err
	}

	m.commit(ctx, next, Unlocked)
	return nil
}

// Lock moves Unlocked to Locked. In any other state it does nothing.
func (m *Machine) Lock(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Unlocked {
		return nil
	}

	next := m.rec
	next.IsUnlocked = false
	if err := m.write(ctx, next); err != nil {
		return err
	}

	m.commit(ctx, next, Locked)
	return nil
}

// HandleAppState locks when the host goes to the background or becomes
// inactive.
func (m *Machine) HandleAppState(ctx context.Context, s AppState) error {
	switch s {
	case AppBackground, AppInactive:
		m.logger.Debug(ctx, "host left foreground", "app_state", string(s))
		return m.Lock(ctx)
	case AppActive:
		return nil
	}
	_, err := ParseAppState(string(s))
	return err
}

// RemoveCredential forgets the PIN from Locked or Unlocked and moves to
// NoCredential.
func (m *Machine) RemoveCredential(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case Uninitialized:
		return ErrNotLoaded
	case NoCredential:
		return ErrNoCredentialConfigured
	}

	next := models.SessionRecord{IsBootstrapped: m.rec.IsBootstrapped}
	if err := m.write(ctx, next); err != nil {
		return err
	}

	m.commit(ctx, next, NoCredential)
	return nil
}

// SetPassword replaces the PIN. It requires an Unlocked session.
func (m *Machine) SetPassword(ctx context.Context, pin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Unlocked {
		return ErrNotAuthenticated
	}

	sealed, err := m.verifier.Seal(pin)
	if err != nil {
		return fmt.Errorf("seal PIN: %w", err)
	}

	next := m.rec
	next.Credential = &sealed
	if err := m.write(ctx, next); err != nil {
		return err
	}

	m.commit(ctx, next, Unlocked)
	m.logger.Info(ctx, "PIN changed")
	return nil
}

// CheckCredential compares pin with the stored credential without changing
// state.
func (m *Machine) CheckCredential(pin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.check(pin)
}

func (m *Machine) check(pin string) error {
	switch m.state {
	case Uninitialized:
		return ErrNotLoaded
	case NoCredential:
		return ErrNoCredentialConfigured
	}
	if !m.verifier.Verify(*m.rec.Credential, pin) {
		return ErrIncorrectCredential
	}
	return nil
}
