package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/pinvault/internal/client/catalog"
	"github.com/dmitrijs2005/pinvault/internal/client/config"
	"github.com/dmitrijs2005/pinvault/internal/client/importer"
	"github.com/dmitrijs2005/pinvault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/pinvault/internal/client/services"
	"github.com/dmitrijs2005/pinvault/internal/client/session"
	"github.com/dmitrijs2005/pinvault/internal/client/storage"
	"github.com/dmitrijs2005/pinvault/internal/cryptox"
	"github.com/dmitrijs2005/pinvault/internal/filex"
	"github.com/dmitrijs2005/pinvault/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger

	authService  services.AuthService
	vaultService services.VaultService

	reader   *bufio.Reader
	out      io.Writer
	vaultDir string

	closers []io.Closer
}

// NewApp wires the application on stdin/stdout with logs on stderr.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdin, os.Stdout, os.Stderr)
}

func newApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	logger := logging.NewTextLogger(logOut, c.LogLevel)

	a := &App{
		config: c,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}

	repo, err := a.openStateStore(ctx)
	if err != nil {
		return nil, err
	}

	verifier, err := cryptox.ByName(c.Verifier)
	if err != nil {
		a.Close()
		return nil, err
	}

	machine := session.New(repo, verifier, logger, session.WithResumeUnlocked(c.ResumeUnlocked))

	im, err := importer.New(c.DataDir, filex.OS{}, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.vaultDir = im.Dir()
	a.authService = services.NewAuthService(machine)
	a.vaultService = services.NewVaultService(machine, catalog.NewStore(repo, logger), im, logger)
	return a, nil
}

func (a *App) openStateStore(ctx context.Context) (metadata.Repository, error) {
	if _, err := filex.EnsureDir(a.config.DataDir, "."); err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}

	switch a.config.StateBackend {
	case config.BackendFile:
		dir, err := filex.EnsureDir(a.config.StatePath(), ".")
		if err != nil {
			return nil, fmt.Errorf("state directory: %w", err)
		}
		return metadata.NewFileRepository(dir), nil

	default:
		db, err := storage.InitDatabase(ctx, a.config.StatePath())
		if err != nil {
			a.logger.Error(ctx, "error initializing database", "error", err)
			return nil, err
		}
		a.closers = append(a.closers, db)
		return metadata.NewSQLiteRepository(db), nil
	}
}

// Close releases the state store.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run restores the session and the catalog and blocks in the REPL until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	st, err := a.authService.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	if _, err := a.vaultService.Load(ctx); err != nil {
		if !errors.Is(err, catalog.ErrCorruptCatalog) {
			return fmt.Errorf("load catalog: %w", err)
		}
		fmt.Fprintln(a.out, "Warning: the file catalog was unreadable and has been reset.")
	}

	fmt.Fprintln(a.out, "Welcome to PinVault (type 'help' for commands)")
	switch {
	case !a.authService.Configured():
		fmt.Fprintln(a.out, "No PIN configured yet. Type 'setup' to create one.")
	case st == session.Locked:
		fmt.Fprintln(a.out, "Vault is locked. Type 'login' to unlock.")
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) state() session.State {
	return a.authService.State()
}

// status is the prompt label. It reads "loading" until the session has been
// restored from the store.
func (a *App) status() string {
	if !a.authService.Ready() {
		return "loading"
	}
	return a.state().String()
}

// report prints a user-facing error line.
func (a *App) report(err error) {
	fmt.Fprintln(a.out, "Error:", err)
}
