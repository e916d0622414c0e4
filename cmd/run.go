package cmd

import (
	"context"
	"fmt"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/akhaled/eduterm/internal/app"
	"github.com/akhaled/eduterm/internal/auth"
	"github.com/akhaled/eduterm/internal/store"
	"github.com/spf13/cobra"
)

// deps is the wired dependency set shared by the TUI and the one-shot
// subcommands.
type deps struct {
	store   *store.Store
	authCtx *auth.Context
	svc     api.Service
}

func (d *deps) Close() error {
	return d.store.Close()
}

// openDeps opens the local store, restores any persisted login and
// builds the Exam Service client with event logging.
func openDeps(cmd *cobra.Command) (*deps, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	authCtx := auth.NewContext(st.CredentialRepo())
	if err := authCtx.Load(context.Background()); err != nil {
		st.Close()
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	client := api.NewClient(api.ConfigFromEnv(), authCtx)
	svc := api.WithLogging(client, st.EventRepo())

	return &deps{store: st, authCtx: authCtx, svc: svc}, nil
}

// runApp opens dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(app.Options{
		API:    d.svc,
		Auth:   d.authCtx,
		Events: d.store.EventRepo(),
	})
}
