package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/config"
	"github.com/dmitrijs2005/gophdrive/internal/client/services"
)

type App struct {
	config *config.Config
	auth   services.AuthService
	drive  services.DriveService
	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)

	as := services.NewAuthService(apiClient, db)
	ds := services.NewDriveService(apiClient, as)

	return &App{
		config: c,
		auth:   as,
		drive:  ds,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run checks that the server answers, then serves the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	fmt.Fprintf(a.out, "gophdrive CLI, server %s (type 'help' for commands)\n", a.config.ServerURL)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := a.auth.Ping(pingCtx); err != nil {
		fmt.Fprintf(a.out, "warning: %v\n", err)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, err := a.auth.Session(ctx)
	return err == nil
}

func (a *App) getStatus(ctx context.Context) string {
	s, err := a.auth.Session(ctx)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("(%s) ", s.Email)
}
