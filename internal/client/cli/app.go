package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/cafecatalog/internal/client/client"
	"github.com/dmitrijs2005/cafecatalog/internal/client/config"
	"github.com/dmitrijs2005/cafecatalog/internal/client/models"
	"github.com/dmitrijs2005/cafecatalog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cafecatalog/internal/client/services"
	"github.com/dmitrijs2005/cafecatalog/internal/client/tokenstore"
	"github.com/dmitrijs2005/cafecatalog/internal/filex"
	"github.com/dmitrijs2005/cafecatalog/internal/logging"
)

type App struct {
	config   *config.Config
	auth     services.AuthService
	products services.ProductService
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	closers  []func() error
}

// NewApp opens the local database, builds the REST client on top of the
// stored token and returns an App reading from stdin.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dsn, err := filex.DataFile(c.DataDir, c.DatabaseFile)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, dsn)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", dsn, "error", err)
		return nil, err
	}

	tokens := tokenstore.NewMetadataStore(metadata.NewSQLiteRepository(db))

	api, err := client.NewHTTPClient(c.ServerBaseURL, tokens, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c,
		services.NewAuthService(api, tokens, log),
		services.NewProductService(api, log),
		log, os.Stdin, os.Stdout)
	a.closers = append(a.closers, db.Close)
	return a, nil
}

func newApp(c *config.Config, auth services.AuthService, products services.ProductService,
	log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		auth:     auth,
		products: products,
		log:      log,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run restores the stored session, loads the catalog when signed in and
// serves the REPL until EOF or "exit".
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	a.start(ctx)
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) start(ctx context.Context) {
	fmt.Fprintln(a.out, "Café catalog CLI (type 'help' for commands)")

	a.auth.RestoreSession(ctx)
	if a.isLoggedIn() {
		_ = a.List(ctx)
	}
}

// Close releases the local database.
func (a *App) Close(ctx context.Context) {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(ctx, "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.auth.Snapshot().IsAuthenticated()
}

// getStatus renders the session for the prompt; a pending error is marked
// with "!" until dismissed.
func (a *App) getStatus() string {
	s := a.auth.Snapshot()

	var who string
	switch {
	case s.Status == models.StatusChecking:
		who = "checking"
	case s.IsAuthenticated():
		who = s.User.Email
	default:
		who = "guest"
	}
	if s.LastError != "" {
		who += " !"
	}
	return fmt.Sprintf("(%s)", who)
}
