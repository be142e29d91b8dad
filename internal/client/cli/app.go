package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/api"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// API is the part of *api.Client used by the CLI.
type API interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, name, surname, email, password string) (*models.Profile, error)
	Login(ctx context.Context, email, password string) (api.Session, error)
	Profile(ctx context.Context, s api.Session) (*models.Profile, error)
	UpdateProfile(ctx context.Context, s api.Session, upd models.UserUpdate) (*models.Profile, error)
	DeleteAccount(ctx context.Context, s api.Session) error
	Notes(ctx context.Context, s api.Session) ([]models.Note, error)
	MyNotes(ctx context.Context, s api.Session) ([]models.Note, error)
	AddNote(ctx context.Context, s api.Session, text string, private bool) (*models.Note, error)
	DeleteNote(ctx context.Context, s api.Session, id string) error
	SearchDucks(ctx context.Context, query string) ([]models.Duck, error)
	ToggleFavorite(ctx context.Context, s api.Session, duckID string) (bool, error)
	Favorites(ctx context.Context, s api.Session) ([]models.Duck, error)
}

type App struct {
	api     API
	session *api.Session
	email   string
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time
}

func NewApp(c *config.Config) *App {
	return newApp(api.New(c.ServerURL, c.Timeout, nil), os.Stdin, os.Stdout)
}

func newApp(a API, in io.Reader, out io.Writer) *App {
	return &App{api: a, reader: bufio.NewReader(in), out: out, now: time.Now}
}

// Run greets the user, checks the server and starts the REPL.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to notekeeper CLI (type 'help' for commands)")

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := a.api.Ping(pingCtx); err != nil {
		a.println("Warning: server is not reachable:", err)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil && !a.session.Expired(a.now())
}

func (a *App) getStatus() string {
	if a.session == nil {
		return ""
	}
	if a.session.Expired(a.now()) {
		return "(session expired)"
	}
	return fmt.Sprintf("(%s)", a.email)
}

// currentSession returns the session or reports that a login is needed.
func (a *App) currentSession() (api.Session, bool) {
	if !a.isLoggedIn() {
		a.println("Please login first")
		return api.Session{}, false
	}
	return *a.session, true
}
