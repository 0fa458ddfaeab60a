// Package cli is a terminal front end for the catalog. Every page renders
// from the client state store and changes it only through store thunks.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/EmpoweredVote/bookshelf/internal/store"
	"github.com/EmpoweredVote/bookshelf/internal/view"
)

const maxRedirects = 3

type App struct {
	store    *store.Store
	reader   *bufio.Reader
	out      io.Writer
	password func() (string, error)

	path   string
	filter view.Filter
}

func NewApp(st *store.Store, in io.Reader, out io.Writer) *App {
	r := bufio.NewReader(in)
	return &App{
		store:    st,
		reader:   r,
		out:      out,
		password: passwordReader(in, r, out),
		path:     "/",
	}
}

// Path is the route currently shown.
func (a *App) Path() string { return a.path }

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) showError(msg string) {
	if msg != "" {
		a.println("Error:", msg)
	}
}

func (a *App) status() string {
	auth := a.store.State().Auth
	if auth.IsAuthenticated && auth.User != nil {
		return auth.User.Username
	}
	return "guest"
}

// navigate resolves path through the route guard and renders the page it
// lands on, following redirects.
func (a *App) navigate(ctx context.Context, path string) error {
	for i := 0; i <= maxRedirects; i++ {
		m := view.Resolve(path, a.store.State().Auth)
		switch m.Outcome.Kind {
		case view.Loading:
			a.println("Loading...")
			return nil
		case view.Redirect:
			path = m.Outcome.To
			continue
		}

		a.path = path
		return a.render(ctx, m)
	}
	return fmt.Errorf("too many redirects at %s", path)
}

func (a *App) render(ctx context.Context, m view.Match) error {
	switch m.Page {
	case view.PageHome:
		a.renderHome()
		return nil
	case view.PageBooks:
		return a.renderBooks(ctx)
	case view.PageLogin:
		return a.loginPage(ctx)
	case view.PageRegister:
		return a.registerPage(ctx)
	case view.PageAddBook:
		return a.addBookPage(ctx)
	case view.PageEditBook:
		return a.editBookPage(ctx, m.ID)
	default:
		a.println("Page not found")
		return nil
	}
}
