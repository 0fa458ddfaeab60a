package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/EmpoweredVote/bookshelf/internal/view"
)

const helpText = `Commands:
  home              show the home page
  books             list books
  mine              toggle "My Books"
  genre <name>      toggle a genre filter (no name clears it)
  add               add a book
  edit <id>         edit one of your books
  delete <id>       delete one of your books
  login | register  sign in or create an account
  logout            sign out
  help              show this help
  exit | quit       leave`

// Run checks for an existing session, shows the home page and then reads
// commands until exit or end of input.
func (a *App) Run(ctx context.Context) error {
	_, _ = a.store.CheckAuthStatus(ctx)
	if err := a.navigate(ctx, "/"); err != nil {
		return err
	}

	for {
		a.printf("bookshelf %s %s> ", a.status(), a.path)
		line, err := readLine(a.reader)
		if errors.Is(err, io.EOF) {
			a.println()
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := a.exec(ctx, line)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			a.showError(err.Error())
		}
		if quit {
			a.println("Bye!")
			return nil
		}
	}
}

// exec runs one command line. It reports whether the loop should stop.
func (a *App) exec(ctx context.Context, line string) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "help":
		a.println(helpText)

	case "home":
		return false, a.navigate(ctx, "/")

	case "books", "list":
		return false, a.navigate(ctx, "/books")

	case "mine":
		if !a.store.State().Auth.IsAuthenticated {
			a.println("Sign in to see your books")
			return false, nil
		}
		a.filter.MineOnly = !a.filter.MineOnly
		return false, a.navigate(ctx, "/books")

	case "genre":
		name := view.NormalizeGenre(strings.Join(args, " "))
		if name == "" {
			a.filter.Genre = ""
		} else {
			a.filter.Genre = view.ToggleGenre(a.filter.Genre, name)
		}
		return false, a.navigate(ctx, "/books")

	case "add":
		return false, a.navigate(ctx, "/add-book")

	case "edit":
		if len(args) != 1 {
			a.println("Usage: edit <id>")
			return false, nil
		}
		return false, a.navigate(ctx, "/edit-book/"+args[0])

	case "delete":
		id, ok := parseID(args)
		if !ok {
			a.println("Usage: delete <id>")
			return false, nil
		}
		return false, a.deleteBook(ctx, id)

	case "login":
		return false, a.navigate(ctx, "/login")

	case "register":
		return false, a.navigate(ctx, "/register")

	case "logout":
		if err := a.store.Logout(ctx); err != nil {
			return false, err
		}
		a.filter = view.Filter{}
		a.println("Signed out")
		return false, a.navigate(ctx, "/")

	case "exit", "quit":
		return true, nil

	default:
		a.println("Unknown command:", cmd)
	}
	return false, nil
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
