package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/bookshelf/internal/client"
	"github.com/EmpoweredVote/bookshelf/internal/server/servertest"
	"github.com/EmpoweredVote/bookshelf/internal/store"
)

func newTestApp(t *testing.T, env *servertest.Env, script ...string) (*App, *bytes.Buffer) {
	t.Helper()

	c, err := client.New(env.URL("/api"))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	return NewApp(store.New(c), in, out), out
}

func TestRun_GuestSeesHomeAndEmptyList(t *testing.T) {
	env := servertest.New(t)
	app, out := newTestApp(t, env, "books", "exit")

	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Welcome to Bookshelf")
	assert.Contains(t, text, "All Books")
	assert.Contains(t, text, "No books found")
	assert.Contains(t, text, "bookshelf guest /books>")
	assert.Contains(t, text, "Bye!")
}

func TestRun_GuardRedirectsGuestToLogin(t *testing.T) {
	env := servertest.New(t)
	user := servertest.UniqueUsername("cli")
	env.Register(t, servertest.NewClientWithJar(t), user)

	// "add" lands on the login page, which then consumes the credentials.
	app, out := newTestApp(t, env,
		"add",
		user, servertest.TestPassword,
		"exit",
	)
	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Sign in to your account")
	assert.Contains(t, text, "Signed in as "+user)
	assert.Equal(t, "/books", app.Path())
}

func TestRun_RegisterAddEditDelete(t *testing.T) {
	env := servertest.New(t)
	user := servertest.UniqueUsername("writer")

	app, out := newTestApp(t, env,
		"register",
		user, user+"@example.com", servertest.TestPassword,
		"add",
		"Dune", "Desert planet politics and spice.", "https://example.com/dune.jpg", "science fiction",
		"edit 1",
		"Dune Messiah", "", "", "",
		"mine",
		"genre Science Fiction",
		"delete 1", "y",
		"exit",
	)
	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Welcome, "+user)
	assert.Contains(t, text, "Added #1 Dune")
	assert.Contains(t, text, "#1 Dune [Science Fiction] by "+user)
	assert.Contains(t, text, "Updated #1")
	assert.Contains(t, text, "#1 Dune Messiah [Science Fiction]")
	assert.Contains(t, text, "My Books / Science Fiction")
	assert.Contains(t, text, "Deleted #1")
	assert.Contains(t, text, "You haven't added any books yet")

	st := app.store.State()
	assert.True(t, st.Auth.IsAuthenticated)
	assert.Empty(t, st.Books.Books)
}

func TestRun_FormErrorsStayOnPage(t *testing.T) {
	env := servertest.New(t)
	app, out := newTestApp(t, env,
		"register",
		"ab", "not-an-email", "123",
		"exit",
	)
	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Error: Username must be at least 3 characters; Please enter a valid email address; Password must be at least 6 characters")
	assert.False(t, app.store.State().Auth.IsAuthenticated)
}

func TestRun_BadCredentialsShowServerMessage(t *testing.T) {
	env := servertest.New(t)
	app, out := newTestApp(t, env,
		"login",
		"nobody", "wrongpassword",
		"exit",
	)
	require.NoError(t, app.Run(context.Background()))

	assert.Contains(t, out.String(), "Error: Invalid credentials")
	assert.Equal(t, "/login", app.Path())
}

func TestRun_CannotTouchOthersBooks(t *testing.T) {
	env := servertest.New(t)

	owner := servertest.UniqueUsername("owner")
	oc := servertest.NewClientWithJar(t)
	u := env.Register(t, oc, owner)
	status, _ := env.Do(t, oc, "POST", "/api/books", map[string]any{
		"title":       "Owned",
		"description": "Belongs to somebody else.",
		"image":       "https://example.com/o.jpg",
		"genre":       "Fiction",
		"authorId":    u.ID,
		"authorName":  owner,
	})
	require.Equal(t, 201, status)

	other := servertest.UniqueUsername("other")
	app, out := newTestApp(t, env,
		"register",
		other, other+"@example.com", servertest.TestPassword,
		"edit 1",
		"delete 1",
		"exit",
	)
	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "#1 Owned [Fiction] by "+owner)
	assert.NotContains(t, text, "(edit 1")
	assert.Contains(t, text, "You can only edit your own books")
	assert.Contains(t, text, "You can only delete your own books")
}

func TestRun_UnknownBookID(t *testing.T) {
	env := servertest.New(t)
	user := servertest.UniqueUsername("miss")
	app, out := newTestApp(t, env,
		"register",
		user, user+"@example.com", servertest.TestPassword,
		"edit 99",
		"delete 99",
		"exit",
	)
	require.NoError(t, app.Run(context.Background()))

	assert.Equal(t, 2, strings.Count(out.String(), "Error: Book not found"))
}

func TestFindErrorMessage(t *testing.T) {
	assert.Equal(t, "Book not found", findErrorMessage(errBookNotFound))
	assert.Equal(t, "book not found", errBookNotFound.Error())
	assert.Equal(t, "boom", findErrorMessage(errors.New("boom")))
}

func TestRun_LogoutReturnsHome(t *testing.T) {
	env := servertest.New(t)
	user := servertest.UniqueUsername("bye")
	app, out := newTestApp(t, env,
		"register",
		user, user+"@example.com", servertest.TestPassword,
		"logout",
		"exit",
	)
	require.NoError(t, app.Run(context.Background()))

	assert.Contains(t, out.String(), "Signed out")
	assert.Equal(t, "/", app.Path())
	assert.False(t, app.store.State().Auth.IsAuthenticated)
}

func TestRun_EndOfInputStops(t *testing.T) {
	env := servertest.New(t)
	app, out := newTestApp(t, env, "help")

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Commands:")
}

func TestExec_UsageMessages(t *testing.T) {
	env := servertest.New(t)
	app, out := newTestApp(t, env)

	ctx := context.Background()
	for _, line := range []string{"edit", "delete x", "frobnicate", "mine"} {
		quit, err := app.exec(ctx, line)
		require.NoError(t, err)
		assert.False(t, quit)
	}

	text := out.String()
	assert.Contains(t, text, "Usage: edit <id>")
	assert.Contains(t, text, "Usage: delete <id>")
	assert.Contains(t, text, "Unknown command: frobnicate")
	assert.Contains(t, text, "Sign in to see your books")
}

func TestParseID(t *testing.T) {
	id, ok := parseID([]string{"42"})
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, args := range [][]string{nil, {"0"}, {"-1"}, {"abc"}, {"1", "2"}} {
		_, ok := parseID(args)
		assert.False(t, ok, "%v", args)
	}
}
