package books_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EmpoweredVote/bookshelf/internal/books"
	"github.com/EmpoweredVote/bookshelf/internal/logging"
	"github.com/EmpoweredVote/bookshelf/internal/server/servertest"
	"github.com/EmpoweredVote/bookshelf/internal/webutil"
)

func bookPayload(authorID any, authorName string) map[string]any {
	return map[string]any{
		"title":       "The Left Hand of Darkness",
		"description": "An envoy visits a planet of ambisexual people.",
		"image":       "https://example.com/lhod.jpg",
		"genre":       "Science Fiction",
		"authorId":    authorID,
		"authorName":  authorName,
	}
}

func decodeBook(t *testing.T, raw []byte) books.Book {
	t.Helper()
	var b books.Book
	require.NoError(t, json.Unmarshal(raw, &b), string(raw))
	return b
}

func bookPath(id int64) string {
	return "/api/books/" + strconv.FormatInt(id, 10)
}

func TestCreateBook(t *testing.T) {
	env := servertest.New(t)
	client := servertest.NewClientWithJar(t)
	me := env.Register(t, client, servertest.UniqueUsername("author"))

	t.Run("numeric author id", func(t *testing.T) {
		status, raw := env.Do(t, client, http.MethodPost, "/api/books", bookPayload(me.ID, me.Username))
		require.Equal(t, http.StatusCreated, status, string(raw))
		b := decodeBook(t, raw)
		assert.NotZero(t, b.ID)
		assert.Equal(t, me.ID, b.AuthorID)
		assert.Equal(t, me.Username, b.AuthorName)
		assert.False(t, b.CreatedAt.IsZero())
	})

	t.Run("string author id is coerced", func(t *testing.T) {
		status, raw := env.Do(t, client, http.MethodPost, "/api/books", bookPayload(strconv.FormatInt(me.ID, 10), me.Username))
		require.Equal(t, http.StatusCreated, status, string(raw))
		assert.Equal(t, me.ID, decodeBook(t, raw).AuthorID)
	})

	t.Run("author name comes from the session", func(t *testing.T) {
		status, raw := env.Do(t, client, http.MethodPost, "/api/books", bookPayload(me.ID, "Somebody Else"))
		require.Equal(t, http.StatusCreated, status, string(raw))
		assert.Equal(t, me.Username, decodeBook(t, raw).AuthorName)
	})

	t.Run("another author id is forbidden", func(t *testing.T) {
		for _, id := range []any{me.ID + 1, strconv.FormatInt(me.ID+1, 10), "not-a-number"} {
			status, raw := env.Do(t, client, http.MethodPost, "/api/books", bookPayload(id, me.Username))
			assert.Equal(t, http.StatusForbidden, status)
			assert.Equal(t, "Unauthorized to create book for another user", servertest.ErrorMessage(t, raw))
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		for _, field := range []string{"title", "description", "image", "genre", "authorId", "authorName"} {
			body := bookPayload(me.ID, me.Username)
			delete(body, field)
			status, raw := env.Do(t, client, http.MethodPost, "/api/books", body)
			assert.Equal(t, http.StatusBadRequest, status, field)
			assert.Equal(t, "Missing required fields", servertest.ErrorMessage(t, raw), field)
		}

		status, _ := env.Do(t, client, http.MethodPost, "/api/books", bookPayload(0, me.Username))
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("no session", func(t *testing.T) {
		status, raw := env.Do(t, servertest.NewClientWithJar(t), http.MethodPost, "/api/books", bookPayload(me.ID, me.Username))
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "No token provided", servertest.ErrorMessage(t, raw))
	})

	var stored []books.Book
	require.NoError(t, env.DB.Find(&stored).Error)
	require.Len(t, stored, 3)
	for _, b := range stored {
		assert.Equal(t, me.ID, b.AuthorID)
	}
}

func TestCreateBook_AuthorNameFollowsRename(t *testing.T) {
	env := servertest.New(t)
	client := servertest.NewClientWithJar(t)
	me := env.Register(t, client, servertest.UniqueUsername("old"))

	renamed := me.Username + "_renamed"
	status, raw := env.Do(t, client, http.MethodPut, "/api/users/"+strconv.FormatInt(me.ID, 10), map[string]string{
		"username": renamed, "email": me.Email, "password": servertest.TestPassword,
	})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = env.Do(t, client, http.MethodPost, "/api/books", bookPayload(me.ID, me.Username))
	require.Equal(t, http.StatusCreated, status, string(raw))
	assert.Equal(t, renamed, decodeBook(t, raw).AuthorName)
}

func TestListAndGet_Public(t *testing.T) {
	env := servertest.New(t)
	anon := servertest.NewClientWithJar(t)

	status, raw := env.Do(t, anon, http.MethodGet, "/api/books", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))

	client := servertest.NewClientWithJar(t)
	me := env.Register(t, client, servertest.UniqueUsername("lister"))
	var ids []int64
	for i := 0; i < 3; i++ {
		_, raw := env.Do(t, client, http.MethodPost, "/api/books", bookPayload(me.ID, me.Username))
		ids = append(ids, decodeBook(t, raw).ID)
	}

	status, raw = env.Do(t, anon, http.MethodGet, "/api/books", nil)
	require.Equal(t, http.StatusOK, status)
	var list []books.Book
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 3)
	for i, b := range list {
		assert.Equal(t, ids[i], b.ID)
	}

	status, raw = env.Do(t, anon, http.MethodGet, bookPath(ids[1]), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, ids[1], decodeBook(t, raw).ID)

	for _, path := range []string{bookPath(9999), "/api/books/xyz"} {
		status, raw = env.Do(t, anon, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Book not found", servertest.ErrorMessage(t, raw))
	}
}

func TestUpdateBook(t *testing.T) {
	env := servertest.New(t)
	alice := servertest.NewClientWithJar(t)
	a := env.Register(t, alice, servertest.UniqueUsername("alice"))
	bob := servertest.NewClientWithJar(t)
	b := env.Register(t, bob, servertest.UniqueUsername("bob"))

	_, raw := env.Do(t, alice, http.MethodPost, "/api/books", bookPayload(a.ID, a.Username))
	book := decodeBook(t, raw)

	t.Run("author updates", func(t *testing.T) {
		body := bookPayload(a.ID, "ignored")
		body["title"] = "Changed Title"
		status, raw := env.Do(t, alice, http.MethodPut, bookPath(book.ID), body)
		require.Equal(t, http.StatusOK, status, string(raw))
		got := decodeBook(t, raw)
		assert.Equal(t, "Changed Title", got.Title)
		assert.Equal(t, a.ID, got.AuthorID)
		assert.Equal(t, a.Username, got.AuthorName)
	})

	t.Run("missing book is 404 before anything else", func(t *testing.T) {
		status, raw := env.Do(t, bob, http.MethodPut, bookPath(9999), map[string]any{})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Book not found", servertest.ErrorMessage(t, raw))
	})

	t.Run("non author is forbidden even with an invalid body", func(t *testing.T) {
		status, raw := env.Do(t, bob, http.MethodPut, bookPath(book.ID), map[string]any{})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Unauthorized to edit this book", servertest.ErrorMessage(t, raw))
	})

	t.Run("author with missing fields", func(t *testing.T) {
		status, raw := env.Do(t, alice, http.MethodPut, bookPath(book.ID), map[string]any{"title": "x"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Missing required fields", servertest.ErrorMessage(t, raw))
	})

	t.Run("author cannot hand the book to someone else", func(t *testing.T) {
		status, raw := env.Do(t, alice, http.MethodPut, bookPath(book.ID), bookPayload(b.ID, b.Username))
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Unauthorized to edit this book", servertest.ErrorMessage(t, raw))
	})
}

// A second user's update attempt must leave the stored row untouched.
func TestEndToEnd_UpdateByOtherUserLeavesBookUnchanged(t *testing.T) {
	env := servertest.New(t)

	clientA := servertest.NewClientWithJar(t)
	userA := env.Register(t, clientA, servertest.UniqueUsername("a"))
	status, raw := env.Do(t, clientA, http.MethodPost, "/api/books", bookPayload(userA.ID, userA.Username))
	require.Equal(t, http.StatusCreated, status)
	original := decodeBook(t, raw)

	clientB := servertest.NewClientWithJar(t)
	userB := env.Register(t, clientB, servertest.UniqueUsername("b"))

	body := bookPayload(userB.ID, userB.Username)
	body["title"] = "Hijacked"
	status, _ = env.Do(t, clientB, http.MethodPut, bookPath(original.ID), body)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw = env.Do(t, servertest.NewClientWithJar(t), http.MethodGet, bookPath(original.ID), nil)
	require.Equal(t, http.StatusOK, status)
	after := decodeBook(t, raw)
	assert.Equal(t, original.Title, after.Title)
	assert.Equal(t, original.AuthorID, after.AuthorID)
	assert.Equal(t, original.AuthorName, after.AuthorName)
}

func TestEndToEnd_DeleteThenGetIs404(t *testing.T) {
	env := servertest.New(t)
	client := servertest.NewClientWithJar(t)
	me := env.Register(t, client, servertest.UniqueUsername("del"))

	_, raw := env.Do(t, client, http.MethodPost, "/api/books", bookPayload(me.ID, me.Username))
	book := decodeBook(t, raw)

	other := servertest.NewClientWithJar(t)
	env.Register(t, other, servertest.UniqueUsername("other"))
	status, raw := env.Do(t, other, http.MethodDelete, bookPath(book.ID), nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Unauthorized to delete this book", servertest.ErrorMessage(t, raw))

	status, _ = env.Do(t, client, http.MethodDelete, bookPath(book.ID), nil)
	require.Equal(t, http.StatusNoContent, status)

	status, raw = env.Do(t, client, http.MethodGet, bookPath(book.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Book not found", servertest.ErrorMessage(t, raw))

	status, _ = env.Do(t, client, http.MethodDelete, bookPath(book.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteBook_RequiresSession(t *testing.T) {
	env := servertest.New(t)
	client := servertest.NewClientWithJar(t)
	me := env.Register(t, client, servertest.UniqueUsername("s"))
	_, raw := env.Do(t, client, http.MethodPost, "/api/books", bookPayload(me.ID, me.Username))
	book := decodeBook(t, raw)

	status, _ := env.Do(t, servertest.NewClientWithJar(t), http.MethodDelete, bookPath(book.ID), nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var count int64
	require.NoError(t, env.DB.Model(&books.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestList_StorageFailureIs500(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "books"`).WillReturnError(assert.AnError)

	h := books.NewHandler(books.NewStore(gdb), logging.Discard())
	rec := httptest.NewRecorder()
	webutil.MakeHandler(logging.Discard(), h.List)(rec, httptest.NewRequest(http.MethodGet, "/api/books", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
