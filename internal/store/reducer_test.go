package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/bookshelf/internal/client"
)

func TestReduceAuth_Transitions(t *testing.T) {
	ann := &client.User{ID: 1, Username: "ann"}
	boom := errors.New("Invalid credentials")

	cases := []struct {
		name string
		from AuthState
		in   Action
		want AuthState
	}{
		{
			"check pending",
			AuthState{Status: StatusIdle, Error: "old"},
			Action{Type: CheckAuthStatusPending},
			AuthState{Status: StatusLoading, Error: "old"},
		},
		{
			"check fulfilled",
			AuthState{Status: StatusLoading, Error: "old"},
			Action{Type: CheckAuthStatusFulfilled, Payload: ann},
			AuthState{Status: StatusSucceeded, IsAuthenticated: true, User: ann},
		},
		{
			"check rejected is idle not failed",
			AuthState{Status: StatusLoading, IsAuthenticated: true, User: ann, Error: "kept"},
			Action{Type: CheckAuthStatusRejected, Err: boom},
			AuthState{Status: StatusIdle, Error: "kept"},
		},
		{
			"login pending clears error",
			AuthState{Status: StatusFailed, Error: "old"},
			Action{Type: LoginPending},
			AuthState{Status: StatusLoading},
		},
		{
			"login rejected keeps message",
			AuthState{Status: StatusLoading},
			Action{Type: LoginRejected, Err: boom},
			AuthState{Status: StatusFailed, Error: "Invalid credentials"},
		},
		{
			"register fulfilled",
			AuthState{Status: StatusLoading},
			Action{Type: RegisterFulfilled, Payload: ann},
			AuthState{Status: StatusSucceeded, IsAuthenticated: true, User: ann},
		},
		{
			"register rejected",
			AuthState{Status: StatusLoading},
			Action{Type: RegisterRejected, Err: errors.New("Username already exists")},
			AuthState{Status: StatusFailed, Error: "Username already exists"},
		},
		{
			"logout pending is ignored",
			AuthState{Status: StatusSucceeded, IsAuthenticated: true, User: ann},
			Action{Type: LogoutPending},
			AuthState{Status: StatusSucceeded, IsAuthenticated: true, User: ann},
		},
		{
			"logout rejected is ignored",
			AuthState{Status: StatusSucceeded, IsAuthenticated: true, User: ann},
			Action{Type: LogoutRejected, Err: boom},
			AuthState{Status: StatusSucceeded, IsAuthenticated: true, User: ann},
		},
		{
			"logout fulfilled resets",
			AuthState{Status: StatusSucceeded, IsAuthenticated: true, User: ann, Error: "x"},
			Action{Type: LogoutFulfilled},
			AuthState{Status: StatusIdle},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reduce(State{Auth: tc.from}, tc.in)
			assert.Equal(t, tc.want, got.Auth)
		})
	}
}

func books(ids ...int64) []client.Book {
	out := make([]client.Book, 0, len(ids))
	for _, id := range ids {
		out = append(out, client.Book{ID: id, Title: "t"})
	}
	return out
}

func TestReduceBooks_Transitions(t *testing.T) {
	for _, pending := range []string{FetchBooksPending, AddBookPending, UpdateBookPending, DeleteBookPending} {
		got := Reduce(State{Books: BooksState{Status: StatusFailed, Error: "x"}}, Action{Type: pending})
		assert.Equal(t, StatusLoading, got.Books.Status, pending)
		assert.Empty(t, got.Books.Error, pending)
	}

	for _, rejected := range []string{FetchBooksRejected, AddBookRejected, UpdateBookRejected, DeleteBookRejected} {
		start := books(1, 2)
		got := Reduce(State{Books: BooksState{Books: start, Status: StatusLoading}}, Action{Type: rejected, Err: errors.New("Book not found")})
		assert.Equal(t, StatusFailed, got.Books.Status, rejected)
		assert.Equal(t, "Book not found", got.Books.Error, rejected)
		assert.Equal(t, start, got.Books.Books, rejected)
	}
}

func TestReduceBooks_Collection(t *testing.T) {
	s := InitialState()

	s = Reduce(s, Action{Type: FetchBooksFulfilled, Payload: books(1, 2, 3)})
	require.Len(t, s.Books.Books, 3)
	assert.Equal(t, StatusSucceeded, s.Books.Status)

	s = Reduce(s, Action{Type: AddBookFulfilled, Payload: client.Book{ID: 4}})
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(s.Books.Books))

	s = Reduce(s, Action{Type: UpdateBookFulfilled, Payload: client.Book{ID: 2, Title: "new"}})
	assert.Equal(t, "new", s.Books.Books[1].Title)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(s.Books.Books))

	s = Reduce(s, Action{Type: UpdateBookFulfilled, Payload: client.Book{ID: 99, Title: "ghost"}})
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(s.Books.Books))

	s = Reduce(s, Action{Type: DeleteBookFulfilled, Payload: int64(3)})
	assert.Equal(t, []int64{1, 2, 4}, ids(s.Books.Books))

	s = Reduce(s, Action{Type: FetchBooksFulfilled, Payload: books(7)})
	assert.Equal(t, []int64{7}, ids(s.Books.Books))
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := State{Books: BooksState{Books: books(1, 2), Status: StatusSucceeded}}
	snapshot := append([]client.Book{}, before.Books.Books...)

	_ = Reduce(before, Action{Type: UpdateBookFulfilled, Payload: client.Book{ID: 1, Title: "changed"}})
	_ = Reduce(before, Action{Type: DeleteBookFulfilled, Payload: int64(1)})
	_ = Reduce(before, Action{Type: AddBookFulfilled, Payload: client.Book{ID: 3}})

	assert.Equal(t, snapshot, before.Books.Books)
}

func TestReduce_UnknownActionIsNoop(t *testing.T) {
	s := InitialState()
	assert.Equal(t, s, Reduce(s, Action{Type: "other/thing"}))
}

func ids(list []client.Book) []int64 {
	out := make([]int64, 0, len(list))
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}
