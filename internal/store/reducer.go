package store

import (
	"strings"

	"github.com/EmpoweredVote/bookshelf/internal/client"
)

// Reduce returns the state that follows s after a. It never mutates s.
func Reduce(s State, a Action) State {
	switch {
	case strings.HasPrefix(a.Type, "auth/"):
		s.Auth = reduceAuth(s.Auth, a)
	case strings.HasPrefix(a.Type, "books/"):
		s.Books = reduceBooks(s.Books, a)
	}
	return s
}

func reduceAuth(s AuthState, a Action) AuthState {
	switch a.Type {
	case CheckAuthStatusPending:
		s.Status = StatusLoading

	case CheckAuthStatusRejected:
		// Not an error: the visitor is simply not logged in.
		s.Status = StatusIdle
		s.IsAuthenticated = false
		s.User = nil

	case RegisterPending, LoginPending:
		s.Status = StatusLoading
		s.Error = ""

	case CheckAuthStatusFulfilled, RegisterFulfilled, LoginFulfilled:
		u, _ := a.Payload.(*client.User)
		s.Status = StatusSucceeded
		s.IsAuthenticated = true
		s.User = u
		s.Error = ""

	case RegisterRejected, LoginRejected:
		s.Status = StatusFailed
		s.Error = errMessage(a.Err)

	case LogoutFulfilled:
		s = AuthState{Status: StatusIdle}
	}
	return s
}

func reduceBooks(s BooksState, a Action) BooksState {
	switch a.Type {
	case FetchBooksPending, AddBookPending, UpdateBookPending, DeleteBookPending:
		s.Status = StatusLoading
		s.Error = ""

	case FetchBooksRejected, AddBookRejected, UpdateBookRejected, DeleteBookRejected:
		s.Status = StatusFailed
		s.Error = errMessage(a.Err)

	case FetchBooksFulfilled:
		list, _ := a.Payload.([]client.Book)
		s.Books = append([]client.Book{}, list...)
		s.Status = StatusSucceeded
		s.Error = ""

	case AddBookFulfilled:
		b, _ := a.Payload.(client.Book)
		next := make([]client.Book, 0, len(s.Books)+1)
		s.Books = append(append(next, s.Books...), b)
		s.Status = StatusSucceeded
		s.Error = ""

	case UpdateBookFulfilled:
		b, _ := a.Payload.(client.Book)
		for i := range s.Books {
			if s.Books[i].ID == b.ID {
				next := append([]client.Book{}, s.Books...)
				next[i] = b
				s.Books = next
				break
			}
		}
		s.Status = StatusSucceeded
		s.Error = ""

	case DeleteBookFulfilled:
		id, _ := a.Payload.(int64)
		next := make([]client.Book, 0, len(s.Books))
		for _, b := range s.Books {
			if b.ID != id {
				next = append(next, b)
			}
		}
		s.Books = next
		s.Status = StatusSucceeded
		s.Error = ""
	}
	return s
}
