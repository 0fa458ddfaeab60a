// Package store is the client-side state container. State changes only by
// dispatching actions through the pure Reduce function.
package store

import "github.com/EmpoweredVote/bookshelf/internal/client"

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type AuthState struct {
	IsAuthenticated bool
	User            *client.User
	Status          Status
	Error           string
}

type BooksState struct {
	Books  []client.Book
	Status Status
	Error  string
}

// State is the whole client state. Slices inside it are never mutated in
// place, so a State value can be shared freely.
type State struct {
	Auth  AuthState
	Books BooksState
}

func InitialState() State {
	return State{
		Auth:  AuthState{Status: StatusIdle},
		Books: BooksState{Books: []client.Book{}, Status: StatusIdle},
	}
}
