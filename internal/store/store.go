package store

import (
	"context"
	"sync"

	"github.com/EmpoweredVote/bookshelf/internal/client"
)

// API is the part of the HTTP client the thunks call.
type API interface {
	Me(ctx context.Context) (*client.User, error)
	Register(ctx context.Context, r client.Registration) (*client.User, error)
	Login(ctx context.Context, c client.Credentials) (*client.User, error)
	Logout(ctx context.Context) error
	ListBooks(ctx context.Context) ([]client.Book, error)
	CreateBook(ctx context.Context, in client.BookInput) (*client.Book, error)
	UpdateBook(ctx context.Context, id int64, in client.BookInput) (*client.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type Listener func(State)

// Store holds the current State and notifies subscribers after each dispatch.
type Store struct {
	api API

	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

func New(api API) *Store {
	return &Store{api: api, state: InitialState(), listeners: map[int]Listener{}}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a into the state and then calls the listeners outside the
// lock, so a listener may itself call State or Dispatch.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}

// Subscribe registers l and returns a function that removes it.
// Listeners run on the dispatching goroutine. When Dispatch is called from
// several goroutines at once, a listener may see those states out of order;
// read State for the latest value.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
