package store

import (
	"context"

	"github.com/EmpoweredVote/bookshelf/internal/client"
)

// Each thunk dispatches pending, makes exactly one API call, then dispatches
// fulfilled or rejected. State only changes after the server has answered.

func (s *Store) CheckAuthStatus(ctx context.Context) (*client.User, error) {
	s.Dispatch(Action{Type: CheckAuthStatusPending})
	u, err := s.api.Me(ctx)
	if err != nil {
		s.Dispatch(Action{Type: CheckAuthStatusRejected, Err: err})
		return nil, err
	}
	s.Dispatch(Action{Type: CheckAuthStatusFulfilled, Payload: u})
	return u, nil
}

func (s *Store) Register(ctx context.Context, r client.Registration) (*client.User, error) {
	s.Dispatch(Action{Type: RegisterPending})
	u, err := s.api.Register(ctx, r)
	if err != nil {
		s.Dispatch(Action{Type: RegisterRejected, Err: err})
		return nil, err
	}
	s.Dispatch(Action{Type: RegisterFulfilled, Payload: u})
	return u, nil
}

func (s *Store) Login(ctx context.Context, c client.Credentials) (*client.User, error) {
	s.Dispatch(Action{Type: LoginPending})
	u, err := s.api.Login(ctx, c)
	if err != nil {
		s.Dispatch(Action{Type: LoginRejected, Err: err})
		return nil, err
	}
	s.Dispatch(Action{Type: LoginFulfilled, Payload: u})
	return u, nil
}

func (s *Store) Logout(ctx context.Context) error {
	s.Dispatch(Action{Type: LogoutPending})
	if err := s.api.Logout(ctx); err != nil {
		s.Dispatch(Action{Type: LogoutRejected, Err: err})
		return err
	}
	s.Dispatch(Action{Type: LogoutFulfilled})
	return nil
}

func (s *Store) FetchBooks(ctx context.Context) ([]client.Book, error) {
	s.Dispatch(Action{Type: FetchBooksPending})
	list, err := s.api.ListBooks(ctx)
	if err != nil {
		s.Dispatch(Action{Type: FetchBooksRejected, Err: err})
		return nil, err
	}
	s.Dispatch(Action{Type: FetchBooksFulfilled, Payload: list})
	return list, nil
}

func (s *Store) AddBook(ctx context.Context, in client.BookInput) (*client.Book, error) {
	s.Dispatch(Action{Type: AddBookPending})
	b, err := s.api.CreateBook(ctx, in)
	if err != nil {
		s.Dispatch(Action{Type: AddBookRejected, Err: err})
		return nil, err
	}
	s.Dispatch(Action{Type: AddBookFulfilled, Payload: *b})
	return b, nil
}

func (s *Store) UpdateBook(ctx context.Context, id int64, in client.BookInput) (*client.Book, error) {
	s.Dispatch(Action{Type: UpdateBookPending})
	b, err := s.api.UpdateBook(ctx, id, in)
	if err != nil {
		s.Dispatch(Action{Type: UpdateBookRejected, Err: err})
		return nil, err
	}
	s.Dispatch(Action{Type: UpdateBookFulfilled, Payload: *b})
	return b, nil
}

func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	s.Dispatch(Action{Type: DeleteBookPending})
	if err := s.api.DeleteBook(ctx, id); err != nil {
		s.Dispatch(Action{Type: DeleteBookRejected, Err: err})
		return err
	}
	s.Dispatch(Action{Type: DeleteBookFulfilled, Payload: id})
	return nil
}
