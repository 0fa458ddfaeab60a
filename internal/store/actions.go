package store

const (
	CheckAuthStatusPending   = "auth/checkAuthStatus/pending"
	CheckAuthStatusFulfilled = "auth/checkAuthStatus/fulfilled"
	CheckAuthStatusRejected  = "auth/checkAuthStatus/rejected"

	RegisterPending   = "auth/registerUser/pending"
	RegisterFulfilled = "auth/registerUser/fulfilled"
	RegisterRejected  = "auth/registerUser/rejected"

	LoginPending   = "auth/loginUser/pending"
	LoginFulfilled = "auth/loginUser/fulfilled"
	LoginRejected  = "auth/loginUser/rejected"

	LogoutPending   = "auth/logoutUser/pending"
	LogoutFulfilled = "auth/logoutUser/fulfilled"
	LogoutRejected  = "auth/logoutUser/rejected"

	FetchBooksPending   = "books/fetchBooks/pending"
	FetchBooksFulfilled = "books/fetchBooks/fulfilled"
	FetchBooksRejected  = "books/fetchBooks/rejected"

	AddBookPending   = "books/addBook/pending"
	AddBookFulfilled = "books/addBook/fulfilled"
	AddBookRejected  = "books/addBook/rejected"

	UpdateBookPending   = "books/updateBook/pending"
	UpdateBookFulfilled = "books/updateBook/fulfilled"
	UpdateBookRejected  = "books/updateBook/rejected"

	DeleteBookPending   = "books/deleteBook/pending"
	DeleteBookFulfilled = "books/deleteBook/fulfilled"
	DeleteBookRejected  = "books/deleteBook/rejected"
)

// Action describes one state change. Payload type depends on Type:
// *client.User for auth fulfilments, []client.Book for fetch,
// client.Book for add and update, int64 for delete.
type Action struct {
	Type    string
	Payload any
	Err     error
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
