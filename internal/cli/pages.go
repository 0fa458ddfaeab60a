package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/EmpoweredVote/bookshelf/internal/client"
	"github.com/EmpoweredVote/bookshelf/internal/view"
)

func (a *App) renderHome() {
	a.println("Welcome to Bookshelf")
	a.println("Discover and share books from the community. Type 'books' to browse.")
}

func (a *App) renderBooks(ctx context.Context) error {
	if _, err := a.store.FetchBooks(ctx); err != nil {
		a.showError(a.store.State().Books.Error)
		return nil
	}

	st := a.store.State()
	user := st.Auth.User
	f := a.filter
	if f.MineOnly && user != nil {
		f.UserID = user.ID
	} else {
		f.MineOnly = false
	}

	heading := "All Books"
	if f.MineOnly {
		heading = "My Books"
	}
	if f.Genre != "" {
		heading += " / " + f.Genre
	}
	a.println(heading)

	if genres := view.AvailableGenres(st.Books.Books); len(genres) > 0 {
		a.println("Genres:", strings.Join(genres, ", "))
	}

	list := view.FilterBooks(st.Books.Books, f)
	if len(list) == 0 {
		a.println(view.EmptyMessage(f))
		return nil
	}
	for _, b := range list {
		line := fmt.Sprintf("  #%d %s [%s] by %s", b.ID, b.Title, b.Genre, b.AuthorName)
		if view.IsAuthor(user, b) {
			line += "  (edit " + fmt.Sprint(b.ID) + " | delete " + fmt.Sprint(b.ID) + ")"
		}
		a.println(line)
	}
	return nil
}

func (a *App) loginPage(ctx context.Context) error {
	a.println("Sign in to your account")
	username, err := prompt(a.reader, a.out, "Username")
	if err != nil {
		return err
	}
	password, err := a.password()
	if err != nil {
		return err
	}

	form := view.LoginForm{Username: username, Password: password}
	if errs := form.Validate(); errs != nil {
		a.showError(errs.Error())
		return nil
	}

	if _, err := a.store.Login(ctx, client.Credentials{Username: username, Password: password}); err != nil {
		a.showError(a.store.State().Auth.Error)
		return nil
	}
	a.printf("Signed in as %s\n", username)
	return a.navigate(ctx, "/books")
}

func (a *App) registerPage(ctx context.Context) error {
	a.println("Create an account")
	username, err := prompt(a.reader, a.out, "Username")
	if err != nil {
		return err
	}
	email, err := prompt(a.reader, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := a.password()
	if err != nil {
		return err
	}

	form := view.RegisterForm{Username: username, Email: email, Password: password}
	if errs := form.Validate(); errs != nil {
		a.showError(errs.Error())
		return nil
	}

	reg := client.Registration{Username: username, Email: email, Password: password}
	if _, err := a.store.Register(ctx, reg); err != nil {
		a.showError(a.store.State().Auth.Error)
		return nil
	}
	a.printf("Welcome, %s\n", username)
	return a.navigate(ctx, "/books")
}

func (a *App) readBookForm(current client.Book) (view.BookForm, error) {
	var f view.BookForm
	var err error
	ask := func(label, cur string) string {
		if err != nil {
			return ""
		}
		var v string
		if cur == "" {
			v, err = prompt(a.reader, a.out, label)
		} else {
			v, err = promptDefault(a.reader, a.out, label, cur)
		}
		return v
	}

	f.Title = ask("Title", current.Title)
	f.Description = ask("Description", current.Description)
	f.Image = ask("Image URL", current.Image)
	a.println("Known genres:", strings.Join(view.Genres, ", "))
	f.Genre = view.NormalizeGenre(ask("Genre", current.Genre))
	return f, err
}

func (a *App) addBookPage(ctx context.Context) error {
	user := a.store.State().Auth.User
	if user == nil {
		return a.navigate(ctx, "/login")
	}

	a.println("Add a new book")
	f, err := a.readBookForm(client.Book{})
	if err != nil {
		return err
	}
	if errs := f.Validate(); errs != nil {
		a.showError(errs.Error())
		return nil
	}

	b, err := a.store.AddBook(ctx, bookInput(f, user))
	if err != nil {
		a.showError(a.store.State().Books.Error)
		return nil
	}
	a.printf("Added #%d %s\n", b.ID, b.Title)
	return a.navigate(ctx, "/books")
}

func (a *App) editBookPage(ctx context.Context, id int64) error {
	user := a.store.State().Auth.User
	if user == nil {
		return a.navigate(ctx, "/login")
	}

	book, err := a.findBook(ctx, id)
	if err != nil {
		a.showError(findErrorMessage(err))
		return nil
	}
	if !view.IsAuthor(user, book) {
		a.println("You can only edit your own books")
		return a.navigate(ctx, "/books")
	}

	a.printf("Editing #%d (press Enter to keep a value)\n", book.ID)
	f, err := a.readBookForm(book)
	if err != nil {
		return err
	}
	if errs := f.Validate(); errs != nil {
		a.showError(errs.Error())
		return nil
	}

	if _, err := a.store.UpdateBook(ctx, id, bookInput(f, user)); err != nil {
		a.showError(a.store.State().Books.Error)
		return nil
	}
	a.printf("Updated #%d\n", id)
	return a.navigate(ctx, "/books")
}

func (a *App) deleteBook(ctx context.Context, id int64) error {
	user := a.store.State().Auth.User
	if user == nil {
		return a.navigate(ctx, "/login")
	}

	book, err := a.findBook(ctx, id)
	if err != nil {
		a.showError(findErrorMessage(err))
		return nil
	}
	if !view.IsAuthor(user, book) {
		a.println("You can only delete your own books")
		return nil
	}

	answer, err := prompt(a.reader, a.out, fmt.Sprintf("Delete %q? [y/N]", book.Title))
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.println("Cancelled")
		return nil
	}

	if err := a.store.DeleteBook(ctx, id); err != nil {
		a.showError(a.store.State().Books.Error)
		return nil
	}
	a.printf("Deleted #%d\n", id)
	return a.navigate(ctx, "/books")
}

var errBookNotFound = errors.New("book not found")

// findBook looks in the store first and refetches the list once on a miss.
func (a *App) findBook(ctx context.Context, id int64) (client.Book, error) {
	lookup := func() (client.Book, bool) {
		for _, b := range a.store.State().Books.Books {
			if b.ID == id {
				return b, true
			}
		}
		return client.Book{}, false
	}

	if b, ok := lookup(); ok {
		return b, nil
	}
	if _, err := a.store.FetchBooks(ctx); err != nil {
		return client.Book{}, err
	}
	if b, ok := lookup(); ok {
		return b, nil
	}
	return client.Book{}, errBookNotFound
}

func findErrorMessage(err error) string {
	if errors.Is(err, errBookNotFound) {
		return "Book not found"
	}
	return err.Error()
}

func bookInput(f view.BookForm, user *client.User) client.BookInput {
	return client.BookInput{
		Title:       f.Title,
		Description: f.Description,
		Image:       f.Image,
		Genre:       f.Genre,
		AuthorID:    user.ID,
		AuthorName:  user.Username,
	}
}
