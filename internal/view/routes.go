package view

import (
	"strconv"
	"strings"

	"github.com/EmpoweredVote/bookshelf/internal/store"
)

type Page string

const (
	PageHome     Page = "home"
	PageBooks    Page = "books"
	PageLogin    Page = "login"
	PageRegister Page = "register"
	PageAddBook  Page = "add-book"
	PageEditBook Page = "edit-book"
	PageNotFound Page = "not-found"
)

type guardMode int

const (
	public guardMode = iota
	authOnly
	guestOnly
)

type route struct {
	prefix string
	page   Page
	mode   guardMode
	hasID  bool
}

var routeTable = []route{
	{"/", PageHome, public, false},
	{"/books", PageBooks, public, false},
	{"/login", PageLogin, guestOnly, false},
	{"/register", PageRegister, guestOnly, false},
	{"/add-book", PageAddBook, authOnly, false},
	{"/edit-book/", PageEditBook, authOnly, true},
}

// Match is a resolved route.
type Match struct {
	Page    Page
	ID      int64
	Outcome Outcome
}

// Resolve maps a path onto a page and runs the guard for it.
func Resolve(path string, auth store.AuthState) Match {
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	for _, rt := range routeTable {
		var id int64
		if rt.hasID {
			rest, ok := strings.CutPrefix(path, rt.prefix)
			if !ok {
				continue
			}
			n, err := strconv.ParseInt(rest, 10, 64)
			if err != nil || n <= 0 {
				return Match{Page: PageNotFound, Outcome: Outcome{Kind: Render}}
			}
			id = n
		} else if path != rt.prefix {
			continue
		}

		out := Outcome{Kind: Render}
		switch rt.mode {
		case authOnly:
			out = Guard(true, auth)
		case guestOnly:
			out = Guard(false, auth)
		}
		return Match{Page: rt.page, ID: id, Outcome: out}
	}
	return Match{Page: PageNotFound, Outcome: Outcome{Kind: Render}}
}
