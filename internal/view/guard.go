// Package view holds the front end's page logic: the route guard, the route
// table, form validation and list filters. It renders nothing itself.
package view

import "github.com/EmpoweredVote/bookshelf/internal/store"

type OutcomeKind int

const (
	Render OutcomeKind = iota
	Redirect
	Loading
)

// Outcome is what a guarded route should do for the current auth state.
type Outcome struct {
	Kind OutcomeKind
	To   string
}

func (o Outcome) String() string {
	switch o.Kind {
	case Redirect:
		return "redirect " + o.To
	case Loading:
		return "loading"
	default:
		return "render"
	}
}

// Guard renders pages that need a session only for signed-in users, and
// pages for guests only for guests.
func Guard(requireAuth bool, auth store.AuthState) Outcome {
	if auth.Status == store.StatusLoading {
		return Outcome{Kind: Loading}
	}
	if requireAuth && !auth.IsAuthenticated {
		return Outcome{Kind: Redirect, To: "/login"}
	}
	if !requireAuth && auth.IsAuthenticated {
		return Outcome{Kind: Redirect, To: "/books"}
	}
	return Outcome{Kind: Render}
}
