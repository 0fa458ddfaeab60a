package users

import (
	"errors"
	"net/http"

	"github.com/EmpoweredVote/bookshelf/internal/auth"
	"github.com/EmpoweredVote/bookshelf/internal/common"
	"github.com/EmpoweredVote/bookshelf/internal/logging"
	"github.com/EmpoweredVote/bookshelf/internal/utils"
	"github.com/EmpoweredVote/bookshelf/internal/webutil"
)

const (
	msgUserNotFound       = "User not found"
	msgUsernameTaken      = "Username already exists"
	msgUserOrEmailTaken   = "Username or email already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgStillOwnsBooks     = "User still owns books"
	msgPasswordTooLong    = "Password is too long"
)

// Handler serves the /api/auth and /api/users endpoints.
type Handler struct {
	store  *Store
	tokens *auth.Manager
	secure bool
	log    logging.Logger
}

func NewHandler(store *Store, tokens *auth.Manager, secureCookies bool, log logging.Logger) *Handler {
	return &Handler{store: store, tokens: tokens, secure: secureCookies, log: log}
}

func (h *Handler) startSession(w http.ResponseWriter, u *User) error {
	token, err := h.tokens.Issue(utils.Identity{ID: u.ID, Username: u.Username})
	if err != nil {
		return webutil.ErrInternalWrap("issue token", err)
	}
	auth.SetSessionCookie(w, token, h.tokens.TTL(), h.secure)
	return nil
}

func hashRequestPassword(password string) (string, error) {
	hash, err := HashPassword(password)
	if errors.Is(err, common.ErrorValidation) {
		return "", webutil.ErrValidationWrap(msgPasswordTooLong, err)
	}
	if err != nil {
		return "", webutil.ErrInternalWrap("hash password", err)
	}
	return hash, nil
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	if err := webutil.ValidateRequired(req); err != nil {
		return err
	}

	ctx := r.Context()
	_, err := h.store.GetByUsername(ctx, req.Username)
	if err == nil {
		return webutil.ErrConflict(msgUsernameTaken)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	hash, err := hashRequestPassword(req.Password)
	if err != nil {
		return err
	}

	u := &User{Username: req.Username, Email: req.Email, PasswordHash: hash}
	if err := h.store.Create(ctx, u); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return webutil.ErrConflict(msgUserOrEmailTaken)
		}
		return err
	}

	if err := h.startSession(w, u); err != nil {
		return err
	}
	h.log.Info(ctx, "user registered", "user_id", u.ID)
	webutil.RespondWithJSON(w, http.StatusCreated, userEnvelope{User: u})
	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	if err := webutil.ValidateRequired(req); err != nil {
		return err
	}

	u, err := h.store.GetByUsername(r.Context(), req.Username)
	if errors.Is(err, common.ErrorNotFound) {
		return webutil.ErrUnauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return err
	}
	if !CheckPassword(u.PasswordHash, req.Password) {
		return webutil.ErrUnauthorized(msgInvalidCredentials)
	}

	if err := h.startSession(w, u); err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, userEnvelope{User: u})
	return nil
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) error {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("No token provided")
	}

	u, err := h.store.GetByID(r.Context(), identity.ID)
	if errors.Is(err, common.ErrorNotFound) {
		return webutil.ErrNotFound(msgUserNotFound)
	}
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, userEnvelope{User: u})
	return nil
}

// Logout needs no session: it only tells the browser to drop the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) error {
	auth.ClearSessionCookie(w, h.secure)
	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	return nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	list, err := h.store.List(r.Context())
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, list)
	return nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	u, err := h.lookup(r)
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, u)
	return nil
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	existing, err := h.lookup(r)
	if err != nil {
		return err
	}

	var req UpdateRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	if err := webutil.ValidateRequired(req); err != nil {
		return err
	}

	ctx := r.Context()
	other, err := h.store.GetByUsername(ctx, req.Username)
	switch {
	case err == nil && other.ID != existing.ID:
		return webutil.ErrConflict(msgUsernameTaken)
	case err != nil && !errors.Is(err, common.ErrorNotFound):
		return err
	}

	hash, err := hashRequestPassword(req.Password)
	if err != nil {
		return err
	}
	existing.Username = req.Username
	existing.Email = req.Email
	existing.PasswordHash = hash

	if err := h.store.Update(ctx, existing); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return webutil.ErrConflict(msgUserOrEmailTaken)
		}
		return err
	}

	updated, err := h.store.GetByID(ctx, existing.ID)
	if err != nil {
		return err
	}
	// The token carries the username, so a rename needs a fresh one.
	if err := h.startSession(w, updated); err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, updated)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	u, err := h.lookup(r)
	if err != nil {
		return err
	}

	if err := h.store.Delete(r.Context(), u.ID); err != nil {
		switch {
		case errors.Is(err, common.ErrorForeignKey):
			return webutil.ErrValidationWrap(msgStillOwnsBooks, err)
		case errors.Is(err, common.ErrorNotFound):
			return webutil.ErrNotFound(msgUserNotFound)
		}
		return err
	}
	h.log.Info(r.Context(), "user deleted", "user_id", u.ID)
	webutil.RespondNoContent(w)
	return nil
}

// lookup resolves the {id} path parameter to a stored user or a 404.
func (h *Handler) lookup(r *http.Request) (*User, error) {
	id, ok := utils.PathID(r, "id")
	if !ok {
		return nil, webutil.ErrNotFound(msgUserNotFound)
	}
	u, err := h.store.GetByID(r.Context(), id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, webutil.ErrNotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
