package books

import (
	"errors"
	"net/http"

	"github.com/EmpoweredVote/bookshelf/internal/common"
	"github.com/EmpoweredVote/bookshelf/internal/logging"
	"github.com/EmpoweredVote/bookshelf/internal/utils"
	"github.com/EmpoweredVote/bookshelf/internal/webutil"
)

const (
	msgBookNotFound   = "Book not found"
	msgCreateForOther = "Unauthorized to create book for another user"
	msgEditForbidden  = "Unauthorized to edit this book"
	msgDeleteForbid   = "Unauthorized to delete this book"
)

type Handler struct {
	store *Store
	log   logging.Logger
}

func NewHandler(store *Store, log logging.Logger) *Handler {
	return &Handler{store: store, log: log}
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
	b, err := h.lookup(r)
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, b)
	return nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("No token provided")
	}

	var req BookRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	if err := webutil.ValidateRequired(req); err != nil {
		return err
	}
	if int64(req.AuthorID) != identity.ID {
		return webutil.ErrForbidden(msgCreateForOther)
	}

	b := &Book{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Genre:       req.Genre,
		AuthorID:    identity.ID,
	}
	if err := h.store.Create(r.Context(), b); err != nil {
		if errors.Is(err, common.ErrorForeignKey) {
			return webutil.ErrNotFound("User not found")
		}
		return err
	}

	h.log.Info(r.Context(), "book created", "book_id", b.ID, "author_id", b.AuthorID)
	webutil.RespondWithJSON(w, http.StatusCreated, b)
	return nil
}

// Update checks existence, then ownership of the stored row, then the body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("No token provided")
	}

	existing, err := h.lookup(r)
	if err != nil {
		return err
	}
	if existing.AuthorID != identity.ID {
		return webutil.ErrForbidden(msgEditForbidden)
	}

	var req BookRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	if err := webutil.ValidateRequired(req); err != nil {
		return err
	}
	if int64(req.AuthorID) != identity.ID {
		return webutil.ErrForbidden(msgEditForbidden)
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.Image = req.Image
	existing.Genre = req.Genre

	ctx := r.Context()
	if err := h.store.Update(ctx, existing); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return webutil.ErrNotFound(msgBookNotFound)
		}
		return err
	}

	updated, err := h.store.GetByID(ctx, existing.ID)
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, updated)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("No token provided")
	}

	existing, err := h.lookup(r)
	if err != nil {
		return err
	}
	if existing.AuthorID != identity.ID {
		return webutil.ErrForbidden(msgDeleteForbid)
	}

	if err := h.store.Delete(r.Context(), existing.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return webutil.ErrNotFound(msgBookNotFound)
		}
		return err
	}
	h.log.Info(r.Context(), "book deleted", "book_id", existing.ID)
	webutil.RespondNoContent(w)
	return nil
}

func (h *Handler) lookup(r *http.Request) (*Book, error) {
	id, ok := utils.PathID(r, "id")
	if !ok {
		return nil, webutil.ErrNotFound(msgBookNotFound)
	}
	b, err := h.store.GetByID(r.Context(), id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, webutil.ErrNotFound(msgBookNotFound)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
