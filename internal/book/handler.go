// AngelaMos | 2026
// handler.go

package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/acervolib/library-api/internal/core"
	"github.com/acervolib/library-api/internal/user"
)

type Handler struct {
	service   Service
	validator *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the catalogue. Browsing is public; mutation
// requires authentication, and create/disable are permission gated.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	requirePermission func(string) func(http.Handler) http.Handler,
) {
	r.Get("/books", h.ListBooks)
	r.Get("/books/{bookID}", h.GetBook)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.With(requirePermission(user.PermCreateBooks)).
			Post("/books", h.CreateBook)
		r.Put("/books/{bookID}", h.UpdateBook)
		r.With(requirePermission(user.PermDisableBooks)).
			Delete("/books/{bookID}", h.DisableBook)
	})
}

func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	book, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			core.Conflict(w, "book already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToBookResponse(book))
}

func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	includeDisabled := parseBoolQuery(r, "include_disabled")

	book, err := h.service.Get(r.Context(), bookID, includeDisabled)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "book")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToBookResponse(book))
}

func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	params := ListBooksParams{
		Page:            parseIntQuery(r, "page", defaultPage),
		PageSize:        parseIntQuery(r, "page_size", defaultPageSize),
		Title:           r.URL.Query().Get("title"),
		Author:          r.URL.Query().Get("author"),
		Genre:           r.URL.Query().Get("genre"),
		Publisher:       r.URL.Query().Get("publisher"),
		IncludeDisabled: parseBoolQuery(r, "include_disabled"),
	}

	if raw := r.URL.Query().Get("publication_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			core.BadRequest(w, "invalid publication_date")
			return
		}
		params.PublicationDate = &parsed
	}

	if raw := r.URL.Query().Get("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			core.BadRequest(w, "invalid available")
			return
		}
		params.Available = &available
	}

	params.Normalize()

	books, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToBookListItems(books),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	requester := user.FromContext(r.Context())

	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	book, err := h.service.Update(r.Context(), bookID, &req, requester)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "insufficient permissions")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "book")
		case errors.Is(err, core.ErrConflict):
			core.Conflict(w, "book already exists")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToBookResponse(book))
}

func (h *Handler) DisableBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")

	if err := h.service.Disable(r.Context(), bookID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "book")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func parseBoolQuery(r *http.Request, key string) bool {
	parsed, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && parsed
}
