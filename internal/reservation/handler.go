// AngelaMos | 2026
// handler.go

package reservation

import (
	"encoding/json"
	"errors"
	"net/http"

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/reservations", h.CreateReservation)
		r.Post("/reservations/{reservationID}/return", h.ReturnReservation)
		r.Get("/users/{userID}/reservations", h.UserHistory)
		r.Get("/books/{bookID}/reservations", h.BookHistory)
	})
}

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	requester := user.FromContext(r.Context())

	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	res, err := h.service.Create(r.Context(), req.BookID, requester)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "book")
		case errors.Is(err, core.ErrConflict):
			core.Conflict(w, conflictMessage(err))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToReservationResponse(res))
}

func (h *Handler) ReturnReservation(w http.ResponseWriter, r *http.Request) {
	requester := user.FromContext(r.Context())
	reservationID := chi.URLParam(r, "reservationID")

	res, err := h.service.Return(r.Context(), reservationID, requester)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "reservation")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "insufficient permissions")
		case errors.Is(err, core.ErrConflict):
			core.Conflict(w, "reservation already returned")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToReservationResponse(res))
}

func (h *Handler) UserHistory(w http.ResponseWriter, r *http.Request) {
	requester := user.FromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	entries, err := h.service.UserHistory(r.Context(), userID, requester)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "insufficient permissions")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, entries)
}

func (h *Handler) BookHistory(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")

	entries, err := h.service.BookHistory(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "book")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, entries)
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, ErrBookNotAvailable):
		return "book not available"
	case errors.Is(err, ErrAlreadyReserved):
		return "reservation already active"
	default:
		return "conflict"
	}
}
