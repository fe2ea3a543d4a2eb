// AngelaMos | 2026
// dto.go

package reservation

import (
	"time"
)

type CreateReservationRequest struct {
	BookID string `json:"book_id" validate:"required,uuid"`
}

type ReservationResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	ReservedAt time.Time  `json:"reserved_at"`
	ReturnedAt *time.Time `json:"returned_at"`
	Active     bool       `json:"active"`
}

func ToReservationResponse(r *Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		BookID:     r.BookID,
		ReservedAt: r.ReservedAt,
		ReturnedAt: r.ReturnedAt,
		Active:     r.Active,
	}
}
