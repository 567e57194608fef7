package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Booking reserves one room for one user. A user holds at most one
// booking at a time; moving to another room swaps the room in place so
// the booking id stays stable.
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull" json:"userId"`
	RoomID    int64     `bun:"room_id,notnull" json:"roomId"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updatedAt"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	Room *Room `bun:"rel:belongs-to,join:room_id=id" json:"Room,omitempty"`
}

type BookingRequest struct {
	RoomID int64 `json:"roomId"`
}

// BookingResponse mirrors the GET /booking body: the booking id plus the
// room it points at.
type BookingResponse struct {
	ID   int64 `json:"id"`
	Room *Room `json:"Room"`
}

type BookingIDResponse struct {
	BookingID int64 `json:"bookingId"`
}
