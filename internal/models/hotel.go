package models

import "github.com/uptrace/bun"

type Hotel struct {
	bun.BaseModel `bun:"table:hotels"`

	ID    int64  `bun:"id,pk,autoincrement" json:"id"`
	Name  string `bun:"name,notnull" json:"name"`
	Image string `bun:"image,notnull" json:"image"`

	Rooms []*Room `bun:"rel:has-many,join:id=hotel_id" json:"Rooms,omitempty"`
}

// Room capacity is the maximum number of concurrent bookings; occupancy
// is always derived from live booking rows, never cached.
type Room struct {
	bun.BaseModel `bun:"table:rooms"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name"`
	Capacity int    `bun:"capacity,notnull" json:"capacity"`
	HotelID  int64  `bun:"hotel_id,notnull" json:"hotelId"`

	Hotel *Hotel `bun:"rel:belongs-to,join:hotel_id=id" json:"-"`
}
