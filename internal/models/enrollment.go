package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Enrollment is a user's registration record. It gates ticket purchase:
// a user without an enrollment cannot reserve a ticket, and every ticket
// belongs to exactly one enrollment.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull,unique" json:"userId"`
	Name      string    `bun:"name,notnull" json:"name"`
	CPF       string    `bun:"cpf,notnull" json:"cpf"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"-"`
}
