package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash and must never be serialized outbound.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Country   string
	Role      Role
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
