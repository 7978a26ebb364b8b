package domain

import (
	"errors"
	"time"
)

const RoleAdmin = "admin"

// DemoSubject is the token subject used for the fixed demo credential pair.
const DemoSubject = "demo-admin"

var ErrPrincipalNotFound = errors.New("admin principal not found")

// AdminPrincipal is a stored admin credential. One row per username.
type AdminPrincipal struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Claims is the verified content of an admin session token.
type Claims struct {
	Subject   string
	Username  string
	Role      string
	Demo      bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Mode selects which Record Store backend the process runs with.
type Mode string

const (
	ModeDurable  Mode = "durable"
	ModeFallback Mode = "fallback"
)

// IsDemo reports whether the mode is the in-memory demo fallback.
func (m Mode) IsDemo() bool {
	return m == ModeFallback
}
