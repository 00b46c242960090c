package domain

import (
	"errors"
	"time"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RolePartner Role = "partner"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RolePartner
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIdentityExists     = errors.New("email already registered")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidIdentity    = errors.New("name, email and secret are required")
)

// Identity is an authenticated party. It never carries a secret.
type Identity struct {
	ID      string `json:"id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
	Role    Role   `json:"role" bson:"role"`
}

// DirectoryEntry is an identity together with its hashed secret, as kept by
// the credential directory.
type DirectoryEntry struct {
	Identity
	SecretHash string
	CreatedAt  time.Time
}
