package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

// hashCost is the bcrypt cost used for directory secrets. Tests lower it.
var hashCost = bcrypt.DefaultCost

// DirectoryVerifier implements ports.CredentialVerifier on top of a Directory.
type DirectoryVerifier struct {
	directory ports.Directory
}

func NewDirectoryVerifier(directory ports.Directory) *DirectoryVerifier {
	return &DirectoryVerifier{directory: directory}
}

// Verify succeeds iff an entry with exactly this email exists and its secret
// matches exactly. Every other outcome is domain.ErrInvalidCredentials.
func (v *DirectoryVerifier) Verify(ctx context.Context, email, secret string) (*domain.Identity, error) {
	if email == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	entry, err := v.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(entry.SecretHash), []byte(secret)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	identity := entry.Identity
	return &identity, nil
}

func hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type seedAccount struct {
	identity domain.Identity
	secret   string
}

var seedAccounts = []seedAccount{
	{
		identity: domain.Identity{
			ID:      "1",
			Name:    "John Doe",
			Email:   "user@kostmate.com",
			Phone:   "081234567890",
			Address: "Jl. Sudirman No. 123, Jakarta",
			Role:    domain.RoleUser,
		},
		secret: "password123",
	},
	{
		identity: domain.Identity{
			ID:      "2",
			Name:    "Admin Kostmate",
			Email:   "admin@kostmate.com",
			Phone:   "081234567891",
			Address: "Kantor Kostmate",
			Role:    domain.RoleAdmin,
		},
		secret: "admin123",
	},
	{
		identity: domain.Identity{
			ID:      "3",
			Name:    "Mitra Laundry",
			Email:   "partner@kostmate.com",
			Phone:   "081234567892",
			Address: "Laundry Express Jakarta",
			Role:    domain.RolePartner,
		},
		secret: "partner123",
	},
}

// SeedDirectory inserts the three built-in accounts (one per role). Entries
// that already exist are left untouched.
func SeedDirectory(ctx context.Context, directory ports.Directory) error {
	now := time.Now().UTC()
	for _, acc := range seedAccounts {
		hash, err := hashSecret(acc.secret)
		if err != nil {
			return fmt.Errorf("seed %s: %w", acc.identity.Email, err)
		}
		err = directory.Create(ctx, &domain.DirectoryEntry{
			Identity:   acc.identity,
			SecretHash: hash,
			CreatedAt:  now,
		})
		if err != nil && !errors.Is(err, domain.ErrIdentityExists) {
			return fmt.Errorf("seed %s: %w", acc.identity.Email, err)
		}
	}
	return nil
}
