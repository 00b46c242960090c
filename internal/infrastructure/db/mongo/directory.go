package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

const collectionDirectory = "directory"

var _ ports.Directory = (*Directory)(nil)

// Directory is the credential directory stored in MongoDB. Unlike the memory
// directory, registrations survive restarts.
type Directory struct {
	coll *mongo.Collection
}

func NewDirectory(db *mongo.Database) *Directory {
	return &Directory{coll: db.Collection(collectionDirectory)}
}

type mongoEntry struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	Email      string `bson:"email"`
	Phone      string `bson:"phone"`
	Address    string `bson:"address"`
	Role       string `bson:"role"`
	SecretHash string `bson:"secret_hash"`
	CreatedAt  int64  `bson:"created_at"`
}

func (d *Directory) Create(ctx context.Context, entry *domain.DirectoryEntry) error {
	doc := mongoEntry{
		ID:         entry.ID,
		Name:       entry.Name,
		Email:      entry.Email,
		Phone:      entry.Phone,
		Address:    entry.Address,
		Role:       string(entry.Role),
		SecretHash: entry.SecretHash,
		CreatedAt:  entry.CreatedAt.Unix(),
	}

	if _, err := d.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*domain.DirectoryEntry, error) {
	var me mongoEntry
	if err := d.coll.FindOne(ctx, bson.M{"email": email}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}

	return &domain.DirectoryEntry{
		Identity: domain.Identity{
			ID:      me.ID,
			Name:    me.Name,
			Email:   me.Email,
			Phone:   me.Phone,
			Address: me.Address,
			Role:    domain.Role(me.Role),
		},
		SecretHash: me.SecretHash,
		CreatedAt:  unixToTime(me.CreatedAt),
	}, nil
}

func (d *Directory) ensureIndexes(ctx context.Context) error {
	_, err := d.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
