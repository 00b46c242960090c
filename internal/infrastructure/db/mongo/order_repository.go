package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

const collectionOrders = "orders"

var _ ports.OrderRepository = (*OrderRepository)(nil)

// insertionOrder sorts by creation time; ids are monotonic so they break ties.
var insertionOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

// Create inserts a new order document.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, o)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return r.List(ctx, ports.OrderFilter{UserID: ownerID})
}

func (r *OrderRepository) List(ctx context.Context, f ports.OrderFilter) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, buildFilter(f), options.Find().SetSort(insertionOrder))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := make([]*domain.Order, 0)
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the status and, when non-empty, the partner fields.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, partnerID, partnerName string) (*domain.Order, error) {
	set := bson.M{"status": string(status)}
	if partnerID != "" {
		set["partner_id"] = partnerID
	}
	if partnerName != "" {
		set["partner_name"] = partnerName
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *OrderRepository) UpdatePayment(ctx context.Context, id string, payment domain.PaymentStatus) (*domain.Order, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"payment_status": string(payment)}})
}

func (r *OrderRepository) Assign(ctx context.Context, id, partnerID, partnerName string) (*domain.Order, error) {
	set := bson.M{
		"status":         string(domain.StatusAssigned),
		"payment_status": string(domain.PaymentPaid),
	}
	if partnerID != "" {
		set["partner_id"] = partnerID
	}
	if partnerName != "" {
		set["partner_name"] = partnerName
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *OrderRepository) SetReview(ctx context.Context, id string, review domain.Review) (*domain.Order, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"review": review}})
}

func (r *OrderRepository) update(ctx context.Context, id string, update bson.M) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var o domain.Order
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "partner_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func buildFilter(f ports.OrderFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.PartnerID != "" {
		if f.IncludeUnclaimed {
			filter["$or"] = bson.A{
				bson.M{"partner_id": f.PartnerID},
				bson.M{"status": string(domain.StatusAssigned)},
			}
		} else {
			filter["partner_id"] = f.PartnerID
		}
	}
	return filter
}
