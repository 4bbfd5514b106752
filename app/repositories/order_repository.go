package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/devburger/app/models"
)

// ErrOrderNotFound is returned when no order has the given id. Malformed
// ids are reported the same way.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository stores orders in MongoDB.
type OrderRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewOrderRepository(col *mongo.Collection) *OrderRepository {
	return &OrderRepository{col: col, now: time.Now}
}

// Create stamps and inserts the order, filling in its id.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := r.now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

// All returns every order, newest first.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("orders: find: %w", err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets the status of one order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrOrderNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status, "updatedAt": r.now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("orders: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
