package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatusPlaced is the status every new order starts with.
const OrderStatusPlaced = "Order placed"

// Order is stored in the orders collection. Products are a snapshot of the
// catalog at placement time.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      OrderUser          `bson:"user" json:"user"`
	Products  []OrderProduct     `bson:"products" json:"products"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type OrderUser struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

type OrderProduct struct {
	ID       uint   `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Category string `bson:"category" json:"category"`
	Price    int64  `bson:"price" json:"price"`
	URL      string `bson:"url" json:"url"`
	Quantity int64  `bson:"quantity" json:"quantity"`
}
