package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories is the fixed set of product categories the catalog accepts.
var Categories = []string{"Electronics", "Fashion", "Home & Living", "Accessories"}

// ValidCategory reports whether c is one of the known catalog categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Category     string             `bson:"category" json:"category"`
	Price        float64            `bson:"price" json:"price"`
	Image        string             `bson:"image" json:"image"`
	Rating       float64            `bson:"rating" json:"rating"`
	Stock        int                `bson:"stock" json:"stock"`
	IsNewArrival bool               `bson:"isNewArrival" json:"isNewArrival"`
	CreatedAt    time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
}

// CartLine references a catalog product by identity; it never copies product
// fields. Quantity is always >= 1, removal deletes the line.
type CartLine struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart is owned by exactly one user. Lines are keyed by product identity, so
// a product appears at most once.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartLine         `bson:"items" json:"items"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CartLineView is a cart line joined with live product data. Unlike an order
// line it reflects the catalog as it is now, not as it was.
type CartLineView struct {
	ProductID primitive.ObjectID `json:"productId"`
	Name      string             `json:"name"`
	Price     float64            `json:"price"`
	Image     string             `json:"image"`
	Stock     int                `json:"stock"`
	Quantity  int                `json:"quantity"`
	LineTotal float64            `json:"lineTotal"`
}

type CartView struct {
	Items []CartLineView `json:"items"`
	Total float64        `json:"total"`
}

// OrderLine snapshots product name, price and image at the moment of
// checkout. Later catalog changes never touch it.
type OrderLine struct {
	ProductName string  `bson:"productName" json:"productName"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Price       float64 `bson:"price" json:"price"`
	Image       string  `bson:"image" json:"image"`
}

const OrderStatusCompleted = "completed"

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	UserEmail   string             `bson:"userEmail" json:"userEmail"`
	Items       []OrderLine        `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type SearchType string

const (
	SearchTypeAI   SearchType = "ai"
	SearchTypeText SearchType = "text"
)

// SearchResult carries the resolved products plus the path that produced
// them, so callers and tests can tell an AI result from a fallback one.
type SearchResult struct {
	Query    string     `json:"query"`
	Type     SearchType `json:"searchType"`
	Products []Product  `json:"products"`
}
