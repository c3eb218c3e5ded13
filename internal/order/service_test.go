package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumina-market/backend/internal/domain"
	"github.com/lumina-market/backend/pkg/keyedmutex"
)

type fakeProducts struct {
	byID map[primitive.ObjectID]domain.Product
}

func (f *fakeProducts) Get(ctx context.Context, id primitive.ObjectID) (domain.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

type fakeCarts struct {
	items    map[primitive.ObjectID][]domain.CartLine
	clearErr error
}

func (f *fakeCarts) Get(ctx context.Context, userID primitive.ObjectID) (domain.Cart, error) {
	return domain.Cart{UserID: userID, Items: f.items[userID]}, nil
}

func (f *fakeCarts) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.items[userID] = nil
	return nil
}

type fakeOrders struct {
	inserted  []domain.Order
	insertErr error
}

func (f *fakeOrders) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	if f.insertErr != nil {
		return domain.Order{}, f.insertErr
	}
	order.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, order)
	return order, nil
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	var out []domain.Order
	for i := len(f.inserted) - 1; i >= 0; i-- {
		if f.inserted[i].UserID == userID {
			out = append(out, f.inserted[i])
		}
	}
	return out, nil
}

type fixture struct {
	svc      *Service
	carts    *fakeCarts
	orders   *fakeOrders
	products *fakeProducts
}

func newFixture(products ...domain.Product) *fixture {
	byID := map[primitive.ObjectID]domain.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}

	prods := &fakeProducts{byID: byID}
	carts := &fakeCarts{items: map[primitive.ObjectID][]domain.CartLine{}}
	orders := &fakeOrders{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		svc:      NewService(carts, prods, orders, keyedmutex.New(), log),
		carts:    carts,
		orders:   orders,
		products: prods,
	}
}

func TestService_Checkout(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	productA := domain.Product{ID: primitive.NewObjectID(), Name: "Product A", Price: 10, Image: "a.jpg", Stock: 10}
	productB := domain.Product{ID: primitive.NewObjectID(), Name: "Product B", Price: 5, Image: "b.jpg", Stock: 10}

	t.Run("empty cart rejected, no order created", func(t *testing.T) {
		f := newFixture(productA)

		_, err := f.svc.Checkout(ctx, userID, "user@example.com")
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
		assert.Empty(t, f.orders.inserted)
	})

	t.Run("snapshots lines, totals and clears the cart", func(t *testing.T) {
		f := newFixture(productA, productB)
		f.carts.items[userID] = []domain.CartLine{
			{ProductID: productA.ID, Quantity: 2},
			{ProductID: productB.ID, Quantity: 1},
		}

		order, err := f.svc.Checkout(ctx, userID, "user@example.com")
		require.NoError(t, err)

		assert.Equal(t, 25.0, order.TotalAmount)
		require.Len(t, order.Items, 2)
		assert.Equal(t, "Product A", order.Items[0].ProductName)
		assert.Equal(t, 10.0, order.Items[0].Price)
		assert.Equal(t, 2, order.Items[0].Quantity)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)
		assert.Equal(t, "user@example.com", order.UserEmail)

		assert.Empty(t, f.carts.items[userID], "cart must be empty after checkout")
	})

	t.Run("order lines survive later product mutation", func(t *testing.T) {
		f := newFixture(productA)
		f.carts.items[userID] = []domain.CartLine{{ProductID: productA.ID, Quantity: 1}}

		order, err := f.svc.Checkout(ctx, userID, "user@example.com")
		require.NoError(t, err)

		mutated := productA
		mutated.Name = "Renamed"
		mutated.Price = 99
		f.products.byID[productA.ID] = mutated

		assert.Equal(t, "Product A", order.Items[0].ProductName)
		assert.Equal(t, 10.0, order.Items[0].Price)
	})

	t.Run("quantity above stock aborts checkout, cart untouched", func(t *testing.T) {
		f := newFixture(productA)
		f.carts.items[userID] = []domain.CartLine{{ProductID: productA.ID, Quantity: 11}}

		_, err := f.svc.Checkout(ctx, userID, "user@example.com")
		assert.True(t, domain.IsInsufficientStock(err))
		assert.Empty(t, f.orders.inserted)
		assert.Len(t, f.carts.items[userID], 1)
	})

	t.Run("vanished product aborts checkout, cart untouched", func(t *testing.T) {
		f := newFixture(productA)
		f.carts.items[userID] = []domain.CartLine{{ProductID: primitive.NewObjectID(), Quantity: 1}}

		_, err := f.svc.Checkout(ctx, userID, "user@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.orders.inserted)
		assert.Len(t, f.carts.items[userID], 1)
	})

	t.Run("order persistence failure leaves the cart unchanged", func(t *testing.T) {
		f := newFixture(productA)
		f.carts.items[userID] = []domain.CartLine{{ProductID: productA.ID, Quantity: 1}}
		f.orders.insertErr = errors.New("write concern failure")

		_, err := f.svc.Checkout(ctx, userID, "user@example.com")
		require.Error(t, err)
		assert.Empty(t, f.orders.inserted)
		assert.Len(t, f.carts.items[userID], 1, "cart must not be cleared when the order was not persisted")
	})

	t.Run("cart-clear failure still returns the created order", func(t *testing.T) {
		f := newFixture(productA)
		f.carts.items[userID] = []domain.CartLine{{ProductID: productA.ID, Quantity: 1}}
		f.carts.clearErr = errors.New("transient")

		order, err := f.svc.Checkout(ctx, userID, "user@example.com")
		require.NoError(t, err, "a persisted order must not surface as a failure")
		assert.False(t, order.ID.IsZero())
		assert.Len(t, f.orders.inserted, 1, "no duplicate order may be created")
	})
}

func TestService_Orders(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	product := domain.Product{ID: primitive.NewObjectID(), Name: "P", Price: 1, Stock: 100}

	f := newFixture(product)

	for i := 0; i < 3; i++ {
		f.carts.items[userID] = []domain.CartLine{{ProductID: product.ID, Quantity: i + 1}}
		_, err := f.svc.Checkout(ctx, userID, "user@example.com")
		require.NoError(t, err)
	}

	orders, err := f.svc.Orders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	// Newest first.
	assert.Equal(t, 3.0, orders[0].TotalAmount)
	assert.Equal(t, 1.0, orders[2].TotalAmount)
}
