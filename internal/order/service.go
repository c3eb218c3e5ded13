// Package order implements the checkout transition and order history. An
// order is an immutable snapshot; once written it never changes, whatever
// happens to the catalog afterwards.
package order

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumina-market/backend/internal/domain"
	"github.com/lumina-market/backend/pkg/keyedmutex"
)

type ProductGetter interface {
	Get(ctx context.Context, id primitive.ObjectID) (domain.Product, error)
}

type CartStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (domain.Cart, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type OrderStore interface {
	Insert(ctx context.Context, order domain.Order) (domain.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error)
}

type Service struct {
	carts    CartStore
	products ProductGetter
	orders   OrderStore
	locks    *keyedmutex.KeyedMutex
	log      *slog.Logger
}

func NewService(carts CartStore, products ProductGetter, orders OrderStore, locks *keyedmutex.KeyedMutex, log *slog.Logger) *Service {
	return &Service{
		carts:    carts,
		products: products,
		orders:   orders,
		locks:    locks,
		log:      log,
	}
}

// Checkout converts the user's non-empty cart into an order. Each line
// snapshots the product's name, price and image at this moment; the total is
// the sum of price times quantity over all lines. The order is persisted
// first and the cart cleared after, so the worst failure mode is an orphaned
// order with an uncleared cart, which is recoverable, never a cleared cart
// without an order.
func (s *Service) Checkout(ctx context.Context, userID primitive.ObjectID, userEmail string) (domain.Order, error) {
	defer s.locks.Lock(userID.Hex())()

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(cart.Items) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	lines := make([]domain.OrderLine, 0, len(cart.Items))
	var total float64

	for _, item := range cart.Items {
		product, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			// A vanished or unreadable product aborts checkout before
			// anything is written; the cart stays as it was.
			return domain.Order{}, err
		}

		if item.Quantity > product.Stock {
			return domain.Order{}, &domain.InsufficientStockError{
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Stock,
			}
		}

		lines = append(lines, domain.OrderLine{
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
			Image:       product.Image,
		})
		total += product.Price * float64(item.Quantity)
	}

	order := domain.Order{
		UserID:      userID,
		UserEmail:   userEmail,
		Items:       lines,
		TotalAmount: total,
		Status:      domain.OrderStatusCompleted,
		CreatedAt:   time.Now().UTC(),
	}

	order, err = s.orders.Insert(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order exists, so failing the request now could trigger a
		// duplicate purchase on retry. Log the inconsistency; the clear is
		// idempotent and can be retried out of band.
		s.log.Error("cart clear failed after order creation",
			slog.String("orderId", order.ID.Hex()),
			slog.String("userId", userID.Hex()),
			slog.Any("err", err))
	}

	return order, nil
}

// Orders returns the user's order history, newest first.
func (s *Service) Orders(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
