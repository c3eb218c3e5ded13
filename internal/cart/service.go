// Package cart implements the per-user cart aggregate: stock-aware add,
// update, remove and clear, plus a live-priced view of the cart.
package cart

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/lumina-market/backend/internal/domain"
	"github.com/lumina-market/backend/pkg/keyedmutex"
)

type ProductGetter interface {
	Get(ctx context.Context, id primitive.ObjectID) (domain.Product, error)
}

type CartStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (domain.Cart, error)
	SetItems(ctx context.Context, userID primitive.ObjectID, items []domain.CartLine) error
}

type Service struct {
	products ProductGetter
	carts    CartStore
	locks    *keyedmutex.KeyedMutex
	log      *slog.Logger
}

// NewService wires the cart aggregate. locks is shared with the checkout
// service so cart mutation and checkout for the same user serialize.
func NewService(products ProductGetter, carts CartStore, locks *keyedmutex.KeyedMutex, log *slog.Logger) *Service {
	return &Service{
		products: products,
		carts:    carts,
		locks:    locks,
		log:      log,
	}
}

// Get returns the cart joined with live product data. Lines whose product
// has since been deleted are dropped from the view.
func (s *Service) Get(ctx context.Context, userID primitive.ObjectID) (domain.CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return domain.CartView{}, err
	}

	lines := make([]*domain.CartLineView, len(cart.Items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for idx, item := range cart.Items {
		g.Go(func() error {
			product, err := s.products.Get(ctx, item.ProductID)
			if errors.Is(err, domain.ErrNotFound) {
				s.log.Warn("cart line references deleted product",
					slog.String("productId", item.ProductID.Hex()))
				return nil
			}
			if err != nil {
				return err
			}

			lines[idx] = &domain.CartLineView{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Image:     product.Image,
				Stock:     product.Stock,
				Quantity:  item.Quantity,
				LineTotal: product.Price * float64(item.Quantity),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.CartView{}, err
	}

	view := domain.CartView{Items: []domain.CartLineView{}}
	for _, line := range lines {
		if line == nil {
			continue
		}
		view.Items = append(view.Items, *line)
		view.Total += line.LineTotal
	}
	return view, nil
}

// Add puts qty units of the product into the cart, incrementing an existing
// line. The resulting quantity must not exceed available stock.
func (s *Service) Add(ctx context.Context, userID, productID primitive.ObjectID, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}

	defer s.locks.Lock(userID.Hex())()

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return err
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return err
	}

	newQty := qty
	idx := findLine(cart.Items, productID)
	if idx >= 0 {
		newQty += cart.Items[idx].Quantity
	}

	if newQty > product.Stock {
		return &domain.InsufficientStockError{
			ProductName: product.Name,
			Requested:   newQty,
			Available:   product.Stock,
		}
	}

	if idx >= 0 {
		cart.Items[idx].Quantity = newQty
	} else {
		cart.Items = append(cart.Items, domain.CartLine{ProductID: productID, Quantity: newQty})
	}

	return s.carts.SetItems(ctx, userID, cart.Items)
}

// UpdateQuantity sets the line's quantity. A quantity below 1 removes the
// line; a quantity above available stock is rejected and the stored quantity
// stays unchanged.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID primitive.ObjectID, qty int) error {
	if qty < 1 {
		return s.Remove(ctx, userID, productID)
	}

	defer s.locks.Lock(userID.Hex())()

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return err
	}

	if qty > product.Stock {
		return &domain.InsufficientStockError{
			ProductName: product.Name,
			Requested:   qty,
			Available:   product.Stock,
		}
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return err
	}

	idx := findLine(cart.Items, productID)
	if idx < 0 {
		return domain.ErrNotFound
	}

	cart.Items[idx].Quantity = qty
	return s.carts.SetItems(ctx, userID, cart.Items)
}

// Remove deletes the line. Removing an absent line is a no-op.
func (s *Service) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	defer s.locks.Lock(userID.Hex())()

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return err
	}

	idx := findLine(cart.Items, productID)
	if idx < 0 {
		return nil
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	return s.carts.SetItems(ctx, userID, cart.Items)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID primitive.ObjectID) error {
	defer s.locks.Lock(userID.Hex())()
	return s.carts.SetItems(ctx, userID, nil)
}

func findLine(items []domain.CartLine, productID primitive.ObjectID) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
