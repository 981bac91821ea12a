package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	product "github.com/angelmondragon/storefront/internal/products"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	WishlistKey(cartID string) string
}

type productLoader interface {
	GetProduct(ctx context.Context, productID string) (*product.Product, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Store    kvStore
	Products productLoader
	TTL      time.Duration
}

// Service exposes the saved-for-later list of a cart session.
type Service interface {
	List(ctx context.Context, cartID string) ([]string, error)
	AddItem(ctx context.Context, cartID, productID string) ([]string, error)
	RemoveItem(ctx context.Context, cartID, productID string) ([]string, error)
}

type service struct {
	store    kvStore
	products productLoader
	ttl      time.Duration
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("wishlist store required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: params.Store, products: params.Products, ttl: params.TTL}, nil
}

func (s *service) List(ctx context.Context, cartID string) ([]string, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	raw, err := s.store.Get(ctx, s.store.WishlistKey(cartID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read wishlist")
	}
	ids := []string{}
	if raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode wishlist")
	}
	return ids, nil
}

// AddItem ensures the product exists and adds it once.
func (s *service) AddItem(ctx context.Context, cartID, productID string) ([]string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	ids, err := s.List(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id == productID {
			return ids, nil
		}
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	ids = append(ids, productID)
	return ids, s.save(ctx, cartID, ids)
}

func (s *service) RemoveItem(ctx context.Context, cartID, productID string) ([]string, error) {
	ids, err := s.List(ctx, cartID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != productID {
			out = append(out, id)
		}
	}
	if len(out) == len(ids) {
		return out, nil
	}
	return out, s.save(ctx, cartID, out)
}

func (s *service) save(ctx context.Context, cartID string, ids []string) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode wishlist")
	}
	if err := s.store.Set(ctx, s.store.WishlistKey(cartID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write wishlist")
	}
	return nil
}
