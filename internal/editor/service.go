package editor

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/locks"
	"github.com/angelmondragon/storefront/internal/options"
	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Request is one stateless edit: the complete option state plus per-variant
// edits, applied on top of the persisted variants. Nil Options keeps the option
// rows derived from the persisted variants; an empty slice clears them.
type Request struct {
	SellerID  string
	ProductID string
	Options   []options.Option
	Edits     []VariantEdit
	Product   product.UpdateInput
}

// VariantEdit sets price and/or stock of the working entry with Name.
type VariantEdit struct {
	Name  string
	Price *decimal.Decimal
	Stock *int
}

// Preview is the working matrix a submit of the same request would persist.
type Preview struct {
	Options  []options.Option   `json:"options"`
	Variants []variants.Variant `json:"variants"`
	Plan     variants.Plan      `json:"plan"`
}

type Service interface {
	Preview(ctx context.Context, req Request) (Preview, error)
	Submit(ctx context.Context, req Request) (SubmitResult, error)
}

type locker interface {
	Acquire(ctx context.Context, id string) (locks.Lock, bool, error)
}

// ServiceParams configure the edit service.
type ServiceParams struct {
	Catalog    catalog.Catalog
	Executor   applier
	Locker     locker
	Logger     *logger.Logger
	MaxOptions int
}

type service struct {
	catalog    catalog.Catalog
	exec       applier
	locker     locker
	logg       *logger.Logger
	maxOptions int
}

func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Executor == nil {
		return nil, fmt.Errorf("variant executor required")
	}
	if params.Locker == nil {
		return nil, fmt.Errorf("submit locker required")
	}
	return &service{
		catalog:    params.Catalog,
		exec:       params.Executor,
		locker:     params.Locker,
		logg:       params.Logger,
		maxOptions: params.MaxOptions,
	}, nil
}

func (s *service) Preview(ctx context.Context, req Request) (Preview, error) {
	session, err := s.prepare(ctx, req)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		Options:  session.Options(),
		Variants: session.Variants(),
		Plan:     session.Plan(),
	}, nil
}

// Submit holds the product's submit lock for the whole save so two requests
// cannot reconcile against the same baseline.
func (s *service) Submit(ctx context.Context, req Request) (SubmitResult, error) {
	lock, ok, err := s.locker.Acquire(ctx, req.ProductID)
	if err != nil {
		return SubmitResult{}, err
	}
	if !ok {
		return SubmitResult{}, ErrSubmitInFlight
	}
	defer func() {
		releaseCtx := context.WithoutCancel(ctx)
		if err := lock.Release(releaseCtx); err != nil && s.logg != nil {
			s.logg.Error(releaseCtx, "release submit lock", err)
		}
	}()

	session, err := s.prepare(ctx, req)
	if err != nil {
		return SubmitResult{}, err
	}
	result, err := session.Submit(ctx, req.Product)
	if err == nil && s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"product_id": req.ProductID,
			"created":    len(result.Result.Created),
			"updated":    len(result.Result.Updated),
			"deleted":    len(result.Result.Deleted),
		})
		s.logg.Info(logCtx, "variant matrix saved")
	}
	return result, err
}

func (s *service) prepare(ctx context.Context, req Request) (*Session, error) {
	session, err := Load(ctx, LoadParams{
		Catalog:    s.catalog,
		Executor:   s.exec,
		Logger:     s.logg,
		ProductID:  req.ProductID,
		SellerID:   req.SellerID,
		MaxOptions: s.maxOptions,
	})
	if err != nil {
		return nil, err
	}

	current := session.Product()
	price, stock := current.Price, current.Stock
	if req.Product.Price != nil {
		price = *req.Product.Price
	}
	if req.Product.Stock != nil {
		stock = *req.Product.Stock
	}
	session.SetBase(price, stock)

	if req.Options != nil {
		if err := session.ReplaceOptions(req.Options); err != nil {
			return nil, err
		}
	}
	for _, edit := range req.Edits {
		if edit.Price != nil {
			if err := session.SetPrice(edit.Name, *edit.Price); err != nil {
				return nil, err
			}
		}
		if edit.Stock != nil {
			if err := session.SetStock(edit.Name, *edit.Stock); err != nil {
				return nil, err
			}
		}
	}
	return session, nil
}
