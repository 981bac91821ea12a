package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// Service exposes base product management. It is the local implementation of
// the product submission boundary.
type Service interface {
	CreateProduct(ctx context.Context, input CreateInput) (*Product, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
	UpdateProduct(ctx context.Context, sellerID, productID string, input UpdateInput) (*Product, error)
	DeleteProduct(ctx context.Context, sellerID, productID string) error
	ListProducts(ctx context.Context, sellerID string) ([]Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs a product service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateInput) (*Product, error) {
	sellerID, err := parseID(input.SellerID, "seller id")
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}

	created, err := s.repo.CreateProduct(ctx, &models.Product{
		SellerID:    sellerID,
		SellerName:  strings.TrimSpace(input.SellerName),
		Title:       title,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return FromModel(created), nil
}

func (s *service) GetProduct(ctx context.Context, productID string) (*Product, error) {
	id, err := parseID(productID, "product id")
	if err != nil {
		return nil, err
	}
	product, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

// UpdateProduct applies the base fields. An empty sellerID skips the ownership
// check; the service-to-service endpoints use that.
func (s *service) UpdateProduct(ctx context.Context, sellerID, productID string, input UpdateInput) (*Product, error) {
	id, err := parseID(productID, "product id")
	if err != nil {
		return nil, err
	}
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	var updated *models.Product
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product, err := s.load(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if err := ensureOwner(product, sellerID); err != nil {
			return err
		}
		applyUpdateToProduct(product, input)
		updated, err = txRepo.UpdateProduct(ctx, product)
		return err
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromModel(updated), nil
}

// DeleteProduct removes a product together with its variants.
func (s *service) DeleteProduct(ctx context.Context, sellerID, productID string) error {
	id, err := parseID(productID, "product id")
	if err != nil {
		return err
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product, err := s.load(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if err := ensureOwner(product, sellerID); err != nil {
			return err
		}
		return txRepo.DeleteProduct(ctx, id)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) ListProducts(ctx context.Context, sellerID string) ([]Product, error) {
	id, err := parseID(sellerID, "seller id")
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListProductsBySeller(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]Product, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Product, error) {
	product, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func ensureOwner(product *models.Product, sellerID string) error {
	if sellerID == "" {
		return nil
	}
	if product.SellerID.String() != sellerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
	}
	return nil
}

func validateUpdate(input UpdateInput) error {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateInput) {
	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Image != nil {
		product.Image = input.Image
	}
}

func parseID(raw, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}
