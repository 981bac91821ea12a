package variants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/internal/options"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Service stores variants in this service's database. It backs the served
// /variants endpoints and satisfies Persister for local edit sessions.
type Service interface {
	Persister
	Get(ctx context.Context, id string) (Variant, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("variant repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListByProduct(ctx context.Context, productID string) ([]Variant, error) {
	pid, err := parseID(productID, "product id")
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ProductExists(ctx, pid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	rows, err := s.repo.ListByProduct(ctx, pid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list variants")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id string) (Variant, error) {
	vid, err := parseID(id, "variant id")
	if err != nil {
		return Variant{}, err
	}
	row, err := s.load(ctx, s.repo, vid)
	if err != nil {
		return Variant{}, err
	}
	return fromModel(row), nil
}

func (s *service) Create(ctx context.Context, productID string, v Variant) (Variant, error) {
	pid, err := parseID(productID, "product id")
	if err != nil {
		return Variant{}, err
	}
	clean, err := Sanitize(v)
	if err != nil {
		return Variant{}, err
	}

	var created *models.Variant
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		exists, err := txRepo.ProductExists(ctx, pid)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if err := ensureKeyFree(ctx, txRepo, pid, clean.Attributes.Key(), uuid.Nil); err != nil {
			return err
		}
		created, err = txRepo.Create(ctx, &models.Variant{
			ProductID:    pid,
			Name:         clean.Name,
			AttributeKey: clean.Attributes.Key(),
			Attributes:   clean.Attributes,
			Price:        clean.Price,
			Stock:        clean.Stock,
			Images:       clean.Images,
		})
		if err != nil {
			return err
		}
		return txRepo.SyncHasVariants(ctx, pid)
	})
	if err != nil {
		return Variant{}, mapWriteError(err, "create variant")
	}
	return fromModel(created), nil
}

// Update replaces name, attributes, price and stock of v.ID. A non-empty
// productID must match the stored parent. Nil images keep the stored ones.
func (s *service) Update(ctx context.Context, productID string, v Variant) (Variant, error) {
	vid, err := parseID(v.ID, "variant id")
	if err != nil {
		return Variant{}, err
	}
	clean, err := Sanitize(v)
	if err != nil {
		return Variant{}, err
	}

	var updated *models.Variant
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		row, err := s.load(ctx, txRepo, vid)
		if err != nil {
			return err
		}
		if productID != "" && row.ProductID.String() != productID {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant belongs to another product")
		}
		key := clean.Attributes.Key()
		if err := ensureKeyFree(ctx, txRepo, row.ProductID, key, row.ID); err != nil {
			return err
		}
		row.Name = clean.Name
		row.AttributeKey = key
		row.Attributes = clean.Attributes
		row.Price = clean.Price
		row.Stock = clean.Stock
		if clean.Images != nil {
			row.Images = clean.Images
		}
		updated, err = txRepo.Update(ctx, row)
		return err
	})
	if err != nil {
		return Variant{}, mapWriteError(err, "update variant")
	}
	return fromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	vid, err := parseID(id, "variant id")
	if err != nil {
		return err
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		row, err := s.load(ctx, txRepo, vid)
		if err != nil {
			return err
		}
		if err := txRepo.Delete(ctx, vid); err != nil {
			return err
		}
		return txRepo.SyncHasVariants(ctx, row.ProductID)
	})
	if err != nil {
		return mapWriteError(err, "delete variant")
	}
	return nil
}

func (s *service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Variant, error) {
	row, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	return row, nil
}

func ensureKeyFree(ctx context.Context, repo *Repository, productID uuid.UUID, key string, excludeID uuid.UUID) error {
	taken, err := repo.AttributeKeyTaken(ctx, productID, key, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check attribute set")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "a variant with these attributes already exists")
	}
	return nil
}

func mapWriteError(err error, action string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a variant with these attributes already exists")
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

// Sanitize normalises a variant received over the wire and checks the fields a
// stored variant must satisfy: at least one attribute, non-empty distinct names,
// non-negative price and stock, and a name equal to the derived one.
func Sanitize(v Variant) (Variant, error) {
	details := map[string]string{}
	if len(v.Attributes) == 0 {
		details["attributes"] = "at least one attribute is required"
	}
	attrs := make(types.VariantAttributes, 0, len(v.Attributes))
	seen := map[string]struct{}{}
	for i, attr := range v.Attributes {
		name := options.Normalize(attr.Name)
		value := options.Normalize(attr.Value)
		if name == "" {
			details[fmt.Sprintf("attributes[%d].name", i)] = "is required"
		}
		if value == "" {
			details[fmt.Sprintf("attributes[%d].value", i)] = "is required"
		}
		if strings.Contains(value, options.NameSeparator) {
			details[fmt.Sprintf("attributes[%d].value", i)] = fmt.Sprintf("must not contain %q", options.NameSeparator)
		}
		if _, dup := seen[name]; dup && name != "" {
			details[fmt.Sprintf("attributes[%d].name", i)] = "is duplicated"
		}
		seen[name] = struct{}{}
		attrs = append(attrs, types.VariantAttribute{Name: name, Value: value})
	}
	if v.Price.IsNegative() {
		details["price"] = "must be non-negative"
	}
	if v.Stock < 0 {
		details["stock"] = "must be non-negative"
	}

	derived := DeriveName(attrs)
	name := strings.TrimSpace(v.Name)
	if name == "" {
		name = derived
	} else if options.Normalize(name) != derived {
		details["name"] = "must match the attribute values"
	}
	if len(details) > 0 {
		return Variant{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid variant").WithDetails(details)
	}

	out := v
	out.Name = derived
	out.Attributes = attrs
	if v.Images != nil {
		out.Images = append([]string{}, v.Images...)
	}
	return out, nil
}

func parseID(raw, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}
