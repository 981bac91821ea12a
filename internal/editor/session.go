// Package editor holds a seller's edit session for one product's variant matrix:
// the option rows, the working variant list regenerated on every option change,
// and the id set captured at load that a submit reconciles against.
package editor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/options"
	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// ErrSubmitInFlight is returned when Submit is re-entered before the previous
// submit returned.
var ErrSubmitInFlight = pkgerrors.New(pkgerrors.CodeConflict, "a submit is already in progress")

type applier interface {
	Apply(ctx context.Context, productID string, plan variants.Plan) (variants.Result, error)
}

// LoadParams configure Load.
type LoadParams struct {
	Catalog    catalog.Catalog
	Executor   applier
	Logger     *logger.Logger
	ProductID  string
	SellerID   string
	MaxOptions int
}

// Session is safe for concurrent use; mutations are serialised and Submit admits
// one caller at a time.
type Session struct {
	mu sync.Mutex

	catalog    catalog.Catalog
	exec       applier
	logg       *logger.Logger
	productID  string
	sellerID   string
	maxOptions int

	product     *product.Product
	options     *options.Set
	working     []variants.Variant
	originalIDs []string
	base        variants.Defaults

	submitting atomic.Bool
}

// Load fetches the product and its persisted variants and seeds the option rows
// from their attributes. An empty SellerID skips the ownership check.
func Load(ctx context.Context, params LoadParams) (*Session, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Executor == nil {
		return nil, fmt.Errorf("variant executor required")
	}
	p, err := params.Catalog.GetProduct(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}
	if params.SellerID != "" && p.SellerID != params.SellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another seller")
	}
	previous, err := params.Catalog.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	s := &Session{
		catalog:    params.Catalog,
		exec:       params.Executor,
		logg:       params.Logger,
		productID:  p.ID,
		sellerID:   params.SellerID,
		maxOptions: params.MaxOptions,
		product:    p,
		options:    options.NewSet(variants.OptionsFromVariants(previous)),
		base:       variants.Defaults{Price: p.Price, Stock: p.Stock},
	}
	s.originalIDs = make([]string, 0, len(previous))
	for _, v := range previous {
		if v.Persisted() {
			s.originalIDs = append(s.originalIDs, v.ID)
		}
	}
	s.working = variants.Merge(variants.Generate(s.options.NonEmpty()), previous, s.base)
	return s, nil
}

func (s *Session) ProductID() string { return s.productID }

// Product returns the product as last loaded or saved.
func (s *Session) Product() product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.product
}

func (s *Session) Options() []options.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options.Options()
}

// Variants returns a copy of the working list.
func (s *Session) Variants() []variants.Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneVariants(s.working)
}

// OriginalIDs returns the persisted ids the next submit reconciles against.
func (s *Session) OriginalIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.originalIDs...)
}

// Plan is what Submit would execute right now.
func (s *Session) Plan() variants.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return variants.Diff(s.originalIDs, s.working)
}

// AddOption appends an empty option row. Exceeding the option limit is refused
// and leaves the rows unchanged.
func (s *Session) AddOption() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.options.AddOption()
	if err := s.options.EnsureWithinLimit(s.maxOptions); err != nil {
		_ = s.options.RemoveOption(idx)
		return -1, err
	}
	return idx, nil
}

func (s *Session) RemoveOption(index int) error {
	return s.mutate(func(set *options.Set) error { return set.RemoveOption(index) })
}

func (s *Session) SetOptionName(index int, name string) error {
	return s.mutate(func(set *options.Set) error { return set.SetOptionName(index, name) })
}

// AddOptionValue reports whether the value was added. Blank and duplicate values
// are no-ops.
func (s *Session) AddOptionValue(index int, value string) (bool, error) {
	var changed bool
	err := s.mutate(func(set *options.Set) error {
		var err error
		changed, err = set.AddOptionValue(index, value)
		return err
	})
	return changed, err
}

func (s *Session) RemoveOptionValue(index, valueIndex int) error {
	return s.mutate(func(set *options.Set) error { return set.RemoveOptionValue(index, valueIndex) })
}

// ReplaceOptions swaps every option row at once and regenerates a single time
// against the current working list. Used by stateless API requests that send
// the complete option state.
func (s *Session) ReplaceOptions(opts []options.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := options.NewSet(opts)
	if err := next.EnsureWithinLimit(s.maxOptions); err != nil {
		return err
	}
	s.options = next
	s.regenerate()
	return nil
}

// SetBase changes the defaults seeded into combinations without a record. It does
// not touch entries already in the working list.
func (s *Session) SetBase(price decimal.Decimal, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = variants.Defaults{Price: price, Stock: stock}
}

func (s *Session) SetPrice(name string, price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	return s.edit(name, func(v *variants.Variant) { v.Price = price })
}

func (s *Session) SetStock(name string, stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	return s.edit(name, func(v *variants.Variant) { v.Stock = stock })
}

func (s *Session) edit(name string, fn func(*variants.Variant)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := options.Normalize(name)
	for i := range s.working {
		if s.working[i].Name == key {
			fn(&s.working[i])
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variant %q is not in the working list", key))
}

func (s *Session) mutate(fn func(*options.Set) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.options); err != nil {
		return err
	}
	s.regenerate()
	return nil
}

// regenerate merges fresh drafts against the list held before this change. Must
// be called with mu held.
func (s *Session) regenerate() {
	s.working = variants.Merge(variants.Generate(s.options.NonEmpty()), s.working, s.base)
}

func cloneVariants(in []variants.Variant) []variants.Variant {
	out := make([]variants.Variant, len(in))
	for i, v := range in {
		v.Attributes = v.Attributes.Clone()
		if v.Images != nil {
			v.Images = append([]string{}, v.Images...)
		}
		out[i] = v
	}
	return out
}
