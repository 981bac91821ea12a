package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/types"
)

type productCatalog interface {
	GetProduct(ctx context.Context, productID string) (*product.Product, error)
	ListByProduct(ctx context.Context, productID string) ([]variants.Variant, error)
}

type lineStore interface {
	Load(ctx context.Context, cartID string) ([]Line, error)
	Save(ctx context.Context, cartID string, lines []Line) error
	Clear(ctx context.Context, cartID string) error
}

// Service exposes the buyer cart operations.
type Service interface {
	Get(ctx context.Context, cartID string) (Cart, error)
	AddItem(ctx context.Context, cartID string, input AddInput) (Cart, error)
	UpdateQty(ctx context.Context, cartID string, input UpdateQtyInput) (Cart, error)
	RemoveItem(ctx context.Context, cartID, productID string, variantID *string) (Cart, error)
	Clear(ctx context.Context, cartID string) error
	BuyNow(ctx context.Context, input AddInput) (Line, error)
	Checkout(ctx context.Context, cartID string) (Summary, error)
}

// Cart is the stored lines plus derived totals.
type Cart struct {
	ID       string          `json:"id"`
	Items    []Line          `json:"items"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// AddInput identifies what to add. The variant is chosen either by VariantID or
// by an attribute Selection; with neither, the base product is added.
type AddInput struct {
	ProductID string
	VariantID *string
	Selection types.VariantAttributes
	Qty       int
}

type UpdateQtyInput struct {
	ProductID string
	VariantID *string
	Qty       int
}

// SellerGroup is the slice of a checkout summary sold by one seller.
type SellerGroup struct {
	SellerID   string          `json:"sellerId"`
	SellerName string          `json:"sellerName"`
	Items      []Line          `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type Summary struct {
	CartID   string          `json:"cartId"`
	Sellers  []SellerGroup   `json:"sellers"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store   lineStore
	Catalog productCatalog
	Logger  *logger.Logger
}

type service struct {
	store   lineStore
	catalog productCatalog
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	return &service{store: params.Store, catalog: params.Catalog, logg: params.Logger}, nil
}

func (s *service) Get(ctx context.Context, cartID string) (Cart, error) {
	lines, err := s.load(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	return newCart(cartID, lines), nil
}

// AddItem resolves the variant, checks that stock covers the line's new quantity
// and merges it into the cart.
func (s *service) AddItem(ctx context.Context, cartID string, input AddInput) (Cart, error) {
	if err := requireCartID(cartID); err != nil {
		return Cart{}, err
	}
	p, v, err := s.resolve(ctx, input)
	if err != nil {
		return Cart{}, err
	}
	lines, err := s.load(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}

	existing := 0
	if line, ok := Find(lines, p.ID, variantIDOf(v)); ok {
		existing = line.Qty
	}
	if err := ensureStock(p, v, existing+input.Qty); err != nil {
		return Cart{}, err
	}

	lines = Add(lines, *p, input.Qty, v)
	if err := s.save(ctx, cartID, lines); err != nil {
		return Cart{}, err
	}
	return newCart(cartID, lines), nil
}

func (s *service) UpdateQty(ctx context.Context, cartID string, input UpdateQtyInput) (Cart, error) {
	if err := requireCartID(cartID); err != nil {
		return Cart{}, err
	}
	if input.Qty < 1 {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "qty must be at least 1")
	}
	lines, err := s.load(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	if _, ok := Find(lines, input.ProductID, input.VariantID); !ok {
		return Cart{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	p, v, err := s.resolve(ctx, AddInput{ProductID: input.ProductID, VariantID: input.VariantID, Qty: input.Qty})
	if err != nil {
		return Cart{}, err
	}
	if err := ensureStock(p, v, input.Qty); err != nil {
		return Cart{}, err
	}

	lines = UpdateQty(lines, input.ProductID, input.Qty, input.VariantID)
	if err := s.save(ctx, cartID, lines); err != nil {
		return Cart{}, err
	}
	return newCart(cartID, lines), nil
}

// RemoveItem is idempotent: removing a key that is not in the cart is a no-op.
func (s *service) RemoveItem(ctx context.Context, cartID, productID string, variantID *string) (Cart, error) {
	if err := requireCartID(cartID); err != nil {
		return Cart{}, err
	}
	lines, err := s.load(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	next := Remove(lines, productID, variantID)
	if len(next) != len(lines) {
		if err := s.save(ctx, cartID, next); err != nil {
			return Cart{}, err
		}
	}
	return newCart(cartID, next), nil
}

func (s *service) Clear(ctx context.Context, cartID string) error {
	if err := requireCartID(cartID); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, cartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// BuyNow validates a single purchase the same way AddItem does and returns the
// line without touching any cart.
func (s *service) BuyNow(ctx context.Context, input AddInput) (Line, error) {
	p, v, err := s.resolve(ctx, input)
	if err != nil {
		return Line{}, err
	}
	if err := ensureStock(p, v, input.Qty); err != nil {
		return Line{}, err
	}
	return Add(nil, *p, input.Qty, v)[0], nil
}

// Checkout re-reads every referenced product and variant. Lines whose product or
// variant no longer exists are removed from the stored cart and reported with
// STALE_REFERENCE; the buyer can retry with what is left.
func (s *service) Checkout(ctx context.Context, cartID string) (Summary, error) {
	if err := requireCartID(cartID); err != nil {
		return Summary{}, err
	}
	lines, err := s.load(ctx, cartID)
	if err != nil {
		return Summary{}, err
	}
	if len(lines) == 0 {
		return Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	variantCache := map[string][]variants.Variant{}
	kept := make([]Line, 0, len(lines))
	stale := []string{}
	for _, line := range lines {
		ok, err := s.stillExists(ctx, line, variantCache)
		if err != nil {
			return Summary{}, err
		}
		if !ok {
			stale = appendUnique(stale, line.ProductID)
			continue
		}
		kept = append(kept, line)
	}

	if len(stale) > 0 {
		if err := s.save(ctx, cartID, kept); err != nil {
			return Summary{}, err
		}
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{"cart_id": cartID, "stale_products": stale})
			s.logg.Warn(logCtx, "removed stale cart lines at checkout")
		}
		return Summary{}, pkgerrors.New(pkgerrors.CodeStale, fmt.Sprintf("removed unavailable products from the cart: %s", strings.Join(stale, ", "))).
			WithDetails(map[string]any{"product_ids": stale})
	}
	return summarize(cartID, kept), nil
}

func (s *service) stillExists(ctx context.Context, line Line, cache map[string][]variants.Variant) (bool, error) {
	if _, err := s.catalog.GetProduct(ctx, line.ProductID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) || pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			return false, nil
		}
		return false, err
	}
	if line.VariantID == nil {
		return true, nil
	}
	list, ok := cache[line.ProductID]
	if !ok {
		var err error
		list, err = s.catalog.ListByProduct(ctx, line.ProductID)
		if err != nil {
			return false, err
		}
		cache[line.ProductID] = list
	}
	_, found := variants.FindByID(list, *line.VariantID)
	return found, nil
}

// resolve loads the product and picks the variant the input refers to. A product
// with variants cannot be bought as its base product, and a selection matching no
// variant is UNAVAILABLE rather than a fallback to the base product.
func (s *service) resolve(ctx context.Context, input AddInput) (*product.Product, *variants.Variant, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Qty < 1 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be at least 1")
	}
	p, err := s.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, nil, err
	}

	wantsVariant := input.VariantID != nil || len(input.Selection) > 0
	if !wantsVariant && !p.HasVariants {
		return p, nil, nil
	}
	list, err := s.catalog.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	if !wantsVariant {
		if len(list) == 0 {
			return p, nil, nil
		}
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnavailable, "select an option before adding this product").
			WithDetails(map[string]any{"options": variants.OptionsFromVariants(list)})
	}

	var (
		v  variants.Variant
		ok bool
	)
	if input.VariantID != nil {
		v, ok = variants.FindByID(list, *input.VariantID)
	} else {
		v, ok = variants.Resolve(list, input.Selection)
	}
	if !ok {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnavailable, "this combination is unavailable").
			WithDetails(map[string]any{"product_id": p.ID, "selection": input.Selection})
	}
	return p, &v, nil
}

func (s *service) load(ctx context.Context, cartID string) ([]Line, error) {
	if err := requireCartID(cartID); err != nil {
		return nil, err
	}
	lines, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	deduped := Deduplicate(lines)
	if len(deduped) != len(lines) {
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{"cart_id": cartID, "lines": len(lines), "unique": len(deduped)})
			s.logg.Warn(logCtx, "repaired duplicate cart lines")
		}
		if err := s.save(ctx, cartID, deduped); err != nil {
			return nil, err
		}
	}
	return deduped, nil
}

func (s *service) save(ctx context.Context, cartID string, lines []Line) error {
	if err := s.store.Save(ctx, cartID, lines); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func ensureStock(p *product.Product, v *variants.Variant, want int) error {
	available := p.Stock
	if v != nil {
		available = v.Stock
	}
	if want > available {
		return pkgerrors.New(pkgerrors.CodeValidation, "not enough stock").
			WithDetails(map[string]any{"available": available, "requested": want})
	}
	return nil
}

func newCart(cartID string, lines []Line) Cart {
	return Cart{ID: cartID, Items: lines, Count: Count(lines), Subtotal: Subtotal(lines)}
}

func summarize(cartID string, lines []Line) Summary {
	summary := Summary{CartID: cartID, Sellers: []SellerGroup{}, Count: Count(lines), Subtotal: Subtotal(lines)}
	index := map[string]int{}
	for _, line := range lines {
		i, ok := index[line.SellerID]
		if !ok {
			i = len(summary.Sellers)
			index[line.SellerID] = i
			summary.Sellers = append(summary.Sellers, SellerGroup{SellerID: line.SellerID, SellerName: line.SellerName, Items: []Line{}, Subtotal: decimal.Zero})
		}
		group := &summary.Sellers[i]
		group.Items = append(group.Items, line)
		group.Subtotal = group.Subtotal.Add(line.LineTotal())
	}
	return summary
}

func variantIDOf(v *variants.Variant) *string {
	if v == nil {
		return nil
	}
	id := v.ID
	return &id
}

func requireCartID(cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	return nil
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
