package catalog

import (
	"context"
	"fmt"

	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	"github.com/angelmondragon/storefront/pkg/commerce"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type commerceAPI interface {
	ListVariants(ctx context.Context, productID string) ([]commerce.Variant, error)
	CreateVariant(ctx context.Context, req commerce.CreateVariantRequest) (*commerce.Variant, error)
	UpdateVariant(ctx context.Context, id string, req commerce.UpdateVariantRequest) (*commerce.Variant, error)
	DeleteVariant(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (*commerce.Product, error)
	UpdateProduct(ctx context.Context, id string, req commerce.UpdateProductRequest) (*commerce.Product, error)
}

// Remote serves the catalog from a remote commerce API.
type Remote struct {
	api commerceAPI
}

func NewRemote(api commerceAPI) (*Remote, error) {
	if api == nil {
		return nil, fmt.Errorf("commerce client required")
	}
	return &Remote{api: api}, nil
}

func (r *Remote) ListByProduct(ctx context.Context, productID string) ([]variants.Variant, error) {
	list, err := r.api.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]variants.Variant, 0, len(list))
	for _, w := range list {
		v := FromWireVariant(w)
		if v.ProductID == "" {
			v.ProductID = productID
		}
		if v.Name == "" {
			v.Name = variants.DeriveName(v.Attributes)
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Remote) Create(ctx context.Context, productID string, v variants.Variant) (variants.Variant, error) {
	created, err := r.api.CreateVariant(ctx, commerce.CreateVariantRequest{
		ProductID:  productID,
		Price:      v.Price.InexactFloat64(),
		Stock:      v.Stock,
		Attributes: toWireAttributes(v.Attributes),
	})
	if err != nil {
		return variants.Variant{}, err
	}
	return fillFromRequest(FromWireVariant(*created), productID, v), nil
}

func (r *Remote) Update(ctx context.Context, productID string, v variants.Variant) (variants.Variant, error) {
	updated, err := r.api.UpdateVariant(ctx, v.ID, commerce.UpdateVariantRequest{
		ProductID:  productID,
		Name:       v.Name,
		Price:      v.Price.InexactFloat64(),
		Stock:      v.Stock,
		Attributes: toWireAttributes(v.Attributes),
	})
	if err != nil {
		return variants.Variant{}, err
	}
	out := fillFromRequest(FromWireVariant(*updated), productID, v)
	if out.ID == "" {
		out.ID = v.ID
	}
	return out, nil
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	return r.api.DeleteVariant(ctx, id)
}

func (r *Remote) GetProduct(ctx context.Context, productID string) (*product.Product, error) {
	p, err := r.api.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return FromWireProduct(p), nil
}

// UpdateProduct checks ownership against the remote record before writing,
// since the remote API has no notion of the calling seller.
func (r *Remote) UpdateProduct(ctx context.Context, sellerID, productID string, input product.UpdateInput) (*product.Product, error) {
	if sellerID != "" {
		current, err := r.GetProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if current.SellerID != sellerID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
		}
	}

	req := commerce.UpdateProductRequest{
		Title:       input.Title,
		Description: input.Description,
		Stock:       input.Stock,
		Image:       input.Image,
	}
	if input.Price != nil {
		price := input.Price.InexactFloat64()
		req.Price = &price
	}
	p, err := r.api.UpdateProduct(ctx, productID, req)
	if err != nil {
		return nil, err
	}
	return FromWireProduct(p), nil
}

// fillFromRequest keeps what we sent when the remote echoes a partial record.
func fillFromRequest(got variants.Variant, productID string, sent variants.Variant) variants.Variant {
	if got.ProductID == "" {
		got.ProductID = productID
	}
	if len(got.Attributes) == 0 {
		got.Attributes = sent.Attributes.Clone()
	}
	if got.Name == "" {
		got.Name = variants.DeriveName(got.Attributes)
	}
	return got
}
