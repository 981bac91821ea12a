package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/api/middleware"
	product "github.com/angelmondragon/storefront/internal/products"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type productGetter interface {
	GetProduct(ctx context.Context, productID string) (*product.Product, error)
}

func requireSeller(r *http.Request) (string, error) {
	sellerID := middleware.SellerIDFromContext(r.Context())
	if sellerID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "seller context missing")
	}
	return sellerID, nil
}

func requireCart(r *http.Request) (string, error) {
	cartID := middleware.CartIDFromContext(r.Context())
	if cartID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart id missing")
	}
	return cartID, nil
}

// uuidParam reads a uuid path parameter and returns it in canonical form.
func uuidParam(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id.String(), nil
}

// idParam reads an opaque path id. The catalog behind the route decides its format.
func idParam(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	return raw, nil
}

func ensureProductOwner(ctx context.Context, products productGetter, sellerID, productID string) (*product.Product, error) {
	p, err := products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another seller")
	}
	return p, nil
}
