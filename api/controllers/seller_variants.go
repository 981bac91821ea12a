package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/editor"
	"github.com/angelmondragon/storefront/internal/options"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type optionPayload struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type variantEditPayload struct {
	Name  string   `json:"name" validate:"required"`
	Price *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Stock *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
}

// variantMatrixRequest is shared by preview and submit. Omitting options keeps
// the groups derived from the persisted variants; an empty array removes them.
type variantMatrixRequest struct {
	updateProductRequest
	Options []optionPayload      `json:"options"`
	Edits   []variantEditPayload `json:"edits,omitempty" validate:"omitempty,dive"`
}

func (p variantMatrixRequest) toRequest(sellerID, productID string) editor.Request {
	req := editor.Request{
		SellerID:  sellerID,
		ProductID: productID,
		Product:   p.updateProductRequest.toInput(),
	}
	if p.Options != nil {
		req.Options = make([]options.Option, 0, len(p.Options))
		for _, opt := range p.Options {
			req.Options = append(req.Options, options.Option{Name: opt.Name, Values: opt.Values})
		}
	}
	for _, edit := range p.Edits {
		e := editor.VariantEdit{Name: edit.Name, Stock: edit.Stock}
		if edit.Price != nil {
			price := decimal.NewFromFloat(*edit.Price)
			e.Price = &price
		}
		req.Edits = append(req.Edits, e)
	}
	return req
}

func decodeMatrixRequest(r *http.Request) (editor.Request, error) {
	sellerID, err := requireSeller(r)
	if err != nil {
		return editor.Request{}, err
	}
	productID, err := idParam(r, "productId")
	if err != nil {
		return editor.Request{}, err
	}
	var payload variantMatrixRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return editor.Request{}, err
	}
	return payload.toRequest(sellerID, productID), nil
}

// SellerPreviewVariants returns the working matrix and the create/update/delete
// plan a submit of the same body would execute. Nothing is persisted.
func SellerPreviewVariants(svc editor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variant editor unavailable"))
			return
		}
		req, err := decodeMatrixRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.Preview(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

// SellerSubmitVariants saves the product base fields and reconciles the variant
// matrix against what is persisted.
func SellerSubmitVariants(svc editor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variant editor unavailable"))
			return
		}
		req, err := decodeMatrixRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, req.ProductID)
		}
		result, err := svc.Submit(ctx, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
