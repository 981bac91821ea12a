package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/editor"
	"github.com/angelmondragon/storefront/internal/variants"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type stubEditor struct {
	last      editor.Request
	submitErr error
}

func (s *stubEditor) Preview(ctx context.Context, req editor.Request) (editor.Preview, error) {
	s.last = req
	return editor.Preview{Options: req.Options, Plan: variants.Plan{}}, nil
}

func (s *stubEditor) Submit(ctx context.Context, req editor.Request) (editor.SubmitResult, error) {
	s.last = req
	if s.submitErr != nil {
		return editor.SubmitResult{}, s.submitErr
	}
	return editor.SubmitResult{}, nil
}

func matrixRequest(method, body string) *http.Request {
	return newRequest(method, "/api/v1/seller/products/"+testProduct+"/variants", body, requestOpts{
		sellerID: testSeller,
		params:   map[string]string{"productId": testProduct},
	})
}

func TestSellerPreviewKeepsOptionsWhenOmitted(t *testing.T) {
	svc := &stubEditor{}

	rec := serve(SellerPreviewVariants(svc, testLogger()), matrixRequest(http.MethodPost, `{"price":15}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.last.Options != nil {
		t.Fatalf("omitted options must stay nil, got %+v", svc.last.Options)
	}
	if svc.last.Product.Price == nil || !svc.last.Product.Price.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected base price to be forwarded, got %+v", svc.last.Product)
	}
	if svc.last.SellerID != testSeller || svc.last.ProductID != testProduct {
		t.Fatalf("unexpected ids %+v", svc.last)
	}

	rec = serve(SellerPreviewVariants(svc, testLogger()), matrixRequest(http.MethodPost, `{"options":[]}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.last.Options == nil || len(svc.last.Options) != 0 {
		t.Fatalf("an empty options array must clear, got %#v", svc.last.Options)
	}
}

func TestSellerSubmitForwardsEdits(t *testing.T) {
	svc := &stubEditor{}
	body := `{"title":"Tee","options":[{"name":"size","values":["s","m"]}],"edits":[{"name":"S","price":12.5},{"name":"M","stock":4}]}`

	rec := serve(SellerSubmitVariants(svc, testLogger()), matrixRequest(http.MethodPut, body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.last.Options) != 1 || svc.last.Options[0].Name != "size" {
		t.Fatalf("unexpected options %+v", svc.last.Options)
	}
	if len(svc.last.Edits) != 2 {
		t.Fatalf("expected two edits, got %+v", svc.last.Edits)
	}
	if svc.last.Edits[0].Price == nil || svc.last.Edits[0].Stock != nil {
		t.Fatalf("unexpected first edit %+v", svc.last.Edits[0])
	}
	if svc.last.Edits[1].Stock == nil || *svc.last.Edits[1].Stock != 4 {
		t.Fatalf("unexpected second edit %+v", svc.last.Edits[1])
	}
	if svc.last.Product.Title == nil || *svc.last.Product.Title != "Tee" {
		t.Fatalf("expected title, got %+v", svc.last.Product)
	}
}

func TestSellerSubmitErrors(t *testing.T) {
	cases := map[string]struct {
		body   string
		err    error
		status int
	}{
		"negative edit price": {body: `{"edits":[{"name":"S","price":-1}]}`, status: http.StatusBadRequest},
		"unknown field":       {body: `{"colour":"red"}`, status: http.StatusBadRequest},
		"in flight":           {body: `{}`, err: editor.ErrSubmitInFlight, status: http.StatusConflict},
		"batch failed": {
			body:   `{}`,
			err:    pkgerrors.New(pkgerrors.CodeDependency, "variant batch failed").WithDetails(map[string]any{"attempted": 2}),
			status: http.StatusServiceUnavailable,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubEditor{submitErr: tc.err}
			rec := serve(SellerSubmitVariants(svc, testLogger()), matrixRequest(http.MethodPut, tc.body))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSellerSubmitRequiresSeller(t *testing.T) {
	req := newRequest(http.MethodPut, "/", `{}`, requestOpts{params: map[string]string{"productId": testProduct}})
	rec := serve(SellerSubmitVariants(&stubEditor{}, testLogger()), req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSellerPreviewForwardsOpaqueProductID(t *testing.T) {
	const objectID = "64f1a2b3c4d5e6f708192a3b"
	svc := &stubEditor{}
	req := newRequest(http.MethodPost, "/api/v1/seller/products/"+objectID+"/variants/preview", `{}`, requestOpts{
		sellerID: testSeller,
		params:   map[string]string{"productId": objectID},
	})

	rec := serve(SellerPreviewVariants(svc, testLogger()), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.last.ProductID != objectID {
		t.Fatalf("expected %s, got %q", objectID, svc.last.ProductID)
	}
}
