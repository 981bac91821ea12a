package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	"github.com/angelmondragon/storefront/pkg/commerce"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
)

const (
	testSeller  = "7e0b0a39-0d6b-4b7a-9d5e-0f6a2b8c9d11"
	testProduct = "2b4c9c1e-7d8f-4c55-9f0c-6f3c3a1f2d10"
	testVariant = "9a1d2f3e-4b5c-4d6e-8f70-1a2b3c4d5e6f"
)

type stubProducts struct {
	products map[string]*product.Product
}

func (s *stubProducts) GetProduct(ctx context.Context, productID string) (*product.Product, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

type stubVariants struct {
	created []variants.Variant
	updated []variants.Variant
	deleted []string
	stored  map[string]variants.Variant
}

func (s *stubVariants) ListByProduct(ctx context.Context, productID string) ([]variants.Variant, error) {
	out := []variants.Variant{}
	for _, v := range s.stored {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubVariants) Create(ctx context.Context, productID string, v variants.Variant) (variants.Variant, error) {
	s.created = append(s.created, v)
	v.ID = testVariant
	v.ProductID = productID
	v.Name = variants.DeriveName(v.Attributes)
	return v, nil
}

func (s *stubVariants) Update(ctx context.Context, productID string, v variants.Variant) (variants.Variant, error) {
	s.updated = append(s.updated, v)
	return v, nil
}

func (s *stubVariants) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubVariants) Get(ctx context.Context, id string) (variants.Variant, error) {
	v, ok := s.stored[id]
	if !ok {
		return variants.Variant{}, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return v, nil
}

func ownedProducts(sellerID string) *stubProducts {
	return &stubProducts{products: map[string]*product.Product{
		testProduct: {ID: testProduct, SellerID: sellerID, Title: "Tee", Price: decimal.NewFromInt(20)},
	}}
}

func TestCreateVariant(t *testing.T) {
	logg := testLogger()
	body := `{"productId":"` + testProduct + `","price":12.5,"stock":3,"attributes":[{"name":"SIZE","value":"S"},{"name":"COLOR","value":"RED"}]}`

	t.Run("missing seller", func(t *testing.T) {
		rec := serve(CreateVariant(&stubVariants{}, ownedProducts(testSeller), logg), newRequest(http.MethodPost, "/variants", body, requestOpts{}))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("other seller's product", func(t *testing.T) {
		svc := &stubVariants{}
		rec := serve(CreateVariant(svc, ownedProducts("someone-else"), logg), newRequest(http.MethodPost, "/variants", body, requestOpts{sellerID: testSeller}))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if len(svc.created) != 0 {
			t.Fatal("no variant should be created for a foreign product")
		}
	})

	t.Run("no attributes", func(t *testing.T) {
		empty := `{"productId":"` + testProduct + `","price":1,"stock":1,"attributes":[]}`
		rec := serve(CreateVariant(&stubVariants{}, ownedProducts(testSeller), logg), newRequest(http.MethodPost, "/variants", empty, requestOpts{sellerID: testSeller}))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		svc := &stubVariants{}
		rec := serve(CreateVariant(svc, ownedProducts(testSeller), logg), newRequest(http.MethodPost, "/variants", body, requestOpts{sellerID: testSeller}))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var got commerce.Variant
		decodeData(t, rec, &got)
		if got.ID != testVariant || got.Name != "S / RED" || got.Price != 12.5 || got.Stock != 3 {
			t.Fatalf("unexpected variant %+v", got)
		}
		if len(svc.created) != 1 || svc.created[0].Name != "" {
			t.Fatalf("expected nameless create, got %+v", svc.created)
		}
	})
}

func TestUpdateVariantUsesPathID(t *testing.T) {
	svc := &stubVariants{}
	body := `{"productId":"` + testProduct + `","name":"S","price":9,"stock":1,"attributes":[{"name":"SIZE","value":"S"}]}`
	req := newRequest(http.MethodPut, "/variants/"+testVariant, body, requestOpts{sellerID: testSeller, params: map[string]string{"id": testVariant}})

	rec := serve(UpdateVariant(svc, ownedProducts(testSeller), testLogger()), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.updated) != 1 || svc.updated[0].ID != testVariant || !svc.updated[0].Price.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("unexpected update %+v", svc.updated)
	}
}

func TestListProductVariants(t *testing.T) {
	svc := &stubVariants{stored: map[string]variants.Variant{
		testVariant: {ID: testVariant, ProductID: testProduct, Name: "S", Attributes: types.VariantAttributes{{Name: "SIZE", Value: "S"}}},
	}}

	rec := serve(ListProductVariants(svc, testLogger()), newRequest(http.MethodGet, "/variants/product/"+testProduct, "", requestOpts{params: map[string]string{"productId": testProduct}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []commerce.Variant
	decodeData(t, rec, &list)
	if len(list) != 1 || list[0].Attributes[0].Value != "S" {
		t.Fatalf("unexpected list %+v", list)
	}

	bad := serve(ListProductVariants(svc, testLogger()), newRequest(http.MethodGet, "/variants/product/nope", "", requestOpts{params: map[string]string{"productId": "nope"}}))
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", bad.Code)
	}
}

func TestDeleteVariant(t *testing.T) {
	stored := map[string]variants.Variant{testVariant: {ID: testVariant, ProductID: testProduct}}
	logg := testLogger()

	t.Run("foreign product", func(t *testing.T) {
		svc := &stubVariants{stored: stored}
		req := newRequest(http.MethodDelete, "/variants/"+testVariant, "", requestOpts{sellerID: testSeller, params: map[string]string{"id": testVariant}})
		rec := serve(DeleteVariant(svc, ownedProducts("someone-else"), logg), req)
		if rec.Code != http.StatusForbidden || len(svc.deleted) != 0 {
			t.Fatalf("expected 403 without delete, got %d %v", rec.Code, svc.deleted)
		}
	})

	t.Run("success", func(t *testing.T) {
		svc := &stubVariants{stored: stored}
		req := newRequest(http.MethodDelete, "/variants/"+testVariant, "", requestOpts{sellerID: testSeller, params: map[string]string{"id": testVariant}})
		rec := serve(DeleteVariant(svc, ownedProducts(testSeller), logg), req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if len(svc.deleted) != 1 || svc.deleted[0] != testVariant {
			t.Fatalf("unexpected deletes %v", svc.deleted)
		}
	})

	t.Run("unknown variant", func(t *testing.T) {
		other := "0f0e0d0c-0b0a-4908-8706-050403020100"
		req := newRequest(http.MethodDelete, "/variants/"+other, "", requestOpts{sellerID: testSeller, params: map[string]string{"id": other}})
		rec := serve(DeleteVariant(&stubVariants{stored: stored}, ownedProducts(testSeller), logg), req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
