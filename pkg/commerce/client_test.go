package commerce

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://commerce.test/api/", WithAPIKey("secret"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestCreateVariantRequest(t *testing.T) {
	var (
		capturedURL    string
		capturedMethod string
		capturedHeader http.Header
		payload        map[string]any
	)
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedMethod = req.Method
		capturedHeader = req.Header.Clone()
		body, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return jsonResponse(http.StatusCreated, `{"id":"v1","productId":"p1","name":"S / RED","price":12.5,"stock":3,"attributes":[{"name":"SIZE","value":"S"},{"name":"COLOR","value":"RED"}]}`), nil
	})

	created, err := client.CreateVariant(context.Background(), CreateVariantRequest{
		ProductID:  "p1",
		Price:      12.5,
		Stock:      3,
		Attributes: []Attribute{{Name: "SIZE", Value: "S"}, {Name: "COLOR", Value: "RED"}},
	})
	if err != nil {
		t.Fatalf("create variant: %v", err)
	}
	if capturedMethod != http.MethodPost || capturedURL != "http://commerce.test/api/variants" {
		t.Fatalf("unexpected request %s %s", capturedMethod, capturedURL)
	}
	if capturedHeader.Get("X-Api-Key") != "secret" || capturedHeader.Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected headers %v", capturedHeader)
	}
	if _, hasName := payload["name"]; hasName {
		t.Fatalf("create body must not carry a name: %v", payload)
	}
	if payload["productId"] != "p1" || payload["price"] != 12.5 {
		t.Fatalf("unexpected payload %v", payload)
	}
	if created.ID != "v1" || len(created.Attributes) != 2 {
		t.Fatalf("unexpected variant %+v", created)
	}
}

func TestCreateVariantWithoutIDFails(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"name":"S"}`), nil
	})
	_, err := client.CreateVariant(context.Background(), CreateVariantRequest{ProductID: "p1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestListVariantsAcceptsEnvelope(t *testing.T) {
	var capturedURL string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, `{"data":[{"id":"v1","name":"S"},{"id":"v2","name":"M"}]}`), nil
	})
	list, err := client.ListVariants(context.Background(), "p 1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if capturedURL != "http://commerce.test/api/variants/product/p%201" {
		t.Fatalf("unexpected url %q", capturedURL)
	}
	if len(list) != 2 || list[1].ID != "v2" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestListVariantsEmptyBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `null`), nil
	})
	list, err := client.ListVariants(context.Background(), "p1")
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v %v", list, err)
	}
}

func TestUpdateAndDeleteVariant(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		calls = append(calls, req.Method+" "+req.URL.Path)
		if req.Method == http.MethodDelete {
			return jsonResponse(http.StatusNoContent, ``), nil
		}
		return jsonResponse(http.StatusOK, `{"id":"v1","name":"S","price":9,"stock":1}`), nil
	})

	updated, err := client.UpdateVariant(context.Background(), "v1", UpdateVariantRequest{ProductID: "p1", Name: "S", Price: 9, Stock: 1})
	if err != nil || updated.Price != 9 {
		t.Fatalf("update: %+v %v", updated, err)
	}
	if err := client.DeleteVariant(context.Background(), "v1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(calls) != 2 || calls[0] != "PUT /api/variants/v1" || calls[1] != "DELETE /api/variants/v1" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestStatusMapping(t *testing.T) {
	cases := map[int]pkgerrors.Code{
		http.StatusNotFound:            pkgerrors.CodeNotFound,
		http.StatusConflict:            pkgerrors.CodeConflict,
		http.StatusBadRequest:          pkgerrors.CodeValidation,
		http.StatusInternalServerError: pkgerrors.CodeDependency,
		http.StatusBadGateway:          pkgerrors.CodeDependency,
	}
	for status, code := range cases {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(status, `{"error":"nope"}`), nil
		})
		_, err := client.GetProduct(context.Background(), "p1")
		if !pkgerrors.IsCode(err, code) {
			t.Fatalf("status %d: expected %s, got %v", status, code, err)
		}
	}
}

func TestUpdateProductOmitsNilFields(t *testing.T) {
	var payload map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(body, &payload)
		return jsonResponse(http.StatusOK, `{"data":{"id":"p1","title":"Tee","price":20,"stock":2}}`), nil
	})
	title := "Tee"
	product, err := client.UpdateProduct(context.Background(), "p1", UpdateProductRequest{Title: &title})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if len(payload) != 1 || payload["title"] != "Tee" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if product.Title != "Tee" || product.Price != 20 {
		t.Fatalf("unexpected product %+v", product)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
