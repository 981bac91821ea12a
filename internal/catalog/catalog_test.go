package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	"github.com/angelmondragon/storefront/pkg/commerce"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
)

type fakeCommerce struct {
	products map[string]commerce.Product
	created  []commerce.CreateVariantRequest
	updated  []commerce.UpdateVariantRequest
	deleted  []string
	prodReq  *commerce.UpdateProductRequest
	list     []commerce.Variant
}

func (f *fakeCommerce) ListVariants(ctx context.Context, productID string) ([]commerce.Variant, error) {
	return f.list, nil
}

func (f *fakeCommerce) CreateVariant(ctx context.Context, req commerce.CreateVariantRequest) (*commerce.Variant, error) {
	f.created = append(f.created, req)
	return &commerce.Variant{ID: "remote-1", Price: req.Price, Stock: req.Stock}, nil
}

func (f *fakeCommerce) UpdateVariant(ctx context.Context, id string, req commerce.UpdateVariantRequest) (*commerce.Variant, error) {
	f.updated = append(f.updated, req)
	return &commerce.Variant{Name: req.Name, Price: req.Price, Stock: req.Stock, Attributes: req.Attributes}, nil
}

func (f *fakeCommerce) DeleteVariant(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCommerce) GetProduct(ctx context.Context, id string) (*commerce.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "GET /products failed")
	}
	return &p, nil
}

func (f *fakeCommerce) UpdateProduct(ctx context.Context, id string, req commerce.UpdateProductRequest) (*commerce.Product, error) {
	f.prodReq = &req
	p := f.products[id]
	if req.Price != nil {
		p.Price = *req.Price
	}
	return &p, nil
}

func TestRemoteCreateFillsPartialEcho(t *testing.T) {
	api := &fakeCommerce{}
	remote, err := NewRemote(api)
	require.NoError(t, err)

	attrs := types.VariantAttributes{{Name: "SIZE", Value: "S"}, {Name: "COLOR", Value: "RED"}}
	created, err := remote.Create(context.Background(), "p1", variants.Variant{
		Name:       "S / RED",
		Attributes: attrs,
		Price:      decimal.RequireFromString("12.5"),
		Stock:      2,
	})
	require.NoError(t, err)
	require.Len(t, api.created, 1)
	assert.Equal(t, "p1", api.created[0].ProductID)
	assert.Equal(t, 12.5, api.created[0].Price)
	assert.Equal(t, "remote-1", created.ID)
	assert.Equal(t, "p1", created.ProductID)
	assert.Equal(t, "S / RED", created.Name)
	assert.Equal(t, attrs, created.Attributes)
}

func TestRemoteUpdateSendsName(t *testing.T) {
	api := &fakeCommerce{}
	remote, _ := NewRemote(api)
	got, err := remote.Update(context.Background(), "p1", variants.Variant{
		ID:         "v1",
		Name:       "S",
		Attributes: types.VariantAttributes{{Name: "SIZE", Value: "S"}},
		Stock:      4,
	})
	require.NoError(t, err)
	require.Len(t, api.updated, 1)
	assert.Equal(t, "S", api.updated[0].Name)
	assert.Equal(t, "v1", got.ID)
	assert.Equal(t, 4, got.Stock)
}

func TestRemoteListDerivesMissingNames(t *testing.T) {
	api := &fakeCommerce{list: []commerce.Variant{{ID: "v1", Attributes: []commerce.Attribute{{Name: "SIZE", Value: "M"}}}}}
	remote, _ := NewRemote(api)
	list, err := remote.ListByProduct(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "M", list[0].Name)
	assert.Equal(t, "p1", list[0].ProductID)
}

func TestRemoteUpdateProductChecksSeller(t *testing.T) {
	api := &fakeCommerce{products: map[string]commerce.Product{"p1": {ID: "p1", SellerID: "s1", Price: 10}}}
	remote, _ := NewRemote(api)
	price := decimal.NewFromInt(15)

	_, err := remote.UpdateProduct(context.Background(), "s2", "p1", product.UpdateInput{Price: &price})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.Nil(t, api.prodReq)

	updated, err := remote.UpdateProduct(context.Background(), "s1", "p1", product.UpdateInput{Price: &price})
	require.NoError(t, err)
	require.NotNil(t, api.prodReq)
	assert.Equal(t, 15.0, *api.prodReq.Price)
	assert.True(t, updated.Price.Equal(price))

	_, err = remote.GetProduct(context.Background(), "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestLocalCatalogRoundTrip(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}, &models.Variant{}))
	client := db.NewFromGorm(conn)

	productSvc, err := product.NewService(product.NewRepository(conn), client)
	require.NoError(t, err)
	variantSvc, err := variants.NewService(variants.NewRepository(conn), client)
	require.NoError(t, err)
	local, err := NewLocal(productSvc, variantSvc)
	require.NoError(t, err)

	seller := uuid.NewString()
	p, err := productSvc.CreateProduct(context.Background(), product.CreateInput{SellerID: seller, Title: "Tee", Price: decimal.NewFromInt(10), Stock: 1})
	require.NoError(t, err)

	var cat Catalog = local
	_, err = cat.Create(context.Background(), p.ID, variants.Variant{Attributes: types.VariantAttributes{{Name: "SIZE", Value: "S"}}})
	require.NoError(t, err)

	loaded, err := cat.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, loaded.HasVariants)

	list, err := cat.ListByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWireRoundTrip(t *testing.T) {
	v := variants.Variant{
		ID:         "v1",
		ProductID:  "p1",
		Name:       "S",
		Attributes: types.VariantAttributes{{Name: "SIZE", Value: "S"}},
		Price:      decimal.RequireFromString("19.99"),
		Stock:      3,
		Images:     []string{"a.png"},
	}
	back := FromWireVariant(ToWireVariant(v))
	assert.True(t, back.Price.Equal(v.Price))
	back.Price = v.Price
	assert.Equal(t, v, back)
}
