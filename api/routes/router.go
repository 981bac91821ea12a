package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/editor"
	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	"github.com/angelmondragon/storefront/internal/wishlist"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	pkgredis "github.com/angelmondragon/storefront/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP pinger,
	redisP pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	gatherer prometheus.Gatherer,
	productService product.Service,
	variantService variants.Service,
	catalogService catalog.Catalog,
	editorService editor.Service,
	cartService cart.Service,
	wishlistService wishlist.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Remote-compatible persistence API, authenticated as the owning seller.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/{id}", controllers.GetProduct(productService, logg))
			r.Put("/{id}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{id}", controllers.DeleteProduct(productService, logg))
		})
		r.Route("/variants", func(r chi.Router) {
			r.Post("/", controllers.CreateVariant(variantService, productService, logg))
			r.Get("/product/{productId}", controllers.ListProductVariants(variantService, logg))
			r.Put("/{id}", controllers.UpdateVariant(variantService, productService, logg))
			r.Delete("/{id}", controllers.DeleteVariant(variantService, productService, logg))
		})
	})

	r.Route("/api/v1/seller", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Post("/products/{productId}/variants/preview", controllers.SellerPreviewVariants(editorService, logg))
		r.Put("/products/{productId}/variants", controllers.SellerSubmitVariants(editorService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartSession(logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/products/{productId}", controllers.ProductDetail(catalogService, logg))
		r.Post("/products/{productId}/resolve", controllers.ResolveSelection(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items", controllers.CartRemoveItem(cartService, logg))
			r.Post("/buy-now", controllers.CartBuyNow(cartService, logg))
			r.Post("/checkout", controllers.CartCheckout(cartService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(wishlistService, logg))
			r.Post("/", controllers.WishlistAdd(wishlistService, logg))
			r.Delete("/", controllers.WishlistRemove(wishlistService, logg))
		})
	})

	return r
}
