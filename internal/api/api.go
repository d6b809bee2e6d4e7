// Package api exposes the storefront over REST. Read endpoints for the
// catalog go through the response cache; mutations invalidate it.
package api

import (
	"time"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"

	"github.com/rudranil/techstore/cache"
	"github.com/rudranil/techstore/cache/types"
	"github.com/rudranil/techstore/internal/store"
)

// Version is reported by the health endpoint.
const Version = "2.0.0"

// Cached product responses: listings change with every mutation, single
// products less often.
const (
	productListTTL = 5 * time.Minute
	productGetTTL  = 10 * time.Minute
)

// Server wires the storage layer and the response cache into handlers.
type Server struct {
	store    *store.Store
	cache    *cache.Client
	counters *types.Counters
	logger   log.Interface
}

func New(st *store.Store, c *cache.Client, counters *types.Counters, logger log.Interface) *Server {
	if counters == nil {
		counters = &types.Counters{}
	}
	if logger == nil {
		logger = log.Log
	}
	return &Server{store: st, cache: c, counters: counters, logger: logger}
}

// Router mounts every endpoint under the /api prefix.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.listProducts)
		r.Get("/products/trending", s.trendingProducts)
		r.Post("/products", s.createProduct)
		r.Get("/products/{productID}", s.getProduct)
		r.Put("/products/{productID}", s.updateProduct)
		r.Delete("/products/{productID}", s.deleteProduct)
		r.Get("/products/{productID}/recommendations", s.recommendations)

		r.Route("/cart/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getCart)
			r.Post("/items", s.addCartItem)
			r.Delete("/items/{itemID}", s.removeCartItem)
			r.Delete("/", s.clearCart)
		})

		r.Post("/users", s.createUser)
		r.Get("/users/{userID}", s.getUser)
		r.Post("/users/{userID}/favorites/{productID}", s.addFavorite)
		r.Delete("/users/{userID}/favorites/{productID}", s.removeFavorite)
		r.Get("/users/{userID}/favorites", s.listFavorites)

		r.Post("/reviews", s.createReview)
		r.Get("/reviews/product/{productID}", s.listReviews)
		r.Get("/reviews/stats/{productID}", s.reviewStats)

		r.Get("/stats/dashboard", s.dashboardStats)
		r.Get("/health", s.health)
		r.Get("/performance/cache", s.cachePerformance)
		r.Post("/performance/clear-cache", s.clearCache)
		r.Post("/init-sample-data", s.initSampleData)
	})

	return r
}
