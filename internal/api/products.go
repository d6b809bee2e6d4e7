package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rudranil/techstore/cache"
	"github.com/rudranil/techstore/cache/keyspace"
	"github.com/rudranil/techstore/internal/store"
)

type productCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	ProductType string   `json:"product_type"`
	Colors      []string `json:"colors"`
	ModelURL    string   `json:"model_url"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Featured    bool     `json:"featured"`
}

// listProducts serves the filtered catalog. Responses are cached per
// filter combination; any product mutation busts the whole family.
func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	filter, params, ok := s.parseProductFilter(w, r)
	if !ok {
		return
	}

	key := keyspace.ParamsKey("products:list", params)
	products, err := cache.FetchJSON(r.Context(), s.cache, key,
		func(ctx context.Context) ([]store.Product, error) {
			return s.store.ListProducts(ctx, filter)
		}, cache.WithTTL(productListTTL))
	if err != nil {
		s.storeError(w, err, "products not found")
		return
	}
	s.writeJSON(w, http.StatusOK, products)
}

func (s *Server) parseProductFilter(w http.ResponseWriter, r *http.Request) (store.ProductFilter, map[string]string, bool) {
	q := r.URL.Query()
	filter := store.ProductFilter{
		Category:    q.Get("category"),
		ProductType: q.Get("product_type"),
		Search:      q.Get("search"),
	}
	params := map[string]string{
		"category":     filter.Category,
		"product_type": filter.ProductType,
		"search":       filter.Search,
	}

	if v := q.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			s.detail(w, http.StatusBadRequest, "featured must be a boolean")
			return store.ProductFilter{}, nil, false
		}
		filter.Featured = &featured
		params["featured"] = v
	}
	if v := q.Get("min_price"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.detail(w, http.StatusBadRequest, "min_price must be a number")
			return store.ProductFilter{}, nil, false
		}
		filter.MinPrice = &min
		params["min_price"] = v
	}
	if v := q.Get("max_price"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.detail(w, http.StatusBadRequest, "max_price must be a number")
			return store.ProductFilter{}, nil, false
		}
		filter.MaxPrice = &max
		params["max_price"] = v
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			s.detail(w, http.StatusBadRequest, "limit must be a positive integer")
			return store.ProductFilter{}, nil, false
		}
		filter.Limit = limit
		params["limit"] = v
	}
	return filter, params, true
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	product, err := cache.FetchJSON(r.Context(), s.cache, "products:"+id,
		func(ctx context.Context) (store.Product, error) {
			return s.store.GetProduct(ctx, id)
		}, cache.WithTTL(productGetTTL))
	if err != nil {
		s.storeError(w, err, "Product not found")
		return
	}
	s.writeJSON(w, http.StatusOK, product)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var in productCreate
	if !s.decode(w, r, &in) {
		return
	}

	product, err := s.store.CreateProduct(r.Context(), store.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ProductType: in.ProductType,
		Colors:      in.Colors,
		ModelURL:    in.ModelURL,
		Images:      in.Images,
		Stock:       in.Stock,
		Featured:    in.Featured,
	})
	if err != nil {
		s.storeError(w, err, "Product not found")
		return
	}

	s.cache.InvalidatePrefix("products")
	s.writeJSON(w, http.StatusOK, product)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	var in store.ProductUpdate
	if !s.decode(w, r, &in) {
		return
	}

	product, err := s.store.UpdateProduct(r.Context(), id, in)
	if err != nil {
		s.storeError(w, err, "Product not found")
		return
	}

	s.cache.InvalidatePrefix("products")
	s.writeJSON(w, http.StatusOK, product)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	if err := s.store.DeleteProduct(r.Context(), id); err != nil {
		s.storeError(w, err, "Product not found")
		return
	}

	s.cache.InvalidatePrefix("products")
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	limit := 4
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	recs, err := s.store.Recommendations(r.Context(), id, limit)
	if err != nil {
		s.storeError(w, err, "Product not found")
		return
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) trendingProducts(w http.ResponseWriter, r *http.Request) {
	limit := 8
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	trending, err := s.store.Trending(r.Context(), limit)
	if err != nil {
		s.storeError(w, err, "products not found")
		return
	}
	s.writeJSON(w, http.StatusOK, trending)
}
