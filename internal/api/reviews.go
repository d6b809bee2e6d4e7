package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rudranil/techstore/internal/store"
)

type reviewCreate struct {
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var in reviewCreate
	if !s.decode(w, r, &in) {
		return
	}

	review, err := s.store.CreateReview(r.Context(), store.Review{
		ProductID: in.ProductID,
		UserID:    in.UserID,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   in.Comment,
	})
	if err != nil {
		s.storeError(w, err, "Product not found")
		return
	}

	// Trending and single-product payloads embed review activity.
	s.cache.Invalidate("products:" + in.ProductID)
	s.writeJSON(w, http.StatusOK, review)
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	reviews, err := s.store.ListReviews(r.Context(), productID, limit)
	if err != nil {
		s.storeError(w, err, "Product not found")
		return
	}
	s.writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) reviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetReviewStats(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		s.storeError(w, err, "Product not found")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}
