package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type cartItemAdd struct {
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	SelectedColor string `json:"selected_color"`
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	cart, err := s.store.GetOrCreateCart(r.Context(), sessionID)
	if err != nil {
		s.storeError(w, err, "Cart not found")
		return
	}
	s.writeJSON(w, http.StatusOK, cart)
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var in cartItemAdd
	if !s.decode(w, r, &in) {
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	cart, err := s.store.AddCartItem(r.Context(), sessionID, in.ProductID, in.Quantity, in.SelectedColor)
	if err != nil {
		s.storeError(w, err, "Product not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Item added to cart successfully",
		"cart":    cart,
	})
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	itemID := chi.URLParam(r, "itemID")

	if _, err := s.store.RemoveCartItem(r.Context(), sessionID, itemID); err != nil {
		s.storeError(w, err, "Cart not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart successfully"})
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.store.ClearCart(r.Context(), sessionID); err != nil {
		s.storeError(w, err, "Cart not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared successfully"})
}
