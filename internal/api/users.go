package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rudranil/techstore/internal/store"
)

type userCreate struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in userCreate
	if !s.decode(w, r, &in) {
		return
	}
	if in.Email == "" || in.Name == "" {
		s.detail(w, http.StatusBadRequest, "email and name are required")
		return
	}

	user, err := s.store.CreateUser(r.Context(), store.User{
		Email:   in.Email,
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		s.storeError(w, err, "User not found")
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.storeError(w, err, "User not found")
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	productID := chi.URLParam(r, "productID")

	if err := s.store.AddFavorite(r.Context(), userID, productID); err != nil {
		s.storeError(w, err, "User or product not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Product added to favorites"})
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	productID := chi.URLParam(r, "productID")

	if err := s.store.RemoveFavorite(r.Context(), userID, productID); err != nil {
		s.storeError(w, err, "User not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed from favorites"})
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.store.ListFavorites(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.storeError(w, err, "User not found")
		return
	}
	s.writeJSON(w, http.StatusOK, favorites)
}
