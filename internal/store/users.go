package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// User is a storefront account. Favorites holds product IDs.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Favorites []string  `json:"favorites"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUser inserts a new user. Emails are unique; a duplicate returns
// ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	taken, err := exists(ctx, s.db, `SELECT 1 FROM users WHERE email = ?`, u.Email)
	if err != nil {
		return User{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return User{}, fmt.Errorf("user email %q: %w", u.Email, ErrConflict)
	}

	id, err := newID()
	if err != nil {
		return User{}, err
	}
	u.ID = id
	u.CreatedAt = s.now().UTC()
	u.Favorites = []string{}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, phone, address, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.Phone, u.Address, toMillis(u.CreatedAt))
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetUser returns one user with their favorite product IDs.
func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	var (
		u         User
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, phone, address, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.Address, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("select user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id FROM favorites WHERE user_id = ? ORDER BY added_at`, id)
	if err != nil {
		return User{}, fmt.Errorf("select favorites: %w", err)
	}
	defer rows.Close()

	u.Favorites = []string{}
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			return User{}, fmt.Errorf("scan favorite: %w", err)
		}
		u.Favorites = append(u.Favorites, pid)
	}
	return u, rows.Err()
}

// AddFavorite marks a product as one of the user's favorites.
// Adding the same product twice is a no-op.
func (s *Store) AddFavorite(ctx context.Context, userID, productID string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, product_id, added_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, product_id) DO NOTHING`,
		userID, productID, toMillis(s.now()))
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// RemoveFavorite drops a product from the user's favorites.
func (s *Store) RemoveFavorite(ctx context.Context, userID, productID string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND product_id = ?`,
		userID, productID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// ListFavorites resolves the user's favorites to full products.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]Product, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE id IN (SELECT product_id FROM favorites WHERE user_id = ?)`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return collectProducts(rows)
}

func (s *Store) requireUser(ctx context.Context, userID string) error {
	ok, err := exists(ctx, s.db, `SELECT 1 FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
