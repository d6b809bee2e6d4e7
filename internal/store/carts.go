package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CartItem is one line in a cart. Items for the same product but a
// different selected color stay separate.
type CartItem struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Quantity      int       `json:"quantity"`
	SelectedColor string    `json:"selected_color"`
	AddedAt       time.Time `json:"added_at"`
}

// Cart tracks a shopper's pending items, keyed by a session ID so
// guests get a cart without an account.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id,omitempty"`
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// GetOrCreateCart returns the cart for a session, creating an empty one
// on first sight.
func (s *Store) GetOrCreateCart(ctx context.Context, sessionID string) (Cart, error) {
	cart, err := s.getCart(ctx, sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Cart{}, err
	}

	id, err := newID()
	if err != nil {
		return Cart{}, err
	}
	now := s.now().UTC()
	cart = Cart{
		ID:        id,
		SessionID: sessionID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO carts (id, user_id, session_id, created_at, updated_at)
		 VALUES (?, NULL, ?, ?, ?)`,
		cart.ID, cart.SessionID, toMillis(now), toMillis(now))
	if err != nil {
		return Cart{}, fmt.Errorf("insert cart: %w", err)
	}
	return cart, nil
}

func (s *Store) getCart(ctx context.Context, sessionID string) (Cart, error) {
	var (
		cart      Cart
		userID    sql.NullString
		createdAt int64
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, session_id, created_at, updated_at
		 FROM carts WHERE session_id = ?`, sessionID).
		Scan(&cart.ID, &userID, &cart.SessionID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Cart{}, ErrNotFound
	}
	if err != nil {
		return Cart{}, fmt.Errorf("select cart: %w", err)
	}
	cart.UserID = userID.String
	cart.CreatedAt = fromMillis(createdAt)
	cart.UpdatedAt = fromMillis(updatedAt)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, quantity, selected_color, added_at
		 FROM cart_items WHERE cart_id = ? ORDER BY added_at`, cart.ID)
	if err != nil {
		return Cart{}, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []CartItem{}
	for rows.Next() {
		var (
			item    CartItem
			addedAt int64
		)
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity,
			&item.SelectedColor, &addedAt); err != nil {
			return Cart{}, fmt.Errorf("scan cart item: %w", err)
		}
		item.AddedAt = fromMillis(addedAt)
		cart.Items = append(cart.Items, item)
	}
	return cart, rows.Err()
}

/*
AddCartItem puts a product in the session's cart. When the cart already
holds the same product in the same color, the quantities merge instead
of adding a second line. The product must exist.
*/
func (s *Store) AddCartItem(ctx context.Context, sessionID, productID string, quantity int, selectedColor string) (Cart, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return Cart{}, err
	}
	if quantity <= 0 {
		quantity = 1
	}

	cart, err := s.GetOrCreateCart(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}

	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = quantity + ?
		 WHERE cart_id = ? AND product_id = ? AND selected_color = ?`,
		quantity, cart.ID, productID, selectedColor)
	if err != nil {
		return Cart{}, fmt.Errorf("merge cart item: %w", err)
	}
	merged, err := res.RowsAffected()
	if err != nil {
		return Cart{}, err
	}

	if merged == 0 {
		itemID, err := newID()
		if err != nil {
			return Cart{}, err
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO cart_items (id, cart_id, product_id, quantity, selected_color, added_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			itemID, cart.ID, productID, quantity, selectedColor, toMillis(now))
		if err != nil {
			return Cart{}, fmt.Errorf("insert cart item: %w", err)
		}
	}

	if err := s.touchCart(ctx, cart.ID, now); err != nil {
		return Cart{}, err
	}
	return s.getCart(ctx, sessionID)
}

// RemoveCartItem drops one line from the session's cart.
func (s *Store) RemoveCartItem(ctx context.Context, sessionID, itemID string) (Cart, error) {
	cart, err := s.getCart(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = ? AND id = ?`, cart.ID, itemID)
	if err != nil {
		return Cart{}, fmt.Errorf("delete cart item: %w", err)
	}
	if err := s.touchCart(ctx, cart.ID, s.now().UTC()); err != nil {
		return Cart{}, err
	}
	return s.getCart(ctx, sessionID)
}

// ClearCart empties the session's cart. Clearing an unknown session is
// a no-op, matching "the cart is already empty".
func (s *Store) ClearCart(ctx context.Context, sessionID string) error {
	cart, err := s.getCart(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = ?`, cart.ID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	return s.touchCart(ctx, cart.ID, s.now().UTC())
}

func (s *Store) touchCart(ctx context.Context, cartID string, now time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE carts SET updated_at = ? WHERE id = ?`, toMillis(now), cartID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}
