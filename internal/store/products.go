package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Product is one catalog item. Colors and Images are stored as JSON
// arrays in SQLite.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ProductType string    `json:"product_type"` // laptop, phone, headphones, watch
	Colors      []string  `json:"colors"`
	ModelURL    string    `json:"model_url,omitempty"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductUpdate carries a partial update; nil fields are left alone.
type ProductUpdate struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	ProductType *string   `json:"product_type"`
	Colors      *[]string `json:"colors"`
	ModelURL    *string   `json:"model_url"`
	Images      *[]string `json:"images"`
	Stock       *int      `json:"stock"`
	Featured    *bool     `json:"featured"`
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Category    string
	ProductType string
	Featured    *bool
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	Limit       int
}

const productColumns = `id, name, description, price, category, product_type,
	colors, model_url, images, stock, featured, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var (
		p         Product
		colors    string
		images    string
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.ProductType, &colors, &p.ModelURL, &images, &p.Stock, &p.Featured,
		&createdAt, &updatedAt)
	if err != nil {
		return Product{}, err
	}
	if err := json.Unmarshal([]byte(colors), &p.Colors); err != nil {
		return Product{}, fmt.Errorf("decode colors: %w", err)
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return Product{}, fmt.Errorf("decode images: %w", err)
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()
	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func encodeStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return string(raw)
}

// CreateProduct inserts a new catalog item and returns it with its
// generated identifier and timestamps filled in.
func (s *Store) CreateProduct(ctx context.Context, p Product) (Product, error) {
	id, err := newID()
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt
	if p.Colors == nil {
		p.Colors = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.ProductType,
		encodeStrings(p.Colors), p.ModelURL, encodeStrings(p.Images),
		p.Stock, p.Featured, toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// GetProduct returns one product or ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, id string) (Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

// ListProducts returns catalog items matching the filter, newest first.
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]Product, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.ProductType != "" {
		where = append(where, "product_type = ?")
		args = append(args, f.ProductType)
	}
	if f.Featured != nil {
		where = append(where, "featured = ?")
		args = append(args, *f.Featured)
	}
	if f.Search != "" {
		needle := "%" + f.Search + "%"
		where = append(where, "(name LIKE ? OR description LIKE ? OR category LIKE ?)")
		args = append(args, needle, needle, needle)
	}
	if f.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *f.MaxPrice)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY created_at DESC LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// UpdateProduct applies the non-nil fields of u and bumps updated_at.
func (s *Store) UpdateProduct(ctx context.Context, id string, u ProductUpdate) (Product, error) {
	set := []string{"updated_at = ?"}
	args := []any{toMillis(s.now())}

	if u.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Price != nil {
		set = append(set, "price = ?")
		args = append(args, *u.Price)
	}
	if u.Category != nil {
		set = append(set, "category = ?")
		args = append(args, *u.Category)
	}
	if u.ProductType != nil {
		set = append(set, "product_type = ?")
		args = append(args, *u.ProductType)
	}
	if u.Colors != nil {
		set = append(set, "colors = ?")
		args = append(args, encodeStrings(*u.Colors))
	}
	if u.ModelURL != nil {
		set = append(set, "model_url = ?")
		args = append(args, *u.ModelURL)
	}
	if u.Images != nil {
		set = append(set, "images = ?")
		args = append(args, encodeStrings(*u.Images))
	}
	if u.Stock != nil {
		set = append(set, "stock = ?")
		args = append(args, *u.Stock)
	}
	if u.Featured != nil {
		set = append(set, "featured = ?")
		args = append(args, *u.Featured)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes one product or returns ErrNotFound.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

/*
Recommendations returns up to limit products related to the given one:
same category within ±30% of its price first, topped up with products
from other categories in the same price range.
*/
func (s *Store) Recommendations(ctx context.Context, productID string, limit int) ([]Product, error) {
	current, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 4
	}

	spread := current.Price * 0.3
	minPrice := current.Price - spread
	maxPrice := current.Price + spread

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE id != ? AND category = ? AND price BETWEEN ? AND ?
		 LIMIT ?`,
		productID, current.Category, minPrice, maxPrice, limit)
	if err != nil {
		return nil, fmt.Errorf("recommend by category: %w", err)
	}
	recs, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	if remaining := limit - len(recs); remaining > 0 {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+productColumns+` FROM products
			 WHERE id != ? AND category != ? AND price BETWEEN ? AND ?
			 LIMIT ?`,
			productID, current.Category, minPrice, maxPrice, remaining)
		if err != nil {
			return nil, fmt.Errorf("recommend by price: %w", err)
		}
		more, err := collectProducts(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, more...)
	}
	return recs, nil
}

/*
Trending ranks products by review activity and featured status:
two points per review plus five for being featured, ties broken by
recency.
*/
func (s *Store) Trending(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 8
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.description, p.price, p.category, p.product_type,
		        p.colors, p.model_url, p.images, p.stock, p.featured,
		        p.created_at, p.updated_at
		 FROM products p
		 LEFT JOIN reviews r ON r.product_id = p.id
		 GROUP BY p.id
		 ORDER BY COUNT(r.id) * 2 + CASE WHEN p.featured THEN 5 ELSE 0 END DESC,
		          p.created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("trending products: %w", err)
	}
	return collectProducts(rows)
}
