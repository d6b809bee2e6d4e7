package store

import (
	"context"
	"database/sql"
	"fmt"
)

// CategoryCount is one row of the catalog-by-category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// PriceStats summarizes catalog pricing.
type PriceStats struct {
	Average float64 `json:"avg_price"`
	Min     float64 `json:"min_price"`
	Max     float64 `json:"max_price"`
}

// DashboardStats is the operator-facing overview of the storefront.
type DashboardStats struct {
	TotalProducts    int             `json:"total_products"`
	FeaturedProducts int             `json:"featured_products"`
	ByCategory       []CategoryCount `json:"by_category"`
	TotalUsers       int             `json:"total_users"`
	ActiveCarts      int             `json:"active_carts"`
	Pricing          PriceStats      `json:"pricing"`
}

// GetDashboardStats gathers counts across the whole store. An active
// cart is one holding at least one item.
func (s *Store) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	stats := DashboardStats{ByCategory: []CategoryCount{}}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM products`, &stats.TotalProducts},
		{`SELECT COUNT(*) FROM products WHERE featured`, &stats.FeaturedProducts},
		{`SELECT COUNT(*) FROM users`, &stats.TotalUsers},
		{`SELECT COUNT(DISTINCT cart_id) FROM cart_items`, &stats.ActiveCarts},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return DashboardStats{}, fmt.Errorf("dashboard count: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM products GROUP BY category ORDER BY COUNT(*) DESC`)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return DashboardStats{}, fmt.Errorf("scan category count: %w", err)
		}
		stats.ByCategory = append(stats.ByCategory, cc)
	}
	if err := rows.Err(); err != nil {
		return DashboardStats{}, err
	}

	// Aggregates over an empty catalog come back NULL.
	var avg, min, max sql.NullFloat64
	err = s.db.QueryRowContext(ctx,
		`SELECT AVG(price), MIN(price), MAX(price) FROM products`).
		Scan(&avg, &min, &max)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard pricing: %w", err)
	}
	stats.Pricing = PriceStats{Average: avg.Float64, Min: min.Float64, Max: max.Float64}
	return stats, nil
}
