package store

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Review is one user's rating of one product.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"` // 1-5 stars
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewStats summarizes a product's reviews.
type ReviewStats struct {
	TotalReviews       int         `json:"total_reviews"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

// ErrInvalidRating rejects ratings outside 1..5.
var ErrInvalidRating = fmt.Errorf("rating must be between 1 and 5")

/*
CreateReview records a review. The product must exist and each user may
review a product once; a second attempt returns ErrConflict.
*/
func (s *Store) CreateReview(ctx context.Context, r Review) (Review, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return Review{}, ErrInvalidRating
	}
	if _, err := s.GetProduct(ctx, r.ProductID); err != nil {
		return Review{}, err
	}

	reviewed, err := exists(ctx, s.db,
		`SELECT 1 FROM reviews WHERE product_id = ? AND user_id = ?`,
		r.ProductID, r.UserID)
	if err != nil {
		return Review{}, fmt.Errorf("check review: %w", err)
	}
	if reviewed {
		return Review{}, fmt.Errorf("review by user %q: %w", r.UserID, ErrConflict)
	}

	id, err := newID()
	if err != nil {
		return Review{}, err
	}
	r.ID = id
	r.CreatedAt = s.now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, product_id, user_id, user_name, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ProductID, r.UserID, r.UserName, r.Rating, r.Comment, toMillis(r.CreatedAt))
	if err != nil {
		return Review{}, fmt.Errorf("insert review: %w", err)
	}
	return r, nil
}

// ListReviews returns a product's reviews, newest first.
func (s *Store) ListReviews(ctx context.Context, productID string, limit int) ([]Review, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, user_id, user_name, rating, comment, created_at
		 FROM reviews WHERE product_id = ?
		 ORDER BY created_at DESC LIMIT ?`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var (
			r         Review
			createdAt int64
		)
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.UserName,
			&r.Rating, &r.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.CreatedAt = fromMillis(createdAt)
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// GetReviewStats aggregates a product's rating counts and average
// (rounded to one decimal place).
func (s *Store) GetReviewStats(ctx context.Context, productID string) (ReviewStats, error) {
	stats := ReviewStats{
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE product_id = ? GROUP BY rating`,
		productID)
	if err != nil {
		return ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}
	defer rows.Close()

	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return ReviewStats{}, fmt.Errorf("scan review stats: %w", err)
		}
		stats.RatingDistribution[rating] = count
		stats.TotalReviews += count
		sum += rating * count
	}
	if err := rows.Err(); err != nil {
		return ReviewStats{}, err
	}

	if stats.TotalReviews > 0 {
		avg := float64(sum) / float64(stats.TotalReviews)
		stats.AverageRating = math.Round(avg*10) / 10
	}
	return stats, nil
}
