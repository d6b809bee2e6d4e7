package store

import (
	"context"
	"fmt"
)

// SeedSampleData loads the demo catalog. It is idempotent: when any
// products already exist, nothing is inserted and the count is 0.
func (s *Store) SeedSampleData(ctx context.Context) (int, error) {
	populated, err := exists(ctx, s.db, `SELECT 1 FROM products LIMIT 1`)
	if err != nil {
		return 0, fmt.Errorf("check catalog: %w", err)
	}
	if populated {
		return 0, nil
	}

	samples := []Product{
		{
			Name:        "MacBook Pro M3",
			Description: "Laptop cao cấp với chip M3 mạnh mẽ, màn hình Retina 14 inch tuyệt đẹp",
			Price:       29999000,
			Category:    "Laptop",
			ProductType: "laptop",
			Colors:      []string{"#C0C0C0", "#222222", "#FFD700"},
			Stock:       25,
			Featured:    true,
		},
		{
			Name:        "iPhone 15 Pro",
			Description: "Smartphone flagship với camera Pro, chip A17 Pro và thiết kế titanium",
			Price:       26999000,
			Category:    "Smartphone",
			ProductType: "phone",
			Colors:      []string{"#C0C0C0", "#222222", "#0066CC", "#FFD700"},
			Stock:       50,
			Featured:    true,
		},
		{
			Name:        "AirPods Pro (2nd Gen)",
			Description: "Tai nghe không dây cao cấp với chống ồn chủ động và âm thanh không gian",
			Price:       5999000,
			Category:    "Audio",
			ProductType: "headphones",
			Colors:      []string{"#FFFFFF", "#222222"},
			Stock:       100,
			Featured:    true,
		},
		{
			Name:        "Apple Watch Series 9",
			Description: "Đồng hồ thông minh với tính năng sức khỏe tiên tiến và màn hình Always-On",
			Price:       8999000,
			Category:    "Wearable",
			ProductType: "watch",
			Colors:      []string{"#C0C0C0", "#222222", "#FFD700", "#CC0000"},
			Stock:       75,
			Featured:    true,
		},
	}

	for _, p := range samples {
		if _, err := s.CreateProduct(ctx, p); err != nil {
			return 0, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}
	return len(samples), nil
}
