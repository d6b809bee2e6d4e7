package api

import (
	"net/http"
)

func (s *Server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetDashboardStats(r.Context())
	if err != nil {
		s.storeError(w, err, "stats unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": Version,
		"cache":   s.cacheStats(),
	})
}

func (s *Server) cachePerformance(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cacheStats())
}

func (s *Server) cacheStats() map[string]any {
	stats := map[string]any{
		"enabled":  s.cache.Enabled(),
		"counters": s.counters.Snapshot(),
	}
	if entries, err := s.cache.Stats(); err == nil {
		stats["entries"] = entries
	}
	return stats
}

// clearCache busts cached responses, optionally restricted to a logical
// prefix (?prefix=products). No prefix clears everything.
func (s *Server) clearCache(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	s.cache.InvalidatePrefix(prefix)
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "prefix": prefix})
}

func (s *Server) initSampleData(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.SeedSampleData(r.Context())
	if err != nil {
		s.storeError(w, err, "seed failed")
		return
	}
	if n == 0 {
		s.writeJSON(w, http.StatusOK, map[string]string{"message": "Sample data already exists"})
		return
	}

	s.cache.InvalidatePrefix("products")
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Sample data initialized successfully",
		"products_created": n,
	})
}
