package services

import (
	"context"

	"gorm.io/gorm"

	"moblind/internal/database"
	"moblind/internal/metrics"
)

// HealthResult reports service liveness
type HealthResult struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// HealthService implements the health check
type HealthService struct {
	db   *gorm.DB
	name string
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB, name string) *HealthService {
	return &HealthService{db: db, name: name}
}

// Check pings the database and refreshes the pool gauges
func (s *HealthService) Check(ctx context.Context) (*HealthResult, error) {
	result := &HealthResult{Status: "healthy", Service: s.name, Database: "ok"}
	if err := database.Ping(s.db); err != nil {
		result.Status = "degraded"
		result.Database = "unreachable"
		return result, nil
	}
	if stats, err := database.GetStats(s.db); err == nil {
		metrics.UpdateDBConnections(stats.InUse, stats.Idle)
	}
	return result, nil
}
