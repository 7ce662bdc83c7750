package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db := newTestDB(t)
	s := NewHealthService(db, "moblind")

	result, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &HealthResult{Status: "healthy", Service: "moblind", Database: "ok"}, result)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	result, err = s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "degraded", result.Status)
	assert.Equal(t, "unreachable", result.Database)
}
