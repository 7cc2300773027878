package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"storefront-service/internal/models"
)

// Runs against a real database only when TEST_DATABASE_URL is set
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping postgres store tests. Set TEST_DATABASE_URL to run")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SessionRecord{}))

	wipe := func() { db.Where("1 = 1").Delete(&models.SessionRecord{}) }
	wipe()
	t.Cleanup(wipe)
	return NewPostgresStore(db)
}

func TestPostgresStore(t *testing.T) {
	store := newTestPostgresStore(t)

	exerciseStore(t, store)
}

func TestPostgresStore_UpsertKeepsOneRow(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()
	sessionID := uuid.New().String()

	for _, coupon := range []string{"HEMAT10", "DISKON20", "GRATISONGKIR"} {
		require.NoError(t, store.Set(ctx, sessionID, "coupon", []byte(coupon)))
	}

	var count int64
	require.NoError(t, store.db.Model(&models.SessionRecord{}).Where("session_id = ?", sessionID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	value, err := store.Get(ctx, sessionID, "coupon")
	require.NoError(t, err)
	assert.Equal(t, "GRATISONGKIR", string(value))
}
