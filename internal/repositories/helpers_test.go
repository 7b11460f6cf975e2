package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createUser(t *testing.T, repo *PostgresUserRepository, username string) *models.User {
	t.Helper()
	u := &models.User{
		Email:          username + "@gmail.com",
		Username:       username,
		PasswordDigest: "OIUYH" + username,
		Location:       &models.Location{City: "New York", State: "NY"},
	}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}
