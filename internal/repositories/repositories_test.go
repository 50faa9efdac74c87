package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"userpanel/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Detail{}, &models.Upload{})
	require.NoError(t, err)

	return db
}

func seedUsers(t *testing.T, db *gorm.DB, count int) []models.User {
	t.Helper()

	users := make([]models.User, 0, count)
	for i := 1; i <= count; i++ {
		u := models.User{
			Prefixname: models.PrefixMr,
			Firstname:  fmt.Sprintf("First%d", i),
			Middlename: "Middle",
			Lastname:   fmt.Sprintf("Last%d", i),
			Username:   fmt.Sprintf("user%d", i),
			Email:      fmt.Sprintf("user%d@example.com", i),
			Password:   "hashed-password",
		}
		require.NoError(t, db.Create(&u).Error)
		users = append(users, u)
	}
	return users
}
