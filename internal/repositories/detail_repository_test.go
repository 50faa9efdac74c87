package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userpanel/internal/models"
)

func TestDetailRepository_UpsertInsertsThenUpdates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDetailRepository(db)
	ctx := context.Background()

	users := seedUsers(t, db, 1)
	userID := users[0].ID

	err := repo.Upsert(ctx, &models.Detail{
		UserID: userID,
		Key:    models.DetailKeyFullName,
		Value:  "John D. Smith",
		Type:   "bio",
	})
	require.NoError(t, err)

	// Повторная запись того же ключа не создает дубликат
	err = repo.Upsert(ctx, &models.Detail{
		UserID: userID,
		Key:    models.DetailKeyFullName,
		Value:  "Jane D. Smith",
		Type:   "bio",
	})
	require.NoError(t, err)

	details, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Jane D. Smith", details[0].Value)
}

func TestDetailRepository_UpsertSeparateKeys(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDetailRepository(db)
	ctx := context.Background()

	users := seedUsers(t, db, 1)
	userID := users[0].ID

	require.NoError(t, repo.Upsert(ctx, &models.Detail{
		UserID: userID, Key: models.DetailKeyFullName, Value: "John D. Smith",
	}))
	require.NoError(t, repo.Upsert(ctx, &models.Detail{
		UserID: userID, Key: models.DetailKeyGender, Value: "male",
	}))

	details, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, details, 2)
}

func TestDetailRepository_KeysIsolatedPerUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDetailRepository(db)
	ctx := context.Background()

	users := seedUsers(t, db, 2)

	require.NoError(t, repo.Upsert(ctx, &models.Detail{
		UserID: users[0].ID, Key: models.DetailKeyGender, Value: "male",
	}))
	require.NoError(t, repo.Upsert(ctx, &models.Detail{
		UserID: users[1].ID, Key: models.DetailKeyGender, Value: "female",
	}))

	first, err := repo.FindByUser(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "male", first[0].Value)

	second, err := repo.FindByUser(ctx, users[1].ID)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "female", second[0].Value)
}

