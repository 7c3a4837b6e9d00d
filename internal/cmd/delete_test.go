package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericoliveiras/artkey-store/internal/database/dbtest"
	"github.com/ericoliveiras/artkey-store/internal/model"
	"github.com/ericoliveiras/artkey-store/internal/store"
)

func TestRunDelete(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	used := model.ShopCategory{Name: "Cards", Slug: "cards"}
	unused := model.ShopCategory{Name: "Old", Slug: "old"}
	require.NoError(t, db.Create(&used).Error)
	require.NoError(t, db.Create(&unused).Error)
	require.NoError(t, db.Create(&model.Product{CategoryID: used.ID, Name: "Card", Slug: "card", Price: 2}).Error)

	var out bytes.Buffer
	err := runDelete(ctx, db, &out, "category", "1")
	assert.ErrorIs(t, err, store.ErrInUse)
	assert.Empty(t, out.String())

	require.NoError(t, runDelete(ctx, db, &out, "category", "2"))
	assert.Equal(t, "category 2 deleted\n", out.String())

	assert.ErrorIs(t, runDelete(ctx, db, &out, "customer", "42"), store.ErrNotFound)
	assert.Error(t, runDelete(ctx, db, &out, "artist", "abc"))
	assert.Error(t, runDelete(ctx, db, &out, "product", "1"))
}

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{{"serve"}, {"migrate"}, {"seed"}, {"category", "delete"}, {"customer", "delete"}, {"artist", "delete"}} {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}
