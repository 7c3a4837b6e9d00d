package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericoliveiras/artkey-store/internal/database/dbtest"
	"github.com/ericoliveiras/artkey-store/internal/model"
)

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	require.NoError(t, CreateCustomer(ctx, db, &model.Customer{Name: "Ana", Email: "ana@example.com"}))

	err := CreateCustomer(ctx, db, &model.Customer{Name: "Other Ana", Email: "  ANA@example.com "})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestFindOrCreateCustomer(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	first, err := FindOrCreateCustomer(ctx, db, model.Customer{Name: "Bo", Email: "bo@example.com"})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	again, err := FindOrCreateCustomer(ctx, db, model.Customer{Email: "BO@example.com", City: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	var stored model.Customer
	require.NoError(t, db.First(&stored, first.ID).Error)
	assert.Equal(t, "Bo", stored.Name, "empty fields must not overwrite")
	assert.Equal(t, "Lisbon", stored.City)
}

func TestDeleteCustomerWithOrders(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	c := model.Customer{Name: "Cy", Email: "cy@example.com"}
	require.NoError(t, CreateCustomer(ctx, db, &c))
	require.NoError(t, db.Create(&model.Order{CustomerID: c.ID, Total: 10, ExternalReference: "order_x"}).Error)

	assert.ErrorIs(t, DeleteCustomer(ctx, db, c.ID), ErrInUse)

	lonely := model.Customer{Name: "Di", Email: "di@example.com"}
	require.NoError(t, CreateCustomer(ctx, db, &lonely))
	require.NoError(t, DeleteCustomer(ctx, db, lonely.ID))
	assert.ErrorIs(t, DeleteCustomer(ctx, db, lonely.ID), ErrNotFound)
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	full := model.ShopCategory{Name: "Cards", Slug: "cards"}
	empty := model.ShopCategory{Name: "Empty", Slug: "empty"}
	require.NoError(t, db.Create(&full).Error)
	require.NoError(t, db.Create(&empty).Error)
	require.NoError(t, db.Create(&model.Product{CategoryID: full.ID, Name: "Card", Slug: "card", Price: 3}).Error)

	assert.ErrorIs(t, DeleteCategory(ctx, db, full.ID), ErrInUse)
	assert.NoError(t, DeleteCategory(ctx, db, empty.ID))
	assert.ErrorIs(t, DeleteCategory(ctx, db, 999), ErrNotFound)
}

func TestDeleteArtistWithAssets(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	a := model.Artist{Name: "Eva"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&model.Asset{ArtistID: a.ID, Title: "Sky", ImageURL: "/x.jpg"}).Error)

	assert.ErrorIs(t, DeleteArtist(ctx, db, a.ID), ErrInUse)

	got, err := GetArtist(ctx, db, a.ID)
	require.NoError(t, err)
	assert.Len(t, got.Assets, 1)
}

func TestListProducts(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	cards := model.ShopCategory{Name: "Cards", Slug: "cards"}
	prints := model.ShopCategory{Name: "Prints", Slug: "prints"}
	require.NoError(t, db.Create(&cards).Error)
	require.NoError(t, db.Create(&prints).Error)
	require.NoError(t, db.Create(&model.Product{CategoryID: cards.ID, Name: "B card", Slug: "b", Price: 1, Available: true}).Error)
	require.NoError(t, db.Create(&model.Product{CategoryID: cards.ID, Name: "A card", Slug: "a", Price: 1, Available: true}).Error)
	hidden := model.Product{CategoryID: prints.ID, Name: "Hidden", Slug: "h", Price: 1, Available: false}
	require.NoError(t, db.Create(&hidden).Error)

	var stored model.Product
	require.NoError(t, db.First(&stored, hidden.ID).Error)
	assert.False(t, stored.Available, "unavailable products are created as such")

	all, err := ListProducts(ctx, db, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A card", all[0].Name)

	onlyPrints, err := ListProducts(ctx, db, "prints")
	require.NoError(t, err)
	assert.Empty(t, onlyPrints)

	_, err = ListProducts(ctx, db, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	avail, err := AvailableProducts(ctx, db, []uint{hidden.ID, all[0].ID})
	require.NoError(t, err)
	assert.Len(t, avail, 1)
}

func TestGetOrderByReferenceChecksEmail(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	c := model.Customer{Name: "Fa", Email: "fa@example.com"}
	require.NoError(t, CreateCustomer(ctx, db, &c))
	require.NoError(t, db.Create(&model.Order{CustomerID: c.ID, Total: 5, ExternalReference: "order_1"}).Error)

	o, err := GetOrderByReference(ctx, db, "order_1", "FA@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, o.CustomerID)

	_, err = GetOrderByReference(ctx, db, "order_1", "someone@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetOrderByReference(ctx, db, "order_2", "fa@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
