package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericoliveiras/artkey-store/internal/model"
	"github.com/ericoliveiras/artkey-store/internal/printspec"
)

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestListCategoriesAndProducts(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats struct {
		Categories []model.ShopCategory `json:"categories"`
	}
	decode(t, w, &cats)
	require.Len(t, cats.Categories, 2)
	assert.Equal(t, "cards", cats.Categories[0].Slug)

	w = e.do(http.MethodGet, "/api/products?category=gifts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var prods struct {
		Products []model.Product `json:"products"`
	}
	decode(t, w, &prods)
	require.Len(t, prods.Products, 2)
	assert.Equal(t, "ArtKey Portal", prods.Products[0].Name)

	w = e.do(http.MethodGet, "/api/products?category=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShowProduct(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, urlf("/api/products/%d", e.catalog.card.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Product   model.Product        `json:"product"`
		PrintSpec *printspec.PrintSpec `json:"printSpec"`
		Boxes     *printspec.Boxes     `json:"boxes"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "square-card", resp.Product.Slug)
	require.NotNil(t, resp.PrintSpec)
	assert.InDelta(t, 20.0, resp.PrintSpec.TrimWidthMM, 1e-9)
	require.NotNil(t, resp.Boxes)
	assert.InDelta(t, 22.0, resp.Boxes.Bleed.Width, 1e-9)
	assert.Equal(t, 260, resp.Boxes.BleedPx.Width)

	w = e.do(http.MethodGet, urlf("/api/products/%d", e.catalog.mug.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "printSpec")

	w = e.do(http.MethodGet, "/api/products/424242", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShowPrintSpec(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, urlf("/api/products/%d/printspec", e.catalog.print.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		PrintSpec printspec.PrintSpec `json:"printSpec"`
	}
	decode(t, w, &resp)
	assert.InDelta(t, 210.0, resp.PrintSpec.TrimWidthMM, 1e-9)
	assert.Equal(t, 1, resp.PrintSpec.Pages)

	w = e.do(http.MethodGet, urlf("/api/products/%d/printspec", e.catalog.mug.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPresets(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/api/printspec/presets", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Presets map[string]printspec.PrintSpec `json:"presets"`
	}
	decode(t, w, &resp)
	require.Contains(t, resp.Presets, "card-5x7")
	assert.InDelta(t, 127.0, resp.Presets["card-5x7"].TrimWidthMM, 1e-9)
}

func TestShowArtist(t *testing.T) {
	e := newTestEnv(t)
	artist := model.Artist{Name: "Studio Aurora"}
	require.NoError(t, e.db.Create(&artist).Error)
	require.NoError(t, e.db.Create(&model.Asset{ArtistID: artist.ID, Title: "Fern", ImageURL: "/fern.jpg"}).Error)

	w := e.do(http.MethodGet, urlf("/api/artists/%d", artist.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Artist model.Artist `json:"artist"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Artist.Assets, 1)
	assert.Equal(t, "Fern", resp.Artist.Assets[0].Title)
}
