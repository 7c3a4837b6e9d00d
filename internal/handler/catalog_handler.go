package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/database"
	"github.com/ericoliveiras/artkey-store/internal/printspec"
	"github.com/ericoliveiras/artkey-store/internal/store"
)

// CatalogHandler serves the public storefront reads.
type CatalogHandler struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

func (h *CatalogHandler) Health(c *gin.Context) {
	if err := database.HealthCheck(h.DB); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": "database connection failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "artkey-store"})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := store.ListCategories(c, h.DB)
	if err != nil {
		respondError(c, h.Log, "failed to load categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := store.ListProducts(c, h.DB, c.Query("category"))
	if err != nil {
		respondError(c, h.Log, "failed to load products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// ShowProduct returns a product, with its print geometry when it is printable.
func (h *CatalogHandler) ShowProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := store.GetProduct(c, h.DB, id)
	if err != nil {
		respondError(c, h.Log, "failed to load product", err)
		return
	}

	resp := gin.H{"success": true, "product": product}
	spec, err := printspec.ForProduct(c, h.DB, *product)
	switch {
	case err == nil:
		resp["printSpec"] = spec
		resp["boxes"] = spec.Boxes()
	case errors.Is(err, printspec.ErrNotPrintable):
	default:
		respondError(c, h.Log, "failed to resolve print spec", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) ShowPrintSpec(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := store.GetProduct(c, h.DB, id)
	if err != nil {
		respondError(c, h.Log, "failed to load product", err)
		return
	}
	spec, err := printspec.ForProduct(c, h.DB, *product)
	if err != nil {
		respondError(c, h.Log, "failed to resolve print spec", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "printSpec": spec, "boxes": spec.Boxes()})
}

func (h *CatalogHandler) ListPresets(c *gin.Context) {
	presets := make(map[string]printspec.PrintSpec)
	for _, name := range printspec.Presets() {
		presets[name], _ = printspec.Preset(name)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "presets": presets})
}

func (h *CatalogHandler) ShowArtist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	artist, err := store.GetArtist(c, h.DB, id)
	if err != nil {
		respondError(c, h.Log, "failed to load artist", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "artist": artist})
}
