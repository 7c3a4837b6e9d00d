package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ericoliveiras/artkey-store/internal/design"
	"github.com/ericoliveiras/artkey-store/internal/portal"
)

const TokenHeader = "X-ArtKey-Token"

type PortalHandler struct {
	Portal    *portal.Service
	Log       *logrus.Logger
	PublicURL string
}

func (h *PortalHandler) Show(c *gin.Context) {
	key, err := h.Portal.Get(c, c.Param("slug"))
	if err != nil {
		respondError(c, h.Log, "failed to load portal", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "portal": key})
}

// Update edits title/content; the owner token travels in X-ArtKey-Token.
func (h *PortalHandler) Update(c *gin.Context) {
	var req portal.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid portal data")
		return
	}
	key, err := h.Portal.Edit(c, c.Param("slug"), c.GetHeader(TokenHeader), req)
	if err != nil {
		respondError(c, h.Log, "failed to update portal", err)
		return
	}
	h.Log.WithField("slug", key.Slug).Info("portal updated")
	c.JSON(http.StatusOK, gin.H{"success": true, "portal": key})
}

func (h *PortalHandler) AddEntry(c *gin.Context) {
	var req portal.NewEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid guestbook entry")
		return
	}
	entry, err := h.Portal.AddEntry(c, c.Param("slug"), req)
	if err != nil {
		respondError(c, h.Log, "failed to save guestbook entry", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "entry": entry})
}

// QRCode returns a PNG QR code pointing at the portal.
func (h *PortalHandler) QRCode(c *gin.Context) {
	key, err := h.Portal.Get(c, c.Param("slug"))
	if err != nil {
		respondError(c, h.Log, "failed to load portal", err)
		return
	}
	size := 256
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v >= 64 && v <= 2048 {
		size = v
	}
	png, err := design.QRPNG(portal.URL(h.PublicURL, key.Slug), size)
	if err != nil {
		respondError(c, h.Log, "failed to render qr code", err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
