package handler

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // upload formats
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/design"
	"github.com/ericoliveiras/artkey-store/internal/metrics"
	"github.com/ericoliveiras/artkey-store/internal/model"
	"github.com/ericoliveiras/artkey-store/internal/portal"
	"github.com/ericoliveiras/artkey-store/internal/printspec"
	"github.com/ericoliveiras/artkey-store/internal/store"
)

const (
	maxUploadBytes = 25 << 20
	// Renders decode the full bitmap, so the pixel count is capped
	// independently of the compressed file size.
	maxImagePixels = 50_000_000
	previewDPI     = 72
)

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// DesignHandler serves the print editor: drafts, uploads, placement math and
// the PNG/PDF renders.
type DesignHandler struct {
	DB        *gorm.DB
	Log       *logrus.Logger
	UploadDir string
	PublicURL string
}

type draftResponse struct {
	Draft        *model.DesignDraft  `json:"draft"`
	PrintSpec    printspec.PrintSpec `json:"printSpec"`
	Boxes        printspec.Boxes     `json:"boxes"`
	EffectiveDPI float64             `json:"effectiveDpi,omitempty"`
	LowRes       bool                `json:"lowResolution"`
}

func (h *DesignHandler) respondDraft(c *gin.Context, status int, d *model.DesignDraft) {
	product, err := store.GetProduct(c, h.DB, d.ProductID)
	if err != nil {
		respondError(c, h.Log, "failed to load product", err)
		return
	}
	spec, err := printspec.ForProduct(c, h.DB, *product)
	if err != nil {
		respondError(c, h.Log, "failed to resolve print spec", err)
		return
	}

	resp := draftResponse{Draft: d, PrintSpec: spec, Boxes: spec.Boxes()}
	if d.ImageWidthPx > 0 && d.HasPlacement() {
		img := design.Size{Width: float64(d.ImageWidthPx), Height: float64(d.ImageHeightPx)}
		resp.EffectiveDPI = design.EffectiveDPI(img, placementOf(d))
		resp.LowRes = resp.EffectiveDPI < design.MinPrintDPI
	}
	c.JSON(status, gin.H{"success": true, "design": resp})
}

func placementOf(d *model.DesignDraft) printspec.Rect {
	return printspec.Rect{X: d.PlacementX, Y: d.PlacementY, Width: d.PlacementWidth, Height: d.PlacementHeight}
}

func setPlacement(d *model.DesignDraft, r printspec.Rect) {
	d.PlacementX, d.PlacementY, d.PlacementWidth, d.PlacementHeight = r.X, r.Y, r.Width, r.Height
}

type createDraftRequest struct {
	ProductID     uint   `json:"productId" binding:"required"`
	CustomerEmail string `json:"customerEmail" binding:"omitempty,email"`
	FitMode       string `json:"fitMode"`
	Text          string `json:"text" binding:"max=500"`
}

func (h *DesignHandler) CreateDraft(c *gin.Context) {
	var req createDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid design data: "+err.Error())
		return
	}
	mode, err := design.ParseMode(req.FitMode)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	d := &model.DesignDraft{
		ProductID:     req.ProductID,
		CustomerEmail: req.CustomerEmail,
		FitMode:       string(mode),
		Text:          req.Text,
	}
	if err := store.CreateDraft(c, h.DB, d); err != nil {
		respondError(c, h.Log, "failed to create design", err)
		return
	}
	h.respondDraft(c, http.StatusCreated, d)
}

func (h *DesignHandler) GetDraft(c *gin.Context) {
	d, err := store.GetDraft(c, h.DB, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, "failed to load design", err)
		return
	}
	h.respondDraft(c, http.StatusOK, d)
}

type updateDraftRequest struct {
	FitMode   *string         `json:"fitMode"`
	Placement *printspec.Rect `json:"placement"`
	Text      *string         `json:"text" binding:"omitempty,max=500"`
	QRSlug    *string         `json:"qrSlug"`
}

// UpdateDraft saves editor changes. Changing the fit mode without an explicit
// placement re-runs the crop math against the bleed box.
func (h *DesignHandler) UpdateDraft(c *gin.Context) {
	var req updateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid design data: "+err.Error())
		return
	}
	d, err := store.GetDraft(c, h.DB, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, "failed to load design", err)
		return
	}

	if req.FitMode != nil {
		mode, err := design.ParseMode(*req.FitMode)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		d.FitMode = string(mode)
		if req.Placement == nil && d.ImageWidthPx > 0 {
			if err := h.autoPlace(c, d); err != nil {
				respondError(c, h.Log, "failed to place image", err)
				return
			}
		}
	}
	if req.Placement != nil {
		if req.Placement.Width <= 0 || req.Placement.Height <= 0 {
			badRequest(c, "placement must have a positive size")
			return
		}
		setPlacement(d, *req.Placement)
	}
	if req.Text != nil {
		d.Text = *req.Text
	}
	if req.QRSlug != nil {
		if *req.QRSlug != "" {
			var count int64
			if err := h.DB.WithContext(c).Model(&model.ArtKey{}).Where("slug = ?", *req.QRSlug).Count(&count).Error; err != nil {
				respondError(c, h.Log, "failed to check artkey", err)
				return
			}
			if count == 0 {
				badRequest(c, "unknown artkey")
				return
			}
		}
		d.QRSlug = *req.QRSlug
	}

	if err := store.SaveDraft(c, h.DB, d); err != nil {
		respondError(c, h.Log, "failed to save design", err)
		return
	}
	h.respondDraft(c, http.StatusOK, d)
}

// autoPlace fits the draft's image into the product's bleed box.
func (h *DesignHandler) autoPlace(c *gin.Context, d *model.DesignDraft) error {
	product, err := store.GetProduct(c, h.DB, d.ProductID)
	if err != nil {
		return err
	}
	spec, err := printspec.ForProduct(c, h.DB, *product)
	if err != nil {
		return err
	}
	img := design.Size{Width: float64(d.ImageWidthPx), Height: float64(d.ImageHeightPx)}
	p, err := design.Place(img, spec.Boxes().Bleed, design.Mode(d.FitMode))
	if err != nil {
		return err
	}
	setPlacement(d, p.Rect)
	return nil
}

// UploadImage stores the customer's picture under a random name and places
// it with the draft's fit mode.
func (h *DesignHandler) UploadImage(c *gin.Context) {
	d, err := store.GetDraft(c, h.DB, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, "failed to load design", err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "missing image file")
		return
	}
	if file.Size > maxUploadBytes {
		badRequest(c, "image is too large")
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		badRequest(c, "only JPEG and PNG images are accepted")
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, h.Log, "failed to read upload", err)
		return
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		badRequest(c, "file is not a readable image")
		return
	}

	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		badRequest(c, fmt.Sprintf("image must be at most %d megapixels", maxImagePixels/1_000_000))
		return
	}

	name := uuid.NewString() + ext
	path := filepath.Join(h.UploadDir, name)
	if err := c.SaveUploadedFile(file, path); err != nil {
		respondError(c, h.Log, "failed to save image", err)
		return
	}

	old := *d
	d.ImageURL = "/uploads/" + name
	d.ImageWidthPx, d.ImageHeightPx = cfg.Width, cfg.Height
	err = h.autoPlace(c, d)
	if err == nil {
		err = store.SaveDraft(c, h.DB, d)
	}
	if err != nil {
		// The draft keeps its previous image.
		*d = old
		h.removeImage(path)
		respondError(c, h.Log, "failed to save design", err)
		return
	}
	if old.ImageURL != "" {
		h.removeImage(h.imagePath(old.ImageURL))
	}
	h.respondDraft(c, http.StatusOK, d)
}

func (h *DesignHandler) removeImage(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.Log.WithError(err).WithField("file", path).Warn("could not remove image")
	}
}

func (h *DesignHandler) imagePath(url string) string {
	return filepath.Join(h.UploadDir, filepath.Base(url))
}

type placeRequest struct {
	ImageWidth  float64        `json:"imageWidth" binding:"required,gt=0"`
	ImageHeight float64        `json:"imageHeight" binding:"required,gt=0"`
	Frame       printspec.Rect `json:"frame"`
	Mode        string         `json:"mode"`
}

// Place is the stateless crop-fit/fill calculation used by the editor.
func (h *DesignHandler) Place(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid placement data: "+err.Error())
		return
	}
	mode, err := design.ParseMode(req.Mode)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := design.Place(design.Size{Width: req.ImageWidth, Height: req.ImageHeight}, req.Frame, mode)
	if err != nil {
		respondError(c, h.Log, "failed to place image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "placement": p})
}

// render builds the canvas of a draft at dpi, QR code included.
func (h *DesignHandler) render(c *gin.Context, d *model.DesignDraft, dpi int) (*image.RGBA, printspec.PrintSpec, error) {
	product, err := store.GetProduct(c, h.DB, d.ProductID)
	if err != nil {
		return nil, printspec.PrintSpec{}, err
	}
	spec, err := printspec.ForProduct(c, h.DB, *product)
	if err != nil {
		return nil, spec, err
	}
	if dpi <= 0 {
		dpi = spec.DPI
	}

	var src image.Image
	if d.ImageURL != "" {
		f, err := os.Open(h.imagePath(d.ImageURL))
		if err != nil {
			return nil, spec, fmt.Errorf("open design image: %w", err)
		}
		defer f.Close()
		if src, _, err = image.Decode(f); err != nil {
			return nil, spec, fmt.Errorf("decode design image: %w", err)
		}
	}

	canvas, err := design.RenderCanvas(spec, src, placementOf(d), dpi)
	if err != nil {
		return nil, spec, err
	}
	if d.QRSlug != "" {
		if err := design.CompositeQR(canvas, portal.URL(h.PublicURL, d.QRSlug), design.DefaultQRBox(spec, dpi)); err != nil {
			return nil, spec, err
		}
	}
	return canvas, spec, nil
}

// Preview renders a low-resolution PNG of the draft.
func (h *DesignHandler) Preview(c *gin.Context) {
	d, err := store.GetDraft(c, h.DB, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, "failed to load design", err)
		return
	}
	dpi := previewDPI
	if v, err := strconv.Atoi(c.Query("dpi")); err == nil && v > 0 && v <= 150 {
		dpi = v
	}

	canvas, _, err := h.render(c, d, dpi)
	if err == nil {
		var buf bytes.Buffer
		if err = png.Encode(&buf, canvas); err == nil {
			metrics.RecordExport("png", nil)
			c.Data(http.StatusOK, "image/png", buf.Bytes())
			return
		}
	}
	metrics.RecordExport("png", err)
	respondError(c, h.Log, "failed to render preview", err)
}

// ExportPDF renders the draft at print resolution into a PDF.
func (h *DesignHandler) ExportPDF(c *gin.Context) {
	d, err := store.GetDraft(c, h.DB, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, "failed to load design", err)
		return
	}

	canvas, spec, err := h.render(c, d, 0)
	var buf bytes.Buffer
	if err == nil {
		err = design.ExportPDF(&buf, spec, canvas, "design "+d.ID)
	}
	metrics.RecordExport("pdf", err)
	if err != nil {
		respondError(c, h.Log, "failed to export design", err)
		return
	}

	if d.ImageWidthPx > 0 && d.HasPlacement() {
		dpi := design.EffectiveDPI(design.Size{Width: float64(d.ImageWidthPx), Height: float64(d.ImageHeightPx)}, placementOf(d))
		c.Header("X-Effective-DPI", strconv.Itoa(int(dpi)))
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="design-%s.pdf"`, d.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
