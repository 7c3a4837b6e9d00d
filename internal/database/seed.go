package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/model"
)

// Seed inserts the starter catalog. Rows are matched on their unique keys so
// running it twice is harmless.
func Seed(db *gorm.DB, log *logrus.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		cards := model.ShopCategory{Name: "Greeting Cards", Slug: "cards", SortOrder: 1}
		prints := model.ShopCategory{Name: "Art Prints", Slug: "prints", SortOrder: 2}
		portals := model.ShopCategory{Name: "ArtKey Portals", Slug: "artkeys", SortOrder: 3}
		for _, c := range []*model.ShopCategory{&cards, &prints, &portals} {
			if err := tx.Where(model.ShopCategory{Slug: c.Slug}).FirstOrCreate(c).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", c.Slug, err)
			}
		}

		gelato := []model.GelatoProduct{
			{
				ProductUID:  "cards_pf_a6_pt_350-lb-cover-coated-silk_cl_4-4_ver",
				Title:       "A6 folded card",
				WidthMM:     105,
				HeightMM:    148,
				BleedMM:     3,
				SafeMM:      4,
				Orientation: "portrait",
				Pages:       2,
			},
			{
				ProductUID:  "flat_product_pf_a4_pt_200-gsm-uncoated_cl_4-0_hor",
				Title:       "A4 art print",
				WidthMM:     210,
				HeightMM:    297,
				BleedMM:     4,
				SafeMM:      5,
				Orientation: "landscape",
				Pages:       1,
			},
		}
		for i := range gelato {
			if err := tx.Where(model.GelatoProduct{ProductUID: gelato[i].ProductUID}).FirstOrCreate(&gelato[i]).Error; err != nil {
				return fmt.Errorf("seed gelato product: %w", err)
			}
		}

		artist := model.Artist{Name: "Studio Aurora", Bio: "Watercolour botanicals."}
		if err := tx.Where(model.Artist{Name: artist.Name}).FirstOrCreate(&artist).Error; err != nil {
			return fmt.Errorf("seed artist: %w", err)
		}
		asset := model.Asset{ArtistID: artist.ID, Title: "Fern", ImageURL: "/static/assets/fern.jpg", WidthPx: 3508, HeightPx: 4961}
		if err := tx.Where(model.Asset{ArtistID: artist.ID, Title: asset.Title}).FirstOrCreate(&asset).Error; err != nil {
			return fmt.Errorf("seed asset: %w", err)
		}

		products := []model.Product{
			{CategoryID: cards.ID, Name: "Custom A6 Card", Slug: "custom-a6-card", Price: 4.50, Available: true,
				Kind: model.KindCard, GelatoProductUID: gelato[0].ProductUID},
			{CategoryID: cards.ID, Name: "Custom 5x7 Card", Slug: "custom-5x7-card", Price: 5.90, Available: true,
				Kind: model.KindCard, PrintPreset: "card-5x7"},
			{CategoryID: prints.ID, ArtistID: &artist.ID, Name: "Fern Print A4", Slug: "fern-print-a4", Price: 24.00,
				Available: true, Kind: model.KindPrint, GelatoProductUID: gelato[1].ProductUID, ImageURL: asset.ImageURL},
			{CategoryID: portals.ID, Name: "ArtKey Portal", Slug: "artkey-portal", Price: 9.00, Available: true,
				Kind: model.KindArtKey},
		}
		for i := range products {
			if err := tx.Where(model.Product{Slug: products[i].Slug}).FirstOrCreate(&products[i]).Error; err != nil {
				return fmt.Errorf("seed product %s: %w", products[i].Slug, err)
			}
		}

		log.WithField("products", len(products)).Info("catalog seeded")
		return nil
	})
}
