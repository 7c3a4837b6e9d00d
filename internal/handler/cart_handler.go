package handler

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/metrics"
	"github.com/ericoliveiras/artkey-store/internal/model"
	"github.com/ericoliveiras/artkey-store/internal/portal"
	"github.com/ericoliveiras/artkey-store/internal/store"
)

const (
	SessionName    = "artkey-store-session"
	CartSessionKey = "shopping_cart"

	// totalTolerance absorbs float rounding between the client total and ours.
	totalTolerance = 0.01

	// maxLineQuantity caps a single cart line; each ArtKey unit costs a bcrypt
	// hash inside the checkout transaction.
	maxLineQuantity = 20
)

func init() {
	gob.Register(map[uint]int{})
}

// CartItemView is one cart line with its current price.
type CartItemView struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
	Subtotal float64       `json:"subtotal"`
}

// CheckoutRequest mirrors the JSON the storefront posts at checkout.
type CheckoutRequest struct {
	Name          string          `json:"name" binding:"required,max=120"`
	Email         string          `json:"email" binding:"required,email"`
	Phone         string          `json:"phone" binding:"max=30"`
	Street        string          `json:"street" binding:"required"`
	City          string          `json:"city" binding:"required"`
	PostalCode    string          `json:"postalCode" binding:"required,max=20"`
	Country       string          `json:"country" binding:"required,len=2"`
	ExpectedTotal float64         `json:"expectedTotal" binding:"required,gt=0"`
	Designs       map[uint]string `json:"designs"` // product id -> design draft id
}

// IssuedArtKey is returned once at checkout; the owner token is not stored in clear.
type IssuedArtKey struct {
	Slug       string    `json:"slug"`
	URL        string    `json:"url"`
	OwnerToken string    `json:"ownerToken"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// CartHandler groups the cart and checkout handlers.
type CartHandler struct {
	DB        *gorm.DB
	Store     sessions.Store
	Portal    *portal.Service
	Log       *logrus.Logger
	PublicURL string
}

func (h *CartHandler) session(c *gin.Context) *sessions.Session {
	// A tampered or stale cookie yields a fresh session, which is what we want.
	session, _ := h.Store.Get(c.Request, SessionName)
	return session
}

func cartFrom(session *sessions.Session) map[uint]int {
	cart, ok := session.Values[CartSessionKey].(map[uint]int)
	if !ok {
		cart = make(map[uint]int)
	}
	return cart
}

func (h *CartHandler) saveCart(c *gin.Context, session *sessions.Session, cart map[uint]int) error {
	session.Values[CartSessionKey] = cart
	return session.Save(c.Request, c.Writer)
}

func parseID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id64 == 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return uint(id64), true
}

// AddToCart adds one unit of a product and returns the new item count.
func (h *CartHandler) AddToCart(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}

	var product model.Product
	if err := h.DB.WithContext(c).Where("id = ? AND available = ?", productID, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "product not found or unavailable"})
			return
		}
		respondError(c, h.Log, "failed to load product", err)
		return
	}

	session := h.session(c)
	cart := cartFrom(session)
	if cart[productID] >= maxLineQuantity {
		badRequest(c, fmt.Sprintf("at most %d of one product per order", maxLineQuantity))
		return
	}
	cart[productID]++
	if err := h.saveCart(c, session, cart); err != nil {
		respondError(c, h.Log, "failed to save cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "item added",
		"newCartCount": cartQuantity(cart),
	})
}

// DecreaseQuantity removes one unit; the line disappears at zero.
func (h *CartHandler) DecreaseQuantity(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}
	session := h.session(c)
	cart := cartFrom(session)

	if quantity, exists := cart[productID]; exists {
		if quantity > 1 {
			cart[productID]--
		} else {
			delete(cart, productID)
		}
		if err := h.saveCart(c, session, cart); err != nil {
			respondError(c, h.Log, "failed to update cart", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "quantity updated", "newCartCount": cartQuantity(cart)})
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}
	session := h.session(c)
	cart := cartFrom(session)
	if len(cart) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart already empty", "newCartCount": 0})
		return
	}

	delete(cart, productID)
	if err := h.saveCart(c, session, cart); err != nil {
		respondError(c, h.Log, "failed to update cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "item removed", "newCartCount": cartQuantity(cart)})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	session := h.session(c)
	if err := h.saveCart(c, session, make(map[uint]int)); err != nil {
		respondError(c, h.Log, "failed to clear cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart cleared", "newCartCount": 0})
}

// ShowCart lists the cart with current prices. Lines whose product is gone
// or unavailable are left out of the view but kept in the session.
func (h *CartHandler) ShowCart(c *gin.Context) {
	cart := cartFrom(h.session(c))
	items, total, err := h.priceCart(c, cart)
	if err != nil {
		respondError(c, h.Log, "failed to load cart products", err)
		return
	}

	visible := make(map[uint]int, len(items))
	for _, it := range items {
		visible[it.Product.ID] = it.Quantity
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"items":         items,
		"total":         total,
		"cartItemCount": cartQuantity(visible),
	})
}

// priceCart loads the available products of cart and returns the priced lines,
// sorted by product name, and their total.
func (h *CartHandler) priceCart(c *gin.Context, cart map[uint]int) ([]CartItemView, float64, error) {
	ids := make([]uint, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	products, err := store.AvailableProducts(c, h.DB, ids)
	if err != nil {
		return nil, 0, err
	}

	var total float64
	items := make([]CartItemView, 0, len(products))
	for id, quantity := range cart {
		product, found := products[id]
		if !found {
			continue
		}
		subtotal := roundCents(product.Price * float64(quantity))
		items = append(items, CartItemView{Product: product, Quantity: quantity, Subtotal: subtotal})
		total += subtotal
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Product.Name < items[j].Product.Name
	})
	return items, roundCents(total), nil
}

// Checkout turns the session cart into a pending order.
func (h *CartHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid checkout data", "details": err.Error()})
		return
	}

	session := h.session(c)
	cart := cartFrom(session)
	if len(cart) == 0 {
		badRequest(c, "cart is empty")
		return
	}
	for _, quantity := range cart {
		if quantity < 1 || quantity > maxLineQuantity {
			badRequest(c, fmt.Sprintf("at most %d of one product per order", maxLineQuantity))
			return
		}
	}

	items, total, err := h.priceCart(c, cart)
	if err != nil {
		respondError(c, h.Log, "failed to verify products", err)
		return
	}
	if len(items) != len(cart) {
		badRequest(c, "one or more items in your cart are no longer available")
		return
	}

	if math.Abs(total-req.ExpectedTotal) > totalTolerance {
		h.Log.WithFields(logrus.Fields{"server_total": total, "client_total": req.ExpectedTotal}).
			Warn("checkout total mismatch")
		badRequest(c, "order total has changed")
		return
	}

	for productID := range req.Designs {
		if _, inCart := cart[productID]; !inCart {
			badRequest(c, fmt.Sprintf("design attached to product %d which is not in the cart", productID))
			return
		}
	}
	drafts, err := store.DraftsForProducts(c, h.DB, req.Designs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			badRequest(c, err.Error())
			return
		}
		respondError(c, h.Log, "failed to load designs", err)
		return
	}

	var (
		order   model.Order
		artKeys []IssuedArtKey
	)
	err = h.DB.WithContext(c).Transaction(func(tx *gorm.DB) error {
		customer, err := store.FindOrCreateCustomer(c, tx, model.Customer{
			Name:       req.Name,
			Email:      req.Email,
			Phone:      req.Phone,
			Street:     req.Street,
			City:       req.City,
			PostalCode: req.PostalCode,
			Country:    req.Country,
		})
		if err != nil {
			return err
		}

		order = model.Order{
			CustomerID:         customer.ID,
			Status:             model.StatusPending,
			Total:              total,
			ShippingName:       req.Name,
			ShippingStreet:     req.Street,
			ShippingCity:       req.City,
			ShippingPostalCode: req.PostalCode,
			ShippingCountry:    req.Country,
			ExternalReference:  fmt.Sprintf("order_%d_%d", customer.ID, time.Now().UnixNano()),
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, it := range items {
			line := model.OrderItem{
				OrderID:   order.ID,
				ProductID: it.Product.ID,
				Quantity:  it.Quantity,
				UnitPrice: it.Product.Price,
				Subtotal:  it.Subtotal,
			}
			if d, ok := drafts[it.Product.ID]; ok {
				line.DesignDraftID = &d.ID
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			line.Product = it.Product
			order.Items = append(order.Items, line)

			if it.Product.Kind != model.KindArtKey {
				continue
			}
			for i := 0; i < it.Quantity; i++ {
				key, token, err := h.Portal.Issue(c, tx, order.ID, line.ID, it.Product.Name)
				if err != nil {
					return err
				}
				artKeys = append(artKeys, IssuedArtKey{
					Slug:       key.Slug,
					URL:        portal.URL(h.PublicURL, key.Slug),
					OwnerToken: token,
					ExpiresAt:  key.TokenExpiresAt,
				})
			}
		}
		order.Customer = *customer
		return nil
	})
	if err != nil {
		respondError(c, h.Log, "could not register your order", err)
		return
	}

	metrics.RecordOrder()
	metrics.RecordArtKeys(len(artKeys))
	h.Log.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"reference": order.ExternalReference,
		"total":     order.Total,
		"artkeys":   len(artKeys),
	}).Info("order created")

	if err := h.saveCart(c, session, make(map[uint]int)); err != nil {
		h.Log.WithError(err).WithField("order_id", order.ID).Warn("failed to clear cart after checkout")
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   order,
		"artKeys": artKeys,
	})
}

// ShowOrder lets a buyer look an order up by reference and e-mail.
func (h *CartHandler) ShowOrder(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, "email is required")
		return
	}
	order, err := store.GetOrderByReference(c, h.DB, c.Param("ref"), email)
	if err != nil {
		respondError(c, h.Log, "failed to load order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func cartQuantity(cart map[uint]int) int {
	total := 0
	for _, quantity := range cart {
		total += quantity
	}
	return total
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
