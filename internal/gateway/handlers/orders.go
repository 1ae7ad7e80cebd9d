package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"beerhall/internal/database/models"
	"beerhall/internal/notify"
)

type OrderHandler struct {
	db       *gorm.DB
	notifier *notify.Notifier
}

func NewOrderHandler(db *gorm.DB, notifier *notify.Notifier) *OrderHandler {
	return &OrderHandler{
		db:       db,
		notifier: notifier,
	}
}

type CartLine struct {
	ID       string `json:"id"`
	Quantity int32  `json:"quantity"`
}

type CreateOrderRequest struct {
	OrderType       string     `json:"order_type"`
	Items           []CartLine `json:"items"`
	TableNumber     string     `json:"table_number"`
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   string     `json:"customer_phone"`
	CustomerAddress string     `json:"customer_address"`
	CouponCode      string     `json:"coupon_code"`
}

type OrderReceipt struct {
	OrderID  string `json:"orderId"`
	Subtotal int64  `json:"subtotal"`
	Discount int64  `json:"discount"`
	Total    int64  `json:"total"`
	Profit   int64  `json:"profit"`
}

// errItemNotFound aborts the whole order: no partial carts.
type errItemNotFound struct {
	id string
}

func (e errItemNotFound) Error() string {
	return fmt.Sprintf("Item not found: %s", e.id)
}

type pricedCart struct {
	Subtotal int64
	Profit   int64
	Lines    []models.OrderItem
}

// priceCart reprices every cart line against the authoritative catalog.
// Client-submitted prices are never consulted.
func priceCart(lines []CartLine, catalog map[string]models.Item) (pricedCart, error) {
	var cart pricedCart
	for _, line := range lines {
		item, ok := catalog[line.ID]
		if !ok {
			return pricedCart{}, errItemNotFound{id: line.ID}
		}

		qty := int64(line.Quantity)
		cart.Subtotal += item.SalePrice * qty
		cart.Profit += (item.SalePrice - item.CostPrice) * qty
		cart.Lines = append(cart.Lines, models.OrderItem{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  line.Quantity,
			SalePrice: item.SalePrice,
			CostPrice: item.CostPrice,
		})
	}
	return cart, nil
}

// couponDiscount rounds half-up on whole currency units.
func couponDiscount(subtotal int64, percent int32) int64 {
	return decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromInt32(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// pointsEarned grants one point per 1000 currency units of the final total.
func pointsEarned(total int64) int64 {
	return decimal.NewFromInt(total).
		Div(decimal.NewFromInt(1000)).
		Round(0).
		IntPart()
}

// advanceMember applies an order's loyalty credit to an existing member.
// The name is first-write-wins; the tier follows the new cumulative total.
func advanceMember(member *models.Member, name string, points int64, now time.Time) {
	member.Points += points
	member.Tier = models.TierFor(member.Points)
	if member.Name == nil {
		member.Name = strPtr(name)
	}
	member.UpdatedAt = now
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body"))
		return
	}

	if req.OrderType == "" || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Missing required fields"))
		return
	}
	for _, line := range req.Items {
		if line.ID == "" || line.Quantity < 1 {
			c.JSON(http.StatusBadRequest, errorResponse("Missing required fields"))
			return
		}
	}
	if req.OrderType == models.OrderTypeDineIn && req.TableNumber == "" {
		c.JSON(http.StatusBadRequest, errorResponse("Table number required for dine-in"))
		return
	}
	if req.OrderType == models.OrderTypeDelivery &&
		(req.CustomerName == "" || req.CustomerPhone == "" || req.CustomerAddress == "") {
		c.JSON(http.StatusBadRequest, errorResponse("Customer info required for delivery"))
		return
	}

	now := time.Now()

	tx := h.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	ids := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		ids = append(ids, line.ID)
	}

	var rows []models.Item
	if err := tx.Where("id IN ? AND is_active = ?", ids, true).Find(&rows).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	catalog := make(map[string]models.Item, len(rows))
	for _, row := range rows {
		catalog[row.ID] = row
	}

	cart, err := priceCart(req.Items, catalog)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
		return
	}

	var discount int64
	var appliedCoupon *string
	if req.CouponCode != "" {
		coupon, err := resolveCoupon(tx, req.CouponCode, now)
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
			return
		}
		if coupon != nil {
			discount = couponDiscount(cart.Subtotal, coupon.DiscountPercent)
			appliedCoupon = &coupon.Code
		}
	}

	total := cart.Subtotal - discount
	profit := cart.Profit - discount

	order := models.Order{
		ID:              newID(),
		OrderType:       req.OrderType,
		CustomerName:    strPtr(req.CustomerName),
		CustomerPhone:   strPtr(req.CustomerPhone),
		CustomerAddress: strPtr(req.CustomerAddress),
		TableNumber:     strPtr(req.TableNumber),
		Subtotal:        cart.Subtotal,
		Discount:        discount,
		Total:           total,
		Profit:          profit,
		CouponCode:      appliedCoupon,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create order"))
		return
	}

	for i := range cart.Lines {
		cart.Lines[i].OrderID = order.ID
		cart.Lines[i].CreatedAt = now
		if err := tx.Create(&cart.Lines[i]).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to create order item"))
			return
		}
	}

	// Loyalty credit commits with the order or not at all. The row lock
	// keeps two simultaneous orders from one phone from losing points.
	if req.CustomerPhone != "" {
		points := pointsEarned(total)

		var member models.Member
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("phone = ?", req.CustomerPhone).
			First(&member).Error
		switch {
		case err == nil:
			advanceMember(&member, req.CustomerName, points, now)
			if err := tx.Save(&member).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, errorResponse("Failed to update member"))
				return
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			member = models.Member{
				Phone:     req.CustomerPhone,
				Name:      strPtr(req.CustomerName),
				Points:    points,
				Tier:      models.TierFor(points),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(&member).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, errorResponse("Failed to create member"))
				return
			}
		default:
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to commit order"))
		return
	}

	if h.notifier.Enabled() {
		go h.notifier.OrderCreated(order, cart.Lines)
	}

	c.JSON(http.StatusOK, successResponse(OrderReceipt{
		OrderID:  order.ID,
		Subtotal: cart.Subtotal,
		Discount: discount,
		Total:    total,
		Profit:   profit,
	}))
}

// Account returns a customer's order history and member record by phone.
func (h *OrderHandler) Account(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, errorResponse("Phone required"))
		return
	}

	var orders []models.Order
	if err := h.db.Preload("OrderItems").
		Where("customer_phone = ?", phone).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	var member *models.Member
	var row models.Member
	err := h.db.Where("phone = ?", phone).First(&row).Error
	switch {
	case err == nil:
		member = &row
	case errors.Is(err, gorm.ErrRecordNotFound):
		member = nil
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{
		"orders": orders,
		"member": member,
	}))
}
