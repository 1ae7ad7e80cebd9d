package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"beerhall/internal/database/models"
)

type CouponHandler struct {
	db *gorm.DB
}

func NewCouponHandler(db *gorm.DB) *CouponHandler {
	return &CouponHandler{db: db}
}

type CreateCouponRequest struct {
	Code            string     `json:"code" binding:"required"`
	DiscountPercent int32      `json:"discount_percent"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := h.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	c.JSON(http.StatusOK, successResponse(coupons))
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Coupon code required"))
		return
	}
	if req.DiscountPercent < 1 || req.DiscountPercent > 100 {
		c.JSON(http.StatusBadRequest, errorResponse("Discount percent must be between 1 and 100"))
		return
	}

	coupon := models.Coupon{
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountPercent: req.DiscountPercent,
		ExpiresAt:       req.ExpiresAt,
	}
	if err := h.db.Create(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, errorResponse("Coupon code already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create coupon"))
		return
	}

	c.JSON(http.StatusOK, successResponse(coupon))
}

// resolveCoupon returns the unexpired coupon stored under exactly the given
// code. Absence is not an error: checkout proceeds without a discount.
func resolveCoupon(db *gorm.DB, code string, now time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	err := db.Where("code = ? AND (expires_at IS NULL OR expires_at > ?)", code, now).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}
