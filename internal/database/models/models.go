package models

import "time"

const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeDelivery = "delivery"

	OrderStatusPending = "pending"
)

const (
	TierRegular  = "Regular"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

type Category struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	ParentID  *string   `gorm:"index" json:"parent_id"`
	Pos       int32     `gorm:"not null;default:0" json:"pos"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Item struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"type:text" json:"image_url"`
	CategoryID  *string   `gorm:"index" json:"category_id"`
	SalePrice   int64     `gorm:"not null" json:"sale_price"`
	CostPrice   int64     `gorm:"not null" json:"cost_price"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Coupon struct {
	Code            string     `gorm:"primaryKey" json:"code"`
	DiscountPercent int32      `gorm:"not null" json:"discount_percent"`
	ExpiresAt       *time.Time `json:"expires_at"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// Usable reports whether the coupon still discounts at the given instant.
func (c Coupon) Usable(now time.Time) bool {
	return c.ExpiresAt == nil || c.ExpiresAt.After(now)
}

type Order struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	OrderType       string    `gorm:"not null" json:"order_type"`
	CustomerName    *string   `json:"customer_name"`
	CustomerPhone   *string   `gorm:"index" json:"customer_phone"`
	CustomerAddress *string   `gorm:"type:text" json:"customer_address"`
	TableNumber     *string   `json:"table_number"`
	Subtotal        int64     `gorm:"not null" json:"subtotal"`
	Discount        int64     `gorm:"not null;default:0" json:"discount"`
	Total           int64     `gorm:"not null" json:"total"`
	Profit          int64     `gorm:"not null;default:0" json:"profit"`
	CouponCode      *string   `json:"coupon_code"`
	Status          string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem snapshots catalog data at checkout so later menu edits never
// rewrite order history.
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   string    `gorm:"index;not null" json:"order_id"`
	ItemID    string    `gorm:"not null" json:"item_id"`
	ItemName  string    `gorm:"not null" json:"item_name"`
	Quantity  int32     `gorm:"not null" json:"quantity"`
	SalePrice int64     `gorm:"not null" json:"sale_price"`
	CostPrice int64     `gorm:"not null" json:"cost_price"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Member struct {
	Phone     string    `gorm:"primaryKey" json:"phone"`
	Name      *string   `json:"name"`
	Points    int64     `gorm:"not null;default:0" json:"points"`
	Tier      string    `gorm:"not null;default:'Regular'" json:"tier"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TierFor derives the loyalty tier from cumulative points.
func TierFor(points int64) string {
	switch {
	case points >= 10000:
		return TierPlatinum
	case points >= 5000:
		return TierGold
	case points >= 1000:
		return TierSilver
	default:
		return TierRegular
	}
}
