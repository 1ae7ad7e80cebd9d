package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"beerhall/internal/database/models"
)

func TestFormatVND(t *testing.T) {
	tests := []struct {
		value int64
		want  string
	}{
		{value: 0, want: "0đ"},
		{value: 500, want: "500đ"},
		{value: 25000, want: "25.000đ"},
		{value: 110000, want: "110.000đ"},
		{value: 1500000, want: "1.500.000đ"},
		{value: -11000, want: "-11.000đ"},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, FormatVND(testCase.value))
	}
}

func TestOrderSummaryDineIn(t *testing.T) {
	table := "5"
	order := models.Order{
		ID:          "abc123",
		OrderType:   models.OrderTypeDineIn,
		TableNumber: &table,
		Subtotal:    110000,
		Total:       110000,
		Profit:      45000,
	}
	items := []models.OrderItem{
		{ItemName: "Tiger Beer", Quantity: 2, SalePrice: 25000},
		{ItemName: "Cánh Gà Chiên", Quantity: 1, SalePrice: 60000},
	}

	text := OrderSummary(order, items)

	assert.Contains(t, text, "#abc123")
	assert.Contains(t, text, "Tại quán")
	assert.Contains(t, text, "*Bàn số:* 5")
	assert.Contains(t, text, "Tiger Beer x2 = 50.000đ")
	assert.Contains(t, text, "Cánh Gà Chiên x1 = 60.000đ")
	assert.Contains(t, text, "*Tạm tính:* 110.000đ")
	assert.NotContains(t, text, "Giảm giá", "no discount line without a coupon")
	assert.Contains(t, text, "*Lợi nhuận:* 45.000đ")
}

func TestOrderSummaryDeliveryWithCoupon(t *testing.T) {
	name, phone, addr, coupon := "Anh Ba", "0900000000", "12 Lê Lợi", "WELCOME10"
	order := models.Order{
		ID:              "xyz789",
		OrderType:       models.OrderTypeDelivery,
		CustomerName:    &name,
		CustomerPhone:   &phone,
		CustomerAddress: &addr,
		Subtotal:        110000,
		Discount:        11000,
		Total:           99000,
		Profit:          34000,
		CouponCode:      &coupon,
	}

	text := OrderSummary(order, []models.OrderItem{{ItemName: "Tiger Beer", Quantity: 2, SalePrice: 25000}})

	assert.Contains(t, text, "Giao hàng")
	assert.Contains(t, text, "*Khách:* Anh Ba")
	assert.Contains(t, text, "*SĐT:* 0900000000")
	assert.Contains(t, text, "*Địa chỉ:* 12 Lê Lợi")
	assert.Contains(t, text, "*Giảm giá:* -11.000đ (WELCOME10)")
	assert.Contains(t, text, "*Tổng:* 99.000đ")
}

func TestNotifierEnabled(t *testing.T) {
	assert.False(t, New("", "").Enabled())
	assert.False(t, New("token", "").Enabled())
	assert.False(t, New("", "chat").Enabled())
	assert.True(t, New("token", "chat").Enabled())

	var nilNotifier *Notifier
	assert.False(t, nilNotifier.Enabled())
}
