// Package notify pushes best-effort order summaries to a Telegram chat.
// Delivery failures are logged and swallowed; they never fail an order.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"beerhall/internal/database/models"
)

type Notifier struct {
	botToken string
	chatID   string
	client   *http.Client
}

func New(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.botToken != "" && n.chatID != ""
}

func (n *Notifier) OrderCreated(order models.Order, items []models.OrderItem) {
	if !n.Enabled() {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id":    n.chatID,
		"text":       OrderSummary(order, items),
		"parse_mode": "Markdown",
	})
	if err != nil {
		log.Printf("telegram payload error: %v", err)
		return
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	resp, err := n.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("telegram error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("telegram error: status %d", resp.StatusCode)
	}
}

// OrderSummary renders the staff-facing order message.
func OrderSummary(order models.Order, items []models.OrderItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🍺 *Đơn hàng mới #%s*\n\n", order.ID)
	if order.OrderType == models.OrderTypeDineIn {
		b.WriteString("*Loại:* Tại quán\n")
		fmt.Fprintf(&b, "*Bàn số:* %s\n", deref(order.TableNumber))
	} else {
		b.WriteString("*Loại:* Giao hàng\n")
		fmt.Fprintf(&b, "*Khách:* %s\n", deref(order.CustomerName))
		fmt.Fprintf(&b, "*SĐT:* %s\n", deref(order.CustomerPhone))
		fmt.Fprintf(&b, "*Địa chỉ:* %s\n", deref(order.CustomerAddress))
	}

	b.WriteString("\n*Món đặt:*\n")
	for _, item := range items {
		fmt.Fprintf(&b, "  • %s x%d = %s\n", item.ItemName, item.Quantity, FormatVND(item.SalePrice*int64(item.Quantity)))
	}

	fmt.Fprintf(&b, "\n*Tạm tính:* %s", FormatVND(order.Subtotal))
	if order.Discount > 0 {
		fmt.Fprintf(&b, "\n*Giảm giá:* -%s (%s)", FormatVND(order.Discount), deref(order.CouponCode))
	}
	fmt.Fprintf(&b, "\n*Tổng:* %s", FormatVND(order.Total))
	fmt.Fprintf(&b, "\n*Lợi nhuận:* %s", FormatVND(order.Profit))

	return b.String()
}

// FormatVND groups thousands with dots, vi-VN style: 1500000 -> "1.500.000đ".
func FormatVND(value int64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	s := strconv.FormatInt(value, 10)
	var parts []string
	for i := len(s); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		parts = append([]string{s[start:i]}, parts...)
	}
	return sign + strings.Join(parts, ".") + "đ"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
