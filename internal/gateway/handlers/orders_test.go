package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"beerhall/internal/database/models"
	"beerhall/internal/notify"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func performRequest(handler gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, strings.SplitN(target, "?", 2)[0], handler)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testCatalog() map[string]models.Item {
	return map[string]models.Item{
		"tiger": {ID: "tiger", Name: "Tiger Beer", SalePrice: 25000, CostPrice: 15000, IsActive: true},
		"wings": {ID: "wings", Name: "Cánh Gà Chiên", SalePrice: 60000, CostPrice: 35000, IsActive: true},
	}
}

func TestPriceCart(t *testing.T) {
	cart, err := priceCart([]CartLine{
		{ID: "tiger", Quantity: 2},
		{ID: "wings", Quantity: 1},
	}, testCatalog())
	require.NoError(t, err)

	assert.Equal(t, int64(110000), cart.Subtotal)
	assert.Equal(t, int64(45000), cart.Profit)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "Tiger Beer", cart.Lines[0].ItemName)
	assert.Equal(t, int32(2), cart.Lines[0].Quantity)
	assert.Equal(t, int64(25000), cart.Lines[0].SalePrice)
	assert.Equal(t, int64(15000), cart.Lines[0].CostPrice)
}

func TestPriceCartUnknownItem(t *testing.T) {
	_, err := priceCart([]CartLine{
		{ID: "tiger", Quantity: 1},
		{ID: "ghost", Quantity: 1},
	}, testCatalog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestCouponDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		percent  int32
		want     int64
	}{
		{name: "ten percent of the sample cart", subtotal: 110000, percent: 10, want: 11000},
		{name: "twenty percent", subtotal: 110000, percent: 20, want: 22000},
		{name: "half unit rounds up", subtotal: 105, percent: 10, want: 11},
		{name: "below half rounds down", subtotal: 104, percent: 10, want: 10},
		{name: "full discount", subtotal: 45000, percent: 100, want: 45000},
		{name: "zero subtotal", subtotal: 0, percent: 50, want: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, couponDiscount(testCase.subtotal, testCase.percent))
		})
	}
}

func TestPointsEarned(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		want  int64
	}{
		{name: "first order example", total: 99000, want: 99},
		{name: "half point rounds up", total: 1500, want: 2},
		{name: "below half rounds down", total: 1499, want: 1},
		{name: "below one point", total: 499, want: 0},
		{name: "zero total", total: 0, want: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, pointsEarned(testCase.total))
		})
	}
}

func TestAdvanceMember(t *testing.T) {
	now := time.Now()

	t.Run("accumulates points and recomputes tier", func(t *testing.T) {
		name := "Anh Ba"
		member := models.Member{Phone: "0900000000", Name: &name, Points: 950, Tier: models.TierRegular}
		advanceMember(&member, "Someone Else", 99, now)

		assert.Equal(t, int64(1049), member.Points)
		assert.Equal(t, models.TierSilver, member.Tier)
		assert.Equal(t, "Anh Ba", *member.Name, "existing name must win")
		assert.Equal(t, now, member.UpdatedAt)
	})

	t.Run("fills a missing name", func(t *testing.T) {
		member := models.Member{Phone: "0900000000", Points: 10}
		advanceMember(&member, "Chị Tư", 5, now)

		require.NotNil(t, member.Name)
		assert.Equal(t, "Chị Tư", *member.Name)
	})

	t.Run("empty name stays null", func(t *testing.T) {
		member := models.Member{Phone: "0900000000"}
		advanceMember(&member, "", 5, now)
		assert.Nil(t, member.Name)
	})
}

func TestCreateOrderValidation(t *testing.T) {
	h := NewOrderHandler(nil, notify.New("", ""))

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing order type",
			body:     `{"items":[{"id":"tiger","quantity":1}]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "Missing required fields",
		},
		{
			name:     "empty cart",
			body:     `{"order_type":"dine-in","table_number":"5","items":[]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "Missing required fields",
		},
		{
			name:     "zero quantity line",
			body:     `{"order_type":"dine-in","table_number":"5","items":[{"id":"tiger","quantity":0}]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "Missing required fields",
		},
		{
			name:     "dine-in without table",
			body:     `{"order_type":"dine-in","items":[{"id":"tiger","quantity":1}]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "Table number required for dine-in",
		},
		{
			name:     "delivery without address",
			body:     `{"order_type":"delivery","customer_name":"A","customer_phone":"0900000000","items":[{"id":"tiger","quantity":1}]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "Customer info required for delivery",
		},
		{
			name:     "malformed body",
			body:     `{"order_type":`,
			wantCode: http.StatusBadRequest,
			wantErr:  "Invalid request body",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			w := performRequest(h.CreateOrder, http.MethodPost, "/orders", testCase.body)
			assert.Equal(t, testCase.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
			assert.Contains(t, w.Body.String(), testCase.wantErr)
		})
	}
}

func TestCreateOrderUnknownItemRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewOrderHandler(db, notify.New("", ""))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sale_price", "cost_price", "is_active"}))
	mock.ExpectRollback()

	body := `{"order_type":"dine-in","table_number":"5","items":[{"id":"ghost","quantity":1}]}`
	w := performRequest(h.CreateOrder, http.MethodPost, "/orders", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ghost")
	assert.NoError(t, mock.ExpectationsWereMet(), "nothing may be inserted when an item is unknown")
}

func TestCreateOrderInactiveItemRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewOrderHandler(db, notify.New("", ""))

	// The catalog lookup filters on is_active, so an inactive row never
	// comes back and the order aborts exactly like an unknown id.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sale_price", "cost_price", "is_active"}).
			AddRow("tiger", "Tiger Beer", 25000, 15000, true))
	mock.ExpectRollback()

	body := `{"order_type":"dine-in","table_number":"5","items":[{"id":"tiger","quantity":1},{"id":"retired","quantity":2}]}`
	w := performRequest(h.CreateOrder, http.MethodPost, "/orders", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRequiresPhone(t *testing.T) {
	h := NewOrderHandler(nil, notify.New("", ""))

	w := performRequest(h.Account, http.MethodGet, "/account", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Phone required")
}

func TestNewIDDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := newID()
		assert.Len(t, id, 12)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
