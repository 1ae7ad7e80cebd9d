package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCouponValidation(t *testing.T) {
	h := NewCouponHandler(nil)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "missing code", body: `{"discount_percent":10}`, wantErr: "Coupon code required"},
		{name: "zero percent", body: `{"code":"FREE","discount_percent":0}`, wantErr: "between 1 and 100"},
		{name: "over one hundred percent", body: `{"code":"ALL","discount_percent":150}`, wantErr: "between 1 and 100"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			w := performRequest(h.CreateCoupon, http.MethodPost, "/admin/coupons", testCase.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), testCase.wantErr)
		})
	}
}

func TestResolveCoupon(t *testing.T) {
	now := time.Now()

	t.Run("resolves a stored coupon", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT \* FROM "coupons"`).
			WillReturnRows(sqlmock.NewRows([]string{"code", "discount_percent"}).
				AddRow("WELCOME10", 10))

		coupon, err := resolveCoupon(db, "WELCOME10", now)
		require.NoError(t, err)
		require.NotNil(t, coupon)
		assert.Equal(t, "WELCOME10", coupon.Code)
		assert.Equal(t, int32(10), coupon.DiscountPercent)
	})

	t.Run("unknown code is not an error", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT \* FROM "coupons"`).
			WillReturnRows(sqlmock.NewRows([]string{"code", "discount_percent"}))

		coupon, err := resolveCoupon(db, "NOPE", now)
		require.NoError(t, err)
		assert.Nil(t, coupon)
	})
}
