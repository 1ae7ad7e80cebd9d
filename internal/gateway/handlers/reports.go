package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"beerhall/internal/database/models"
)

type ReportHandler struct {
	db *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db}
}

type ReportData struct {
	Labels       []string `json:"labels"`
	Revenue      []int64  `json:"revenue"`
	Profit       []int64  `json:"profit"`
	TotalRevenue int64    `json:"totalRevenue"`
	TotalProfit  int64    `json:"totalProfit"`
	OrderCount   int      `json:"orderCount"`
}

// reportWindow maps a range selector to its lookback lower bound and the
// bucket label layout. Unknown selectors fall back to the one-day window,
// matching the reference behavior.
func reportWindow(rangeKey string, now time.Time) (time.Time, string) {
	switch rangeKey {
	case "week":
		return now.AddDate(0, 0, -7), "02/01"
	case "month":
		return now.AddDate(0, 0, -30), "02/01"
	case "year":
		return now.AddDate(-1, 0, 0), "01/2006"
	default:
		return now.Add(-24 * time.Hour), "15:00"
	}
}

// bucketOrders groups orders (already sorted by created_at ascending) into
// labeled buckets, so buckets come out ordered by their earliest order.
// Empty buckets are omitted.
func bucketOrders(orders []models.Order, layout string) ReportData {
	data := ReportData{
		Labels:  []string{},
		Revenue: []int64{},
		Profit:  []int64{},
	}

	index := make(map[string]int)
	for _, order := range orders {
		label := order.CreatedAt.Format(layout)
		i, seen := index[label]
		if !seen {
			i = len(data.Labels)
			index[label] = i
			data.Labels = append(data.Labels, label)
			data.Revenue = append(data.Revenue, 0)
			data.Profit = append(data.Profit, 0)
		}
		data.Revenue[i] += order.Total
		data.Profit[i] += order.Profit

		data.TotalRevenue += order.Total
		data.TotalProfit += order.Profit
		data.OrderCount++
	}
	return data
}

func (h *ReportHandler) Reports(c *gin.Context) {
	rangeKey := c.DefaultQuery("range", "day")
	since, layout := reportWindow(rangeKey, time.Now())

	var orders []models.Order
	if err := h.db.Where("created_at >= ?", since).
		Order("created_at").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	c.JSON(http.StatusOK, successResponse(bucketOrders(orders, layout)))
}
