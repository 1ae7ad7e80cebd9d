package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"beerhall/internal/database/models"
)

const (
	MENU_CACHE_KEY  = "catalog:menu"
	CACHE_TTL_SHORT = 5 * time.Minute
)

type CatalogHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewCatalogHandler wires the catalog routes. redisClient may be nil, in
// which case the public menu is assembled fresh on every request.
func NewCatalogHandler(db *gorm.DB, redisClient *redis.Client) *CatalogHandler {
	return &CatalogHandler{
		db:    db,
		redis: redisClient,
	}
}

type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parent_id,omitempty"`
	Pos      int32   `json:"pos"`
}

type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	CategoryID  *string `json:"category_id,omitempty"`
	SalePrice   int64   `json:"sale_price"`
	CostPrice   int64   `json:"cost_price"`
}

// MenuCategory is one root node of the two-level public menu tree.
type MenuCategory struct {
	models.Category
	Children []MenuChild   `json:"children"`
	Items    []models.Item `json:"items"`
}

type MenuChild struct {
	models.Category
	Items []models.Item `json:"items"`
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("pos, name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	c.JSON(http.StatusOK, successResponse(categories))
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Category name required"))
		return
	}

	category := models.Category{
		ID:       newID(),
		Name:     req.Name,
		ParentID: req.ParentID,
		Pos:      req.Pos,
	}
	if err := h.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create category"))
		return
	}

	h.invalidateMenuCache(c.Request.Context())
	c.JSON(http.StatusOK, successResponse(category))
}

func (h *CatalogHandler) ListItems(c *gin.Context) {
	var items []models.Item
	if err := h.db.Order("name").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	c.JSON(http.StatusOK, successResponse(items))
}

func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Item name required"))
		return
	}
	if req.SalePrice < 0 || req.CostPrice < 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Prices must be non-negative"))
		return
	}

	item := models.Item{
		ID:          newID(),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		SalePrice:   req.SalePrice,
		CostPrice:   req.CostPrice,
		IsActive:    true,
	}
	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create item"))
		return
	}

	h.invalidateMenuCache(c.Request.Context())
	c.JSON(http.StatusOK, successResponse(item))
}

// PublicMenu serves the customer-facing two-level menu tree, from cache when
// one is configured.
func (h *CatalogHandler) PublicMenu(c *gin.Context) {
	ctx := c.Request.Context()

	if h.redis != nil {
		if cached, err := h.redis.Get(ctx, MENU_CACHE_KEY).Result(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	var categories []models.Category
	if err := h.db.Order("pos, name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	var items []models.Item
	if err := h.db.Where("is_active = ?", true).Order("name").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	menu := buildMenuTree(categories, items)
	resp := successResponse(menu)

	if h.redis != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := h.redis.Set(ctx, MENU_CACHE_KEY, payload, CACHE_TTL_SHORT).Err(); err != nil {
				log.Printf("menu cache write failed: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// buildMenuTree attaches each active item to its single owning category.
// Items without a category are left out of the public tree; staff still see
// them in the admin item list.
func buildMenuTree(categories []models.Category, items []models.Item) []MenuCategory {
	itemsByCategory := make(map[string][]models.Item)
	for _, item := range items {
		if item.CategoryID == nil {
			continue
		}
		itemsByCategory[*item.CategoryID] = append(itemsByCategory[*item.CategoryID], item)
	}

	childrenByParent := make(map[string][]models.Category)
	for _, cat := range categories {
		if cat.ParentID != nil {
			childrenByParent[*cat.ParentID] = append(childrenByParent[*cat.ParentID], cat)
		}
	}

	menu := make([]MenuCategory, 0)
	for _, cat := range categories {
		if cat.ParentID != nil {
			continue
		}

		children := make([]MenuChild, 0)
		for _, child := range childrenByParent[cat.ID] {
			children = append(children, MenuChild{
				Category: child,
				Items:    itemsOrEmpty(itemsByCategory[child.ID]),
			})
		}

		menu = append(menu, MenuCategory{
			Category: cat,
			Children: children,
			Items:    itemsOrEmpty(itemsByCategory[cat.ID]),
		})
	}
	return menu
}

func itemsOrEmpty(items []models.Item) []models.Item {
	if items == nil {
		return []models.Item{}
	}
	return items
}

func (h *CatalogHandler) invalidateMenuCache(ctx context.Context) {
	if h.redis == nil {
		return
	}
	if err := h.redis.Del(ctx, MENU_CACHE_KEY).Err(); err != nil {
		log.Printf("menu cache invalidation failed: %v", err)
	}
}
