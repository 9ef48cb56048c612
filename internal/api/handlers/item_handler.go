package handlers

import (
	"net/http"
	"time"

	"silent-auction/internal/services"
	"silent-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ItemHandler struct {
	items *services.ItemService
	log   logger.Logger
}

type CreateItemRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	StartingBid float64   `json:"starting_bid"`
	Deadline    time.Time `json:"deadline"`
	Images      []string  `json:"images"`
}

type UpdateItemRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	StartingBid *float64   `json:"starting_bid"`
	Deadline    *time.Time `json:"deadline"`
	Images      []string   `json:"images"`
}

func NewItemHandler(items *services.ItemService, log logger.Logger) *ItemHandler {
	return &ItemHandler{
		items: items,
		log:   log,
	}
}

// CreateItem handles POST /api/v1/items
func (h *ItemHandler) CreateItem(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	item, err := h.items.CreateItem(c.Request().Context(), caller, services.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		StartingBid: req.StartingBid,
		Deadline:    req.Deadline,
		Images:      req.Images,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// ListItems handles GET /api/v1/items
func (h *ItemHandler) ListItems(c echo.Context) error {
	items, err := h.items.ListItems(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetItem handles GET /api/v1/items/:id
func (h *ItemHandler) GetItem(c echo.Context) error {
	item, err := h.items.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, item)
}

// MyItems handles GET /api/v1/items/mine
func (h *ItemHandler) MyItems(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	items, err := h.items.MyItems(c.Request().Context(), caller)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, items)
}

// UpdateItem handles PUT /api/v1/items/:id
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	item, err := h.items.UpdateItem(c.Request().Context(), c.Param("id"), caller, services.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		StartingBid: req.StartingBid,
		Deadline:    req.Deadline,
		Images:      req.Images,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/items/:id
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	if err := h.items.DeleteItem(c.Request().Context(), c.Param("id"), caller); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "item deleted successfully"})
}

// Categories handles GET /api/v1/categories
func (h *ItemHandler) Categories(c echo.Context) error {
	categories, err := h.items.Categories(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(http.StatusOK, categories)
}
