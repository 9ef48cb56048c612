package handlers

import (
	"net/http"

	"silent-auction/internal/services"
	"silent-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

type BidHandler struct {
	bids *services.BidService
	log  logger.Logger
}

type PlaceBidRequest struct {
	ItemID string  `json:"item_id"`
	Amount float64 `json:"amount"`
}

func NewBidHandler(bids *services.BidService, log logger.Logger) *BidHandler {
	return &BidHandler{
		bids: bids,
		log:  log,
	}
}

// PlaceBid handles POST /api/v1/bids
func (h *BidHandler) PlaceBid(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	bid, err := h.bids.PlaceBid(c.Request().Context(), req.ItemID, caller, req.Amount)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, bid)
}

// BidsForItem handles GET /api/v1/items/:id/bids
func (h *BidHandler) BidsForItem(c echo.Context) error {
	if _, ok := requireCaller(c); !ok {
		return nil
	}

	bids, err := h.bids.BidsForItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, bids)
}

// BidsForUser handles GET /api/v1/users/:id/bids
func (h *BidHandler) BidsForUser(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	bids, err := h.bids.BidsForUser(c.Request().Context(), c.Param("id"), caller)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, bids)
}

// WonBids handles GET /api/v1/bids/won
func (h *BidHandler) WonBids(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	bids, err := h.bids.WonBids(c.Request().Context(), caller)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, bids)
}
