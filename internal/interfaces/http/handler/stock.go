package handler

import (
	"time"

	appstock "github.com/inventaris/backend/internal/application/stock"
	"github.com/gin-gonic/gin"
)

// StockHandler serves stock item master data, the stock card and manual
// adjustments
type StockHandler struct {
	BaseHandler
	items  *appstock.ItemService
	ledger *appstock.LedgerService
}

// NewStockHandler creates a StockHandler
func NewStockHandler(items *appstock.ItemService, ledger *appstock.LedgerService) *StockHandler {
	return &StockHandler{items: items, ledger: ledger}
}

type createItemRequest struct {
	Code     string `json:"code" binding:"required,max=32"`
	Name     string `json:"name" binding:"required,max=160"`
	Unit     string `json:"unit" binding:"required,max=24"`
	Category string `json:"category" binding:"max=64"`
	MinStock int64  `json:"min_stock" binding:"min=0"`
	MaxStock int64  `json:"max_stock" binding:"min=0"`
}

// Create registers a new stock item
func (h *StockHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.items.CreateItem(c.Request.Context(), appstock.CreateItemInput{
		Code:     req.Code,
		Name:     req.Name,
		Unit:     req.Unit,
		Category: req.Category,
		MinStock: req.MinStock,
		MaxStock: req.MaxStock,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

type updateItemRequest struct {
	Name     string `json:"name" binding:"required,max=160"`
	Unit     string `json:"unit" binding:"required,max=24"`
	Category string `json:"category" binding:"max=64"`
	MinStock int64  `json:"min_stock" binding:"min=0"`
	MaxStock int64  `json:"max_stock" binding:"min=0"`
}

// Update changes master data fields
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.items.UpdateItem(c.Request.Context(), id, appstock.UpdateItemInput{
		Name:     req.Name,
		Unit:     req.Unit,
		Category: req.Category,
		MinStock: req.MinStock,
		MaxStock: req.MaxStock,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Get returns one stock item
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	item, err := h.items.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List returns stock items with pagination
func (h *StockHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if category := c.Query("category"); category != "" {
		filter.Filters["category"] = category
	}

	page, err := h.items.ListItems(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// BelowMinimum returns items at or under their reorder point
func (h *StockHandler) BelowMinimum(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	items, err := h.items.ListBelowMinimum(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// StockCard returns the mutation history of an item for a date range
func (h *StockHandler) StockCard(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	start, err := parseDateQuery(c.Query("start"), time.Time{})
	if err != nil {
		h.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := parseDateQuery(c.Query("end"), time.Now())
	if err != nil {
		h.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	mutations, err := h.items.StockCard(c.Request.Context(), id, start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mutations)
}

type manualAdjustmentRequest struct {
	Quantity int64  `json:"quantity" binding:"required"`
	Note     string `json:"note" binding:"required,max=255"`
}

// Adjust books a manual penyesuaian against one item
func (h *StockHandler) Adjust(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	var req manualAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledger.ManualAdjustment(c.Request.Context(), id, req.Quantity, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"item":     result.Item,
		"mutation": result.Mutation,
	})
}

func parseDateQuery(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}
