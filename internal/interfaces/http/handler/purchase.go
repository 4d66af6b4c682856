package handler

import (
	"time"

	apppurchase "github.com/inventaris/backend/internal/application/purchase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseHandler exposes the purchasing workflow
type PurchaseHandler struct {
	BaseHandler
	service *apppurchase.Service
}

// NewPurchaseHandler creates a PurchaseHandler
func NewPurchaseHandler(service *apppurchase.Service) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

type createPurchaseLine struct {
	StockItemID string          `json:"stock_item_id" binding:"required,uuid"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

type createPurchaseRequest struct {
	Supplier     string               `json:"supplier" binding:"required,max=160"`
	PurchaseDate string               `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
	Note         string               `json:"note" binding:"max=255"`
	Lines        []createPurchaseLine `json:"lines" binding:"required,min=1,dive"`
}

// Create opens a purchase in draft state
func (h *PurchaseHandler) Create(c *gin.Context) {
	creator, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req createPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var purchaseDate time.Time
	if req.PurchaseDate != "" {
		purchaseDate, _ = time.Parse("2006-01-02", req.PurchaseDate)
	}

	lines := make([]apppurchase.CreateLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		itemID, err := uuid.Parse(l.StockItemID)
		if err != nil {
			h.BadRequest(c, "Invalid stock item ID")
			return
		}
		lines = append(lines, apppurchase.CreateLineInput{
			StockItemID: itemID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	created, err := h.service.Create(c.Request.Context(), apppurchase.CreateInput{
		Supplier:     req.Supplier,
		PurchaseDate: purchaseDate,
		CreatedByID:  creator,
		Note:         req.Note,
		Lines:        lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// MarkReceived records that the goods arrived
func (h *PurchaseHandler) MarkReceived(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}
	updated, err := h.service.MarkReceived(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Complete books the purchase into the stock ledger
func (h *PurchaseHandler) Complete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}
	updated, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

type cancelPurchaseRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// Cancel voids a draft purchase
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}
	var req cancelPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	updated, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Get returns one purchase with its lines
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// List returns purchases with pagination
func (h *PurchaseHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
