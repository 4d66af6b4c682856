package handler

import (
	"time"

	appopname "github.com/inventaris/backend/internal/application/opname"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OpnameHandler exposes the stock opname workflow
type OpnameHandler struct {
	BaseHandler
	service *appopname.Service
}

// NewOpnameHandler creates an OpnameHandler
func NewOpnameHandler(service *appopname.Service) *OpnameHandler {
	return &OpnameHandler{service: service}
}

type createOpnameRequest struct {
	OpnameDate string   `json:"opname_date" binding:"omitempty,datetime=2006-01-02"`
	Note       string   `json:"note" binding:"max=255"`
	StockItems []string `json:"stock_items" binding:"required,min=1,dive,uuid"`
}

// Create opens a count sheet in draft state
func (h *OpnameHandler) Create(c *gin.Context) {
	creator, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req createOpnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var opnameDate time.Time
	if req.OpnameDate != "" {
		opnameDate, _ = time.Parse("2006-01-02", req.OpnameDate)
	}

	items := make([]uuid.UUID, 0, len(req.StockItems))
	for _, raw := range req.StockItems {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid stock item ID")
			return
		}
		items = append(items, id)
	}

	created, err := h.service.Create(c.Request.Context(), appopname.CreateInput{
		OpnameDate:  opnameDate,
		CreatedByID: creator,
		Note:        req.Note,
		StockItems:  items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

type recordCountRequest struct {
	StockItemID    string `json:"stock_item_id" binding:"required,uuid"`
	ActualQuantity int64  `json:"actual_quantity" binding:"min=0"`
	Note           string `json:"note" binding:"max=255"`
}

// RecordCount stores a physical count for one line
func (h *OpnameHandler) RecordCount(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid opname ID")
		return
	}
	var req recordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := uuid.Parse(req.StockItemID)
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}

	updated, err := h.service.RecordCount(c.Request.Context(), id, itemID, req.ActualQuantity, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Submit sends the counted sheet for approval
func (h *OpnameHandler) Submit(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid opname ID")
		return
	}
	updated, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

type approveOpnameRequest struct {
	Note string `json:"note" binding:"max=255"`
}

// Approve accepts the count and books the adjustments
func (h *OpnameHandler) Approve(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid opname ID")
		return
	}
	approver, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req approveOpnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Approve(c.Request.Context(), id, approver, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

type rejectOpnameRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// Reject declines the count
func (h *OpnameHandler) Reject(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid opname ID")
		return
	}
	approver, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req rejectOpnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Reject(c.Request.Context(), id, approver, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Get returns one opname with its lines
func (h *OpnameHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid opname ID")
		return
	}
	so, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, so)
}

// List returns opnames with pagination
func (h *OpnameHandler) List(c *gin.Context) {
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
