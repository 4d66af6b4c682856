package handler

import (
	"time"

	apprequest "github.com/inventaris/backend/internal/application/request"
	"github.com/inventaris/backend/internal/domain/request"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestHandler exposes the supply request workflow
type RequestHandler struct {
	BaseHandler
	service *apprequest.Service
}

// NewRequestHandler creates a RequestHandler
func NewRequestHandler(service *apprequest.Service) *RequestHandler {
	return &RequestHandler{service: service}
}

type createRequestLine struct {
	StockItemID string `json:"stock_item_id" binding:"required,uuid"`
	Quantity    int64  `json:"quantity" binding:"required,min=1"`
}

type createRequestRequest struct {
	Variant     string              `json:"variant" binding:"required,oneof=atk office"`
	RequestDate string              `json:"request_date" binding:"omitempty,datetime=2006-01-02"`
	Lines       []createRequestLine `json:"lines" binding:"required,min=1,dive"`
}

// Create opens a new supply request for the acting user
func (h *RequestHandler) Create(c *gin.Context) {
	requester, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var requestDate time.Time
	if req.RequestDate != "" {
		requestDate, _ = time.Parse("2006-01-02", req.RequestDate)
	}

	lines := make([]apprequest.CreateLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		itemID, err := uuid.Parse(l.StockItemID)
		if err != nil {
			h.BadRequest(c, "Invalid stock item ID")
			return
		}
		lines = append(lines, apprequest.CreateLineInput{
			StockItemID: itemID,
			Quantity:    l.Quantity,
		})
	}

	created, err := h.service.Create(c.Request.Context(), apprequest.CreateInput{
		Variant:     request.Variant(req.Variant),
		RequesterID: requester,
		RequestDate: requestDate,
		Lines:       lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

type approveRequest struct {
	Level int `json:"level" binding:"required,min=1,max=3"`
}

// Approve advances an ATK request one approval level
func (h *RequestHandler) Approve(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}
	approver, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.ApproveLevel(c.Request.Context(), id, approver, req.Level)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// ApproveOffice completes an office request in one step
func (h *RequestHandler) ApproveOffice(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}
	approver, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	updated, err := h.service.ApproveOffice(c.Request.Context(), id, approver)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// Reject terminates a request with a reason
func (h *RequestHandler) Reject(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}
	rejecter, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Reject(c.Request.Context(), id, rejecter, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

type distributeLine struct {
	LineItemID string `json:"line_item_id" binding:"required,uuid"`
	Quantity   int64  `json:"quantity" binding:"min=0"`
}

type distributeRequest struct {
	Allocations []distributeLine `json:"allocations" binding:"required,dive"`
}

// Distribute hands goods over on a fully approved ATK request
func (h *RequestHandler) Distribute(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}
	distributor, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req distributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	allocations := make([]request.Allocation, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		lineID, err := uuid.Parse(a.LineItemID)
		if err != nil {
			h.BadRequest(c, "Invalid line item ID")
			return
		}
		allocations = append(allocations, request.Allocation{
			LineItemID: lineID,
			Quantity:   a.Quantity,
		})
	}

	updated, err := h.service.Distribute(c.Request.Context(), id, apprequest.DistributeInput{
		DistributorID: distributor,
		Allocations:   allocations,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// ConfirmReceive acknowledges receipt and debits the ledger
func (h *RequestHandler) ConfirmReceive(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}
	confirmer, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	updated, err := h.service.ConfirmReceive(c.Request.Context(), id, confirmer)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Get returns one request with its lines
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}
	req, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, req)
}

// List returns requests with pagination; status and variant narrow the
// result
func (h *RequestHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if variant := c.Query("variant"); variant != "" {
		filter.Filters["variant"] = variant
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
