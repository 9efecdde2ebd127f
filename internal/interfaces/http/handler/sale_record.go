package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/inventario/backend/internal/application/trade"
)

// ExportHandler handles export records of sales
type ExportHandler struct {
	BaseHandler
	exportService *tradeapp.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *tradeapp.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Create handles POST /exports
func (h *ExportHandler) Create(c *gin.Context) {
	var req tradeapp.CreateExportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	export, err := h.exportService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, export)
}

// GetByID handles GET /exports/:id
func (h *ExportHandler) GetByID(c *gin.Context) {
	exportID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	export, err := h.exportService.GetByID(c.Request.Context(), exportID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, export)
}

// List handles GET /exports
func (h *ExportHandler) List(c *gin.Context) {
	var filter tradeapp.SaleRecordFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	exports, total, err := h.exportService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Page(c, exports, total, filter.Page, filter.PageSize)
}

// Update handles PUT /exports/:id
func (h *ExportHandler) Update(c *gin.Context) {
	exportID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.UpdateExportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	export, err := h.exportService.Update(c.Request.Context(), exportID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, export)
}

// Delete handles DELETE /exports/:id
func (h *ExportHandler) Delete(c *gin.Context) {
	exportID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.exportService.Delete(c.Request.Context(), exportID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ReturnHandler handles return records of sales
type ReturnHandler struct {
	BaseHandler
	returnService *tradeapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *tradeapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
	}
}

// Create handles POST /returns. The sale's unreturned quantities go back
// to stock.
func (h *ReturnHandler) Create(c *gin.Context) {
	var req tradeapp.CreateReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ret, err := h.returnService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ret)
}

// GetByID handles GET /returns/:id
func (h *ReturnHandler) GetByID(c *gin.Context) {
	returnID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// List handles GET /returns
func (h *ReturnHandler) List(c *gin.Context) {
	var filter tradeapp.SaleRecordFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	returns, total, err := h.returnService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Page(c, returns, total, filter.Page, filter.PageSize)
}

// Update handles PUT /returns/:id
func (h *ReturnHandler) Update(c *gin.Context) {
	returnID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.UpdateReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ret, err := h.returnService.Update(c.Request.Context(), returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Delete handles DELETE /returns/:id
func (h *ReturnHandler) Delete(c *gin.Context) {
	returnID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.returnService.Delete(c.Request.Context(), returnID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
