package handler

import (
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// FinancialHandler 财务记录处理器
type FinancialHandler struct {
	svc *service.FinancialService
}

func NewFinancialHandler(svc *service.FinancialService) *FinancialHandler {
	return &FinancialHandler{svc: svc}
}

// ListFinancialRecords 财务记录列表
// GET /api/v1/financial-records?project_id=xxx&record_type=xxx&status=xxx&page=1&page_size=20
func (h *FinancialHandler) ListFinancialRecords(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id":  c.Query("project_id"),
		"record_type": c.Query("record_type"),
		"status":      c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取财务记录失败: "+err.Error())
		return
	}

	Success(c, ListResult(items, page, pageSize, total))
}

// GetFinancialRecord 财务记录详情
// GET /api/v1/financial-records/:id
func (h *FinancialHandler) GetFinancialRecord(c *gin.Context) {
	record, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, record)
}

// CreateFinancialRecord 手工创建财务记录
// POST /api/v1/financial-records
func (h *FinancialHandler) CreateFinancialRecord(c *gin.Context) {
	var req service.CreateFinancialRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	record, err := h.svc.Create(c.Request.Context(), GetUserName(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, record)
}

// UpdateFinancialRecordStatus 更新财务记录状态
// PATCH /api/v1/financial-records/:id/status
func (h *FinancialHandler) UpdateFinancialRecordStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	record, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, record)
}
