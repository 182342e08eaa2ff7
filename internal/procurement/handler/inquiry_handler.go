package handler

import (
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// InquiryHandler 询价处理器
type InquiryHandler struct {
	svc *service.InquiryService
}

func NewInquiryHandler(svc *service.InquiryService) *InquiryHandler {
	return &InquiryHandler{svc: svc}
}

// ListInquiries 询价单列表
// GET /api/v1/inquiries?project_id=xxx&status=xxx&search=xxx&page=1&page_size=20
func (h *InquiryHandler) ListInquiries(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id": c.Query("project_id"),
		"status":     c.Query("status"),
		"search":     c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取询价单列表失败: "+err.Error())
		return
	}

	Success(c, ListResult(items, page, pageSize, total))
}

// GetInquiry 询价单详情
// GET /api/v1/inquiries/:id
func (h *InquiryHandler) GetInquiry(c *gin.Context) {
	inquiry, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, inquiry)
}

// CreateInquiry 创建询价单
// POST /api/v1/inquiries
func (h *InquiryHandler) CreateInquiry(c *gin.Context) {
	var req service.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	inquiry, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, inquiry)
}

// UpdateInquiryStatus 更新询价单状态
// PATCH /api/v1/inquiries/:id/status
func (h *InquiryHandler) UpdateInquiryStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	inquiry, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, inquiry)
}

// DeleteInquiry 删除询价单
// DELETE /api/v1/inquiries/:id
func (h *InquiryHandler) DeleteInquiry(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// AddResponse 供应商提交报价
// POST /api/v1/inquiries/:id/responses
func (h *InquiryHandler) AddResponse(c *gin.Context) {
	var req service.AddResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	response, err := h.svc.AddResponse(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, response)
}

// UpdateResponseStatus 更新报价状态
// PATCH /api/v1/inquiries/responses/:responseId/status
func (h *InquiryHandler) UpdateResponseStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	response, err := h.svc.UpdateResponseStatus(c.Request.Context(), c.Param("responseId"), req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, response)
}

// GetComparison 比价表
// GET /api/v1/inquiries/:id/comparison
func (h *InquiryHandler) GetComparison(c *gin.Context) {
	comparison, err := h.svc.GetComparison(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, comparison)
}
