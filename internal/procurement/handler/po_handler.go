package handler

import (
	"fmt"
	"net/http"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// POHandler 采购单处理器
type POHandler struct {
	svc *service.POService
}

func NewPOHandler(svc *service.POService) *POHandler {
	return &POHandler{svc: svc}
}

// ListPurchaseOrders 采购单列表
// GET /api/v1/purchase-orders?project_id=xxx&vendor_id=xxx&status=xxx&search=xxx&page=1&page_size=20
func (h *POHandler) ListPurchaseOrders(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id": c.Query("project_id"),
		"vendor_id":  c.Query("vendor_id"),
		"status":     c.Query("status"),
		"search":     c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取采购单列表失败: "+err.Error())
		return
	}

	Success(c, ListResult(items, page, pageSize, total))
}

// GetPurchaseOrder 采购单详情
// GET /api/v1/purchase-orders/:id
func (h *POHandler) GetPurchaseOrder(c *gin.Context) {
	po, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, po)
}

// CreatePurchaseOrder 创建采购单
// POST /api/v1/purchase-orders
func (h *POHandler) CreatePurchaseOrder(c *gin.Context) {
	var req service.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, po)
}

// UpdatePurchaseOrder 更新采购单
// PUT /api/v1/purchase-orders/:id
func (h *POHandler) UpdatePurchaseOrder(c *gin.Context) {
	var req service.UpdatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, po)
}

// DeletePurchaseOrder 删除采购单
// DELETE /api/v1/purchase-orders/:id
func (h *POHandler) DeletePurchaseOrder(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ApprovePurchaseOrder 审批采购单
// PATCH /api/v1/purchase-orders/:id/approve
func (h *POHandler) ApprovePurchaseOrder(c *gin.Context) {
	var req struct {
		ApprovedBy string `json:"approved_by"`
	}
	// 请求体可省略，默认取当前用户名
	_ = c.ShouldBindJSON(&req)
	if req.ApprovedBy == "" {
		req.ApprovedBy = GetUserName(c)
	}

	po, err := h.svc.Approve(c.Request.Context(), c.Param("id"), req.ApprovedBy)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, po)
}

// UpdatePurchaseOrderStatus 更新采购单状态
// PATCH /api/v1/purchase-orders/:id/status
func (h *POHandler) UpdatePurchaseOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, po)
}

// ReceiveItem 采购单明细收货
// POST /api/v1/purchase-orders/items/:itemId/receive
func (h *POHandler) ReceiveItem(c *gin.Context) {
	var req struct {
		ReceivedQuantity float64 `json:"received_quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.svc.ReceiveItem(c.Request.Context(), c.Param("itemId"), req.ReceivedQuantity); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// DeliveryStatus 交期跟踪
// GET /api/v1/purchase-orders/delivery-status
func (h *POHandler) DeliveryStatus(c *gin.Context) {
	rows, err := h.svc.DeliveryStatus(c.Request.Context())
	if err != nil {
		InternalError(c, "获取交期跟踪失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": rows})
}

// CostAnalysis 采购成本分析
// GET /api/v1/purchase-orders/cost-analysis?project_id=xxx
func (h *POHandler) CostAnalysis(c *gin.Context) {
	rows, err := h.svc.CostAnalysis(c.Request.Context(), c.Query("project_id"))
	if err != nil {
		InternalError(c, "获取成本分析失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": rows})
}

// ListFinancialRecords 采购单关联财务记录
// GET /api/v1/purchase-orders/:id/financial-records
func (h *POHandler) ListFinancialRecords(c *gin.Context) {
	records, err := h.svc.ListFinancialRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": records})
}

// ExportPurchaseOrders 导出采购台账
// GET /api/v1/purchase-orders/export?project_id=xxx&status=xxx
func (h *POHandler) ExportPurchaseOrders(c *gin.Context) {
	filters := map[string]string{
		"project_id": c.Query("project_id"),
		"vendor_id":  c.Query("vendor_id"),
		"status":     c.Query("status"),
	}

	f, filename, err := h.svc.Export(c.Request.Context(), filters)
	if err != nil {
		InternalError(c, "导出采购台账失败: "+err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
