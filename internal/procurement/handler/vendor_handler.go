package handler

import (
	"strconv"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// VendorHandler 供应商处理器
type VendorHandler struct {
	svc *service.VendorService
}

func NewVendorHandler(svc *service.VendorService) *VendorHandler {
	return &VendorHandler{svc: svc}
}

// ListVendors 供应商列表
// GET /api/v1/vendors?search=xxx&status=xxx&page=1&page_size=20
func (h *VendorHandler) ListVendors(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
		"status": c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取供应商列表失败: "+err.Error())
		return
	}

	Success(c, ListResult(items, page, pageSize, total))
}

// GetVendor 供应商详情
// GET /api/v1/vendors/:id
func (h *VendorHandler) GetVendor(c *gin.Context) {
	vendor, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, vendor)
}

// CreateVendor 创建供应商
// POST /api/v1/vendors
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req service.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	vendor, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, vendor)
}

// UpdateVendor 更新供应商
// PUT /api/v1/vendors/:id
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	var req service.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	vendor, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, vendor)
}

// DeleteVendor 删除供应商
// DELETE /api/v1/vendors/:id
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// UpdateRating 更新供应商评级
// PATCH /api/v1/vendors/:id/rating
func (h *VendorHandler) UpdateRating(c *gin.Context) {
	var req struct {
		Rating *float64 `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	vendor, err := h.svc.UpdateRating(c.Request.Context(), c.Param("id"), *req.Rating)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, vendor)
}

// PerformanceAnalysis 供应商绩效分析
// GET /api/v1/vendors/performance-analysis
func (h *VendorHandler) PerformanceAnalysis(c *gin.Context) {
	result, err := h.svc.PerformanceAnalysis(c.Request.Context())
	if err != nil {
		InternalError(c, "获取供应商绩效失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": result})
}

// ListBySpecialty 按专业类别查询供应商
// GET /api/v1/vendors/by-specialty?specialty=xxx
func (h *VendorHandler) ListBySpecialty(c *gin.Context) {
	items, err := h.svc.ListBySpecialty(c.Request.Context(), c.Query("specialty"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// ListTopVendors 评级前N供应商
// GET /api/v1/vendors/top-vendors?limit=10
func (h *VendorHandler) ListTopVendors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	items, err := h.svc.ListTopRated(c.Request.Context(), limit)
	if err != nil {
		InternalError(c, "获取供应商排名失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}
