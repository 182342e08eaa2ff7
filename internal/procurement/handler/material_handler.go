package handler

import (
	"strconv"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// MaterialHandler 物料处理器
type MaterialHandler struct {
	svc *service.MaterialService
}

func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// ListMaterials 物料列表
// GET /api/v1/materials?search=xxx&category=xxx&page=1&page_size=20
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":   c.Query("search"),
		"category": c.Query("category"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取物料列表失败: "+err.Error())
		return
	}

	Success(c, ListResult(items, page, pageSize, total))
}

// GetMaterial 物料详情
// GET /api/v1/materials/:id
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	material, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, material)
}

// CreateMaterial 创建物料
// POST /api/v1/materials
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	material, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, material)
}

// UpdateMaterial 更新物料
// PUT /api/v1/materials/:id
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	var req service.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	material, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, material)
}

// DeactivateMaterial 停用物料
// DELETE /api/v1/materials/:id
func (h *MaterialHandler) DeactivateMaterial(c *gin.Context) {
	if err := h.svc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ListCategories 物料类别
// GET /api/v1/materials/categories
func (h *MaterialHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		InternalError(c, "获取物料类别失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": categories})
}

// ListByCategory 按类别查询物料
// GET /api/v1/materials/category/:category
func (h *MaterialHandler) ListByCategory(c *gin.Context) {
	items, err := h.svc.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		InternalError(c, "获取物料失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// SearchMaterials 模糊搜索物料
// GET /api/v1/materials/search?q=xxx
func (h *MaterialHandler) SearchMaterials(c *gin.Context) {
	items, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// GetPriceHistory 物料历史成交价
// GET /api/v1/materials/:id/price-history
func (h *MaterialHandler) GetPriceHistory(c *gin.Context) {
	rows, err := h.svc.PriceHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": rows})
}

// UsageAnalysis 物料用量分析
// GET /api/v1/materials/usage-analysis
func (h *MaterialHandler) UsageAnalysis(c *gin.Context) {
	rows, err := h.svc.UsageAnalysis(c.Request.Context())
	if err != nil {
		InternalError(c, "获取用量分析失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": rows})
}

// TopMaterials 采购金额前N物料
// GET /api/v1/materials/top-materials?limit=10
func (h *MaterialHandler) TopMaterials(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.svc.TopMaterials(c.Request.Context(), limit)
	if err != nil {
		InternalError(c, "获取物料排名失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": rows})
}
