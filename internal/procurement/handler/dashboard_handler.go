package handler

import (
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler 驾驶舱处理器
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetOverview 驾驶舱概览
// GET /api/v1/dashboard/overview
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.svc.GetOverview(c.Request.Context())
	if err != nil {
		InternalError(c, "获取概览失败: "+err.Error())
		return
	}
	Success(c, overview)
}
