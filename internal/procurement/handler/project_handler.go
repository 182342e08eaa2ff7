package handler

import (
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects 项目列表
// GET /api/v1/projects?search=xxx&status=xxx&manager=xxx&page=1&page_size=20
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":  c.Query("search"),
		"status":  c.Query("status"),
		"manager": c.Query("manager"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取项目列表失败: "+err.Error())
		return
	}

	Success(c, ListResult(items, page, pageSize, total))
}

// GetProject 项目详情
// GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, project)
}

// CreateProject 创建项目
// POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	project, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, project)
}

// UpdateProject 更新项目
// PUT /api/v1/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	project, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, project)
}

// DeleteProject 删除项目
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// GetBudgetSummary 项目预算汇总
// GET /api/v1/projects/:id/budget-summary
func (h *ProjectHandler) GetBudgetSummary(c *gin.Context) {
	summary, err := h.svc.GetBudgetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, summary)
}

// ListProgress 项目进度任务
// GET /api/v1/projects/:id/progress
func (h *ProjectHandler) ListProgress(c *gin.Context) {
	items, err := h.svc.ListProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}
