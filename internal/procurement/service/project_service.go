package service

import (
	"context"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/google/uuid"
)

// ProjectService 项目服务
type ProjectService struct {
	repo *repository.ProjectRepository
}

func NewProjectService(repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// 新项目的默认预算科目
var defaultBudgetItems = []struct {
	Category    string
	ItemName    string
	Description string
}{
	{"材料费", "建材采购", "建筑材料采购费用"},
	{"人工费", "工程施工", "施工人工费用"},
	{"机具费", "设备租赁", "机械设备租赁费用"},
	{"管理费", "项目管理", "项目管理费用"},
	{"其他费用", "杂项支出", "其他杂项费用"},
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Code        string     `json:"code" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	TotalBudget float64    `json:"total_budget" binding:"gte=0"`
	Manager     string     `json:"manager"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	TotalBudget *float64   `json:"total_budget"`
	Manager     *string    `json:"manager"`
}

// List 获取项目列表
func (s *ProjectService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取项目详情
func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("项目不存在: %s", id)
		}
		return nil, err
	}
	return project, nil
}

// Create 创建项目并初始化默认预算科目
func (s *ProjectService) Create(ctx context.Context, userID string, req *CreateProjectRequest) (*entity.Project, error) {
	exists, err := s.repo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ConflictError("项目编号已存在: %s", req.Code)
	}

	projectID := uuid.New().String()
	budgets := make([]entity.ProjectBudget, 0, len(defaultBudgetItems))
	for _, item := range defaultBudgetItems {
		budgets = append(budgets, entity.ProjectBudget{
			ID:          uuid.New().String(),
			ProjectID:   projectID,
			Category:    item.Category,
			ItemName:    item.ItemName,
			Description: item.Description,
		})
	}

	project := &entity.Project{
		ID:          projectID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Status:      entity.ProjectStatusPlanning,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalBudget: req.TotalBudget,
		Manager:     req.Manager,
		CreatedBy:   userID,
		Budgets:     budgets,
	}

	// 项目和预算科目在同一事务内写入
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update 更新项目
func (s *ProjectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if req.TotalBudget != nil {
		project.TotalBudget = *req.TotalBudget
	}
	if req.Manager != nil {
		project.Manager = *req.Manager
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete 删除项目
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// BudgetSummaryItem 预算汇总项
type BudgetSummaryItem struct {
	Category        string  `json:"category"`
	BudgetAmount    float64 `json:"budget_amount"`
	CommittedAmount float64 `json:"committed_amount"`
	ActualAmount    float64 `json:"actual_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
}

// BudgetSummary 预算汇总
type BudgetSummary struct {
	ProjectID      string              `json:"project_id"`
	ProjectName    string              `json:"project_name"`
	TotalBudget    float64             `json:"total_budget"`
	UsedBudget     float64             `json:"used_budget"`
	RemainingTotal float64             `json:"remaining_total"`
	Categories     []BudgetSummaryItem `json:"categories"`
}

// GetBudgetSummary 按科目分类汇总项目预算，余额 = 预算 - 已承诺
func (s *ProjectService) GetBudgetSummary(ctx context.Context, id string) (*BudgetSummary, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.BudgetSummary(ctx, id)
	if err != nil {
		return nil, err
	}

	categories := make([]BudgetSummaryItem, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, BudgetSummaryItem{
			Category:        row.Category,
			BudgetAmount:    row.BudgetAmount,
			CommittedAmount: row.CommittedAmount,
			ActualAmount:    row.ActualAmount,
			RemainingAmount: row.BudgetAmount - row.CommittedAmount,
		})
	}

	return &BudgetSummary{
		ProjectID:      project.ID,
		ProjectName:    project.Name,
		TotalBudget:    project.TotalBudget,
		UsedBudget:     project.UsedBudget,
		RemainingTotal: project.TotalBudget - project.UsedBudget,
		Categories:     categories,
	}, nil
}

// ListProgress 获取项目进度任务
func (s *ProjectService) ListProgress(ctx context.Context, id string) ([]entity.ProjectProgress, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindProgress(ctx, id)
}
