package repository

import (
	"context"
	"errors"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"gorm.io/gorm"
)

// ProjectRepository 项目仓库
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindAll 查询项目列表
func (r *ProjectRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	var items []entity.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Project{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if manager := filters["manager"]; manager != "" {
		query = query.Where("manager = ?", manager)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Budgets").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找项目（含预算和进度）
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Preload("Budgets").
		Preload("Progress", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// ExistsByCode 项目编号是否已存在
func (r *ProjectRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Project{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// Create 创建项目（带默认预算科目时一并写入）
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update 更新项目
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete 删除项目及预算、进度
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&entity.ProjectBudget{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&entity.ProjectProgress{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Project{}).Error
	})
}

// BudgetSummaryRow 预算汇总行
type BudgetSummaryRow struct {
	Category        string  `json:"category"`
	BudgetAmount    float64 `json:"budget_amount"`
	CommittedAmount float64 `json:"committed_amount"`
	ActualAmount    float64 `json:"actual_amount"`
}

// BudgetSummary 按科目分类汇总项目预算
func (r *ProjectRepository) BudgetSummary(ctx context.Context, projectID string) ([]BudgetSummaryRow, error) {
	var rows []BudgetSummaryRow
	err := r.db.WithContext(ctx).
		Model(&entity.ProjectBudget{}).
		Select("category, SUM(budget_amount) AS budget_amount, SUM(committed_amount) AS committed_amount, SUM(actual_amount) AS actual_amount").
		Where("project_id = ?", projectID).
		Group("category").
		Order("category").
		Scan(&rows).Error
	return rows, err
}

// FindProgress 查询项目进度任务
func (r *ProjectRepository) FindProgress(ctx context.Context, projectID string) ([]entity.ProjectProgress, error) {
	var items []entity.ProjectProgress
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
