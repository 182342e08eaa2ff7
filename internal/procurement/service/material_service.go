package service

import (
	"context"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/google/uuid"
)

// MaterialService 物料服务
type MaterialService struct {
	repo *repository.MaterialRepository
}

func NewMaterialService(repo *repository.MaterialRepository) *MaterialService {
	return &MaterialService{repo: repo}
}

// CreateMaterialRequest 创建物料请求
type CreateMaterialRequest struct {
	Name           string        `json:"name" binding:"required"`
	Description    string        `json:"description"`
	Category       string        `json:"category" binding:"required"`
	Subcategory    string        `json:"subcategory"`
	Unit           string        `json:"unit" binding:"required"`
	Specifications *entity.JSONB `json:"specifications"`
	EstimatedPrice *float64      `json:"estimated_price"`
}

// UpdateMaterialRequest 更新物料请求
type UpdateMaterialRequest struct {
	Name           *string       `json:"name"`
	Description    *string       `json:"description"`
	Category       *string       `json:"category"`
	Subcategory    *string       `json:"subcategory"`
	Unit           *string       `json:"unit"`
	Specifications *entity.JSONB `json:"specifications"`
	EstimatedPrice *float64      `json:"estimated_price"`
	IsActive       *bool         `json:"is_active"`
}

// List 获取物料列表
func (s *MaterialService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Material, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取物料详情
func (s *MaterialService) Get(ctx context.Context, id string) (*entity.Material, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("物料不存在: %s", id)
		}
		return nil, err
	}
	return material, nil
}

// ListByCategory 按类别查询物料
func (s *MaterialService) ListByCategory(ctx context.Context, category string) ([]entity.Material, error) {
	return s.repo.FindByCategory(ctx, category)
}

// Create 创建物料，编码按类别前缀生成
func (s *MaterialService) Create(ctx context.Context, req *CreateMaterialRequest) (*entity.Material, error) {
	code, err := s.repo.GenerateCode(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	material := &entity.Material{
		ID:             uuid.New().String(),
		Code:           code,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Subcategory:    req.Subcategory,
		Unit:           req.Unit,
		Specifications: req.Specifications,
		EstimatedPrice: req.EstimatedPrice,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// Update 更新物料
func (s *MaterialService) Update(ctx context.Context, id string, req *UpdateMaterialRequest) (*entity.Material, error) {
	material, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		material.Name = *req.Name
	}
	if req.Description != nil {
		material.Description = *req.Description
	}
	if req.Category != nil {
		material.Category = *req.Category
	}
	if req.Subcategory != nil {
		material.Subcategory = *req.Subcategory
	}
	if req.Unit != nil {
		material.Unit = *req.Unit
	}
	if req.Specifications != nil {
		material.Specifications = req.Specifications
	}
	if req.EstimatedPrice != nil {
		material.EstimatedPrice = req.EstimatedPrice
	}
	if req.IsActive != nil {
		material.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// Deactivate 停用物料
func (s *MaterialService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return NotFoundError("物料不存在: %s", id)
		}
		return err
	}
	return nil
}

// Categories 物料类别列表
func (s *MaterialService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Search 模糊搜索物料
func (s *MaterialService) Search(ctx context.Context, keyword string) ([]entity.Material, error) {
	if keyword == "" {
		return nil, ValidationError("搜索关键字不能为空")
	}
	return s.repo.Search(ctx, keyword)
}

// PriceHistory 物料历史成交价
func (s *MaterialService) PriceHistory(ctx context.Context, id string) ([]repository.PriceHistoryRow, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.PriceHistory(ctx, id)
}

// UsageAnalysis 物料用量分析
func (s *MaterialService) UsageAnalysis(ctx context.Context) ([]repository.UsageRow, error) {
	return s.repo.UsageAnalysis(ctx)
}

// TopMaterials 采购金额前N的物料
func (s *MaterialService) TopMaterials(ctx context.Context, limit int) ([]repository.UsageRow, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.TopBySpend(ctx, limit)
}
