package service

import (
	"context"
	"fmt"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/google/uuid"
)

// VendorService 供应商服务
type VendorService struct {
	repo *repository.VendorRepository
}

func NewVendorService(repo *repository.VendorRepository) *VendorService {
	return &VendorService{repo: repo}
}

// CreateVendorRequest 创建供应商请求
type CreateVendorRequest struct {
	Name          string             `json:"name" binding:"required"`
	ContactPerson string             `json:"contact_person"`
	Phone         string             `json:"phone"`
	Email         string             `json:"email"`
	Address       string             `json:"address"`
	TaxID         string             `json:"tax_id"`
	PaymentTerms  string             `json:"payment_terms"`
	Specialties   *entity.JSONBArray `json:"specialties"`
	Notes         string             `json:"notes"`
}

// UpdateVendorRequest 更新供应商请求
type UpdateVendorRequest struct {
	Name          *string            `json:"name"`
	Status        *string            `json:"status"`
	ContactPerson *string            `json:"contact_person"`
	Phone         *string            `json:"phone"`
	Email         *string            `json:"email"`
	Address       *string            `json:"address"`
	TaxID         *string            `json:"tax_id"`
	PaymentTerms  *string            `json:"payment_terms"`
	Specialties   *entity.JSONBArray `json:"specialties"`
	Notes         *string            `json:"notes"`
}

// List 获取供应商列表
func (s *VendorService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Vendor, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取供应商详情
func (s *VendorService) Get(ctx context.Context, id string) (*entity.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("供应商不存在: %s", id)
		}
		return nil, err
	}
	return vendor, nil
}

// Create 创建供应商
func (s *VendorService) Create(ctx context.Context, userID string, req *CreateVendorRequest) (*entity.Vendor, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	vendor := &entity.Vendor{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          req.Name,
		Status:        entity.VendorStatusActive,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		TaxID:         req.TaxID,
		PaymentTerms:  req.PaymentTerms,
		Specialties:   req.Specialties,
		Notes:         req.Notes,
		CreatedBy:     userID,
	}

	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Update 更新供应商
func (s *VendorService) Update(ctx context.Context, id string, req *UpdateVendorRequest) (*entity.Vendor, error) {
	vendor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.Status != nil {
		vendor.Status = *req.Status
	}
	if req.ContactPerson != nil {
		vendor.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		vendor.Phone = *req.Phone
	}
	if req.Email != nil {
		vendor.Email = *req.Email
	}
	if req.Address != nil {
		vendor.Address = *req.Address
	}
	if req.TaxID != nil {
		vendor.TaxID = *req.TaxID
	}
	if req.PaymentTerms != nil {
		vendor.PaymentTerms = *req.PaymentTerms
	}
	if req.Specialties != nil {
		vendor.Specialties = req.Specialties
	}
	if req.Notes != nil {
		vendor.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Delete 删除供应商，存在采购单时拒绝
func (s *VendorService) Delete(ctx context.Context, id string) error {
	vendor, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountPurchaseOrders(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ConflictError("供应商 %s 存在 %d 张采购单，无法删除", vendor.Name, count)
	}

	return s.repo.Delete(ctx, id)
}

// UpdateRating 更新供应商评级，范围0-5
func (s *VendorService) UpdateRating(ctx context.Context, id string, rating float64) (*entity.Vendor, error) {
	if rating < 0 || rating > 5 {
		return nil, ValidationError("评级必须在0到5之间: %.2f", rating)
	}

	if err := s.repo.UpdateRating(ctx, id, rating); err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("供应商不存在: %s", id)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// ListBySpecialty 按专业类别查询在营供应商
func (s *VendorService) ListBySpecialty(ctx context.Context, specialty string) ([]entity.Vendor, error) {
	if specialty == "" {
		return nil, ValidationError("专业类别不能为空")
	}
	return s.repo.FindBySpecialty(ctx, specialty)
}

// ListTopRated 按评级取前N名供应商
func (s *VendorService) ListTopRated(ctx context.Context, limit int) ([]entity.Vendor, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.FindTopRated(ctx, limit)
}

// VendorPerformance 供应商绩效
type VendorPerformance struct {
	VendorID          string  `json:"vendor_id"`
	VendorName        string  `json:"vendor_name"`
	OrderCount        int64   `json:"order_count"`
	TotalValue        float64 `json:"total_value"`
	AvgValue          float64 `json:"avg_value"`
	OnTimeDeliveries  int64   `json:"on_time_deliveries"`
	DelayedDeliveries int64   `json:"delayed_deliveries"`
	OnTimeRate        string  `json:"on_time_rate"`
}

// PerformanceAnalysis 供应商绩效分析，准交率 = 准时/有效交货
func (s *VendorService) PerformanceAnalysis(ctx context.Context) ([]VendorPerformance, error) {
	rows, err := s.repo.Performance(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]VendorPerformance, 0, len(rows))
	for _, row := range rows {
		perf := VendorPerformance{
			VendorID:          row.VendorID,
			VendorName:        row.VendorName,
			OrderCount:        row.OrderCount,
			TotalValue:        row.TotalValue,
			AvgValue:          row.AvgValue,
			OnTimeDeliveries:  row.OnTime,
			DelayedDeliveries: row.Delayed,
			OnTimeRate:        "0.00%",
		}
		if total := row.OnTime + row.Delayed; total > 0 {
			perf.OnTimeRate = fmt.Sprintf("%.2f%%", float64(row.OnTime)/float64(total)*100)
		}
		result = append(result, perf)
	}
	return result, nil
}
