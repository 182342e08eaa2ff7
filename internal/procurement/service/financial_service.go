package service

import (
	"context"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/google/uuid"
)

// FinancialService 财务记录服务
type FinancialService struct {
	repo *repository.FinancialRepository
}

func NewFinancialService(repo *repository.FinancialRepository) *FinancialService {
	return &FinancialService{repo: repo}
}

// CreateFinancialRecordRequest 创建财务记录请求
type CreateFinancialRecordRequest struct {
	ProjectID   string     `json:"project_id" binding:"required"`
	RecordType  string     `json:"record_type" binding:"required"`
	RecordDate  *time.Time `json:"record_date"`
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	AccountCode string     `json:"account_code"`
	AccountName string     `json:"account_name"`
	Description string     `json:"description"`
	VendorName  string     `json:"vendor_name"`
}

// List 获取财务记录列表
func (s *FinancialService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.FinancialRecord, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取财务记录详情
func (s *FinancialService) Get(ctx context.Context, id string) (*entity.FinancialRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("财务记录不存在: %s", id)
		}
		return nil, err
	}
	return record, nil
}

// Create 手工创建财务记录。暂估凭证由采购单审批自动生成，不允许手工录入
func (s *FinancialService) Create(ctx context.Context, userName string, req *CreateFinancialRecordRequest) (*entity.FinancialRecord, error) {
	switch req.RecordType {
	case entity.RecordTypeExpense, entity.RecordTypePayment, entity.RecordTypeAdjustment:
	case entity.RecordTypeAccrual:
		return nil, ValidationError("暂估凭证由采购单审批自动生成")
	default:
		return nil, ValidationError("无效的记录类型: %s", req.RecordType)
	}

	voucher, err := s.repo.GenerateVoucherNumber(ctx)
	if err != nil {
		return nil, err
	}

	recordDate := time.Now()
	if req.RecordDate != nil {
		recordDate = *req.RecordDate
	}

	record := &entity.FinancialRecord{
		ID:            uuid.New().String(),
		VoucherNumber: voucher,
		ProjectID:     req.ProjectID,
		RecordType:    req.RecordType,
		RecordDate:    recordDate,
		Amount:        req.Amount,
		AccountCode:   req.AccountCode,
		AccountName:   req.AccountName,
		Description:   req.Description,
		VendorName:    req.VendorName,
		Status:        entity.RecordStatusDraft,
		CreatedBy:     userName,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateStatus 更新财务记录状态
func (s *FinancialService) UpdateStatus(ctx context.Context, id, status string) (*entity.FinancialRecord, error) {
	switch status {
	case entity.RecordStatusDraft, entity.RecordStatusApproved, entity.RecordStatusPosted:
	default:
		return nil, ValidationError("无效的记录状态: %s", status)
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Status = status
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
