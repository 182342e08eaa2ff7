package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"gorm.io/gorm"
)

// FinancialRepository 财务记录仓库
type FinancialRepository struct {
	db *gorm.DB
}

func NewFinancialRepository(db *gorm.DB) *FinancialRepository {
	return &FinancialRepository{db: db}
}

// FindAll 查询财务记录
func (r *FinancialRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.FinancialRecord, int64, error) {
	var items []entity.FinancialRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.FinancialRecord{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if recordType := filters["record_type"]; recordType != "" {
		query = query.Where("record_type = ?", recordType)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("record_date DESC, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找财务记录
func (r *FinancialRepository) FindByID(ctx context.Context, id string) (*entity.FinancialRecord, error) {
	var record entity.FinancialRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByPurchaseOrder 查找采购单关联的财务记录
func (r *FinancialRepository) FindByPurchaseOrder(ctx context.Context, poID string) ([]entity.FinancialRecord, error) {
	var items []entity.FinancialRecord
	err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", poID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// GenerateVoucherNumber 生成凭证号 V{年月}{4位流水}
func (r *FinancialRepository) GenerateVoucherNumber(ctx context.Context) (string, error) {
	prefix := "V" + time.Now().Format("200601")
	return NextCode(ctx, r.db, prefix)
}

// Create 创建财务记录
func (r *FinancialRepository) Create(ctx context.Context, record *entity.FinancialRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Update 更新财务记录
func (r *FinancialRepository) Update(ctx context.Context, record *entity.FinancialRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}
