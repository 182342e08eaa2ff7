package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"gorm.io/gorm"
)

// InquiryRepository 询价单仓库
type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// FindAll 查询询价单列表
func (r *InquiryRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Inquiry, int64, error) {
	var items []entity.Inquiry
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Inquiry{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("title ILIKE ? OR inquiry_number ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Project").
		Preload("Responses").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找询价单（含明细、报价全树）
func (r *InquiryRepository) FindByID(ctx context.Context, id string) (*entity.Inquiry, error) {
	var inquiry entity.Inquiry
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Material").
		Preload("Responses.Vendor").
		Preload("Responses.Items").
		Where("id = ?", id).
		First(&inquiry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inquiry, nil
}

// Create 创建询价单及明细
func (r *InquiryRepository) Create(ctx context.Context, inquiry *entity.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

// Update 更新询价单
func (r *InquiryRepository) Update(ctx context.Context, inquiry *entity.Inquiry) error {
	return r.db.WithContext(ctx).Save(inquiry).Error
}

// UpdateStatus 更新询价单状态
func (r *InquiryRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Inquiry{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除询价单及明细、报价
func (r *InquiryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("response_id IN (?)",
			tx.Model(&entity.InquiryResponse{}).Select("id").Where("inquiry_id = ?", id),
		).Delete(&entity.InquiryResponseItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("inquiry_id = ?", id).Delete(&entity.InquiryResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("inquiry_id = ?", id).Delete(&entity.InquiryItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Inquiry{}).Error
	})
}

// GenerateNumber 生成询价单号 INQ{年月}{4位流水}
func (r *InquiryRepository) GenerateNumber(ctx context.Context) (string, error) {
	prefix := "INQ" + time.Now().Format("200601")
	return NextCode(ctx, r.db, prefix)
}

// FindResponseByVendor 查找某供应商对某询价单的报价
func (r *InquiryRepository) FindResponseByVendor(ctx context.Context, inquiryID, vendorID string) (*entity.InquiryResponse, error) {
	var response entity.InquiryResponse
	err := r.db.WithContext(ctx).
		Where("inquiry_id = ? AND vendor_id = ?", inquiryID, vendorID).
		First(&response).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &response, nil
}

// FindResponseByID 查找报价
func (r *InquiryRepository) FindResponseByID(ctx context.Context, responseID string) (*entity.InquiryResponse, error) {
	var response entity.InquiryResponse
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("Items").
		Where("id = ?", responseID).
		First(&response).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &response, nil
}

// UpdateResponse 更新报价
func (r *InquiryRepository) UpdateResponse(ctx context.Context, response *entity.InquiryResponse) error {
	return r.db.WithContext(ctx).Save(response).Error
}
