package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"gorm.io/gorm"
)

// VendorRepository 供应商仓库
type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// FindAll 查询供应商列表
func (r *VendorRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Vendor, int64, error) {
	var items []entity.Vendor
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Vendor{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ? OR contact_person ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找供应商
func (r *VendorRepository) FindByID(ctx context.Context, id string) (*entity.Vendor, error) {
	var vendor entity.Vendor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// Create 创建供应商
func (r *VendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

// Update 更新供应商
func (r *VendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

// Delete 删除供应商
func (r *VendorRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Vendor{}).Error
}

// CountPurchaseOrders 供应商名下采购单数量
func (r *VendorRepository) CountPurchaseOrders(ctx context.Context, vendorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Where("vendor_id = ?", vendorID).
		Count(&count).Error
	return count, err
}

// UpdateRating 更新供应商评级
func (r *VendorRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Vendor{}).
		Where("id = ?", id).
		Update("rating", rating)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindBySpecialty 按专业类别查询在营供应商（JSONB包含）
func (r *VendorRepository) FindBySpecialty(ctx context.Context, specialty string) ([]entity.Vendor, error) {
	needle, err := json.Marshal([]string{specialty})
	if err != nil {
		return nil, err
	}

	var items []entity.Vendor
	err = r.db.WithContext(ctx).
		Where("status = ?", entity.VendorStatusActive).
		Where("specialties @> ?", string(needle)).
		Order("name").
		Find(&items).Error
	return items, err
}

// FindTopRated 按评级取前N名在营供应商
func (r *VendorRepository) FindTopRated(ctx context.Context, limit int) ([]entity.Vendor, error) {
	var items []entity.Vendor
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.VendorStatusActive).
		Where("rating IS NOT NULL").
		Order("rating DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// GenerateCode 生成供应商编码 V{年份}{4位流水}
func (r *VendorRepository) GenerateCode(ctx context.Context) (string, error) {
	prefix := "V" + time.Now().Format("2006")
	return NextCode(ctx, r.db, prefix)
}

// PerformanceRow 供应商绩效统计行
type PerformanceRow struct {
	VendorID   string  `json:"vendor_id"`
	VendorName string  `json:"vendor_name"`
	OrderCount int64   `json:"order_count"`
	TotalValue float64 `json:"total_value"`
	AvgValue   float64 `json:"avg_value"`
	OnTime     int64   `json:"on_time_deliveries"`
	Delayed    int64   `json:"delayed_deliveries"`
}

// Performance 统计已交货订单的供应商绩效
func (r *VendorRepository) Performance(ctx context.Context) ([]PerformanceRow, error) {
	var rows []PerformanceRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT v.id AS vendor_id,
		       v.name AS vendor_name,
		       COUNT(po.id) AS order_count,
		       COALESCE(SUM(po.total_amount), 0) AS total_value,
		       COALESCE(AVG(po.total_amount), 0) AS avg_value,
		       COUNT(po.id) FILTER (
		           WHERE po.actual_delivery_date IS NOT NULL
		             AND po.expected_delivery_date IS NOT NULL
		             AND po.actual_delivery_date <= po.expected_delivery_date
		       ) AS on_time,
		       COUNT(po.id) FILTER (
		           WHERE po.actual_delivery_date IS NOT NULL
		             AND po.expected_delivery_date IS NOT NULL
		             AND po.actual_delivery_date > po.expected_delivery_date
		       ) AS delayed
		FROM vendors v
		JOIN purchase_orders po ON po.vendor_id = v.id
		WHERE po.status IN ('delivered', 'completed')
		GROUP BY v.id, v.name
		ORDER BY total_value DESC`).Scan(&rows).Error
	return rows, err
}
