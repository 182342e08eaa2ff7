package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"gorm.io/gorm"
)

// 参与价格统计的采购单状态
var pricedOrderStatuses = []string{
	entity.POStatusConfirmed,
	entity.POStatusDelivered,
	entity.POStatusCompleted,
}

// MaterialRepository 物料仓库
type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// FindAll 查询启用物料，按类别+名称排序
func (r *MaterialRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Material, int64, error) {
	var items []entity.Material
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Material{}).Where("is_active = ?", true)

	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR description ILIKE ? OR code ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("category, name").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找物料
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*entity.Material, error) {
	var material entity.Material
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindByCategory 按类别查询启用物料
func (r *MaterialRepository) FindByCategory(ctx context.Context, category string) ([]entity.Material, error) {
	var items []entity.Material
	err := r.db.WithContext(ctx).
		Where("category = ? AND is_active = ?", category, true).
		Order("name").
		Find(&items).Error
	return items, err
}

// Create 创建物料
func (r *MaterialRepository) Create(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

// Update 更新物料
func (r *MaterialRepository) Update(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// Deactivate 停用物料（软删除）
func (r *MaterialRepository) Deactivate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Material{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Categories 所有启用物料的类别
func (r *MaterialRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&entity.Material{}).
		Where("is_active = ?", true).
		Distinct().
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// 物料类别编码前缀
var categoryPrefixes = map[string]string{
	"钢筋":  "STL",
	"混凝土": "CON",
	"砖块":  "BRK",
	"木材":  "WOD",
	"铝材":  "ALU",
	"管材":  "PIP",
	"电线":  "WIR",
	"五金":  "HRW",
	"油漆":  "PNT",
	"防水材": "WPF",
	"保温材": "INS",
	"玻璃":  "GLS",
}

// GenerateCode 生成物料编码 {类别前缀}{2位年份}{4位流水}
func (r *MaterialRepository) GenerateCode(ctx context.Context, category string) (string, error) {
	catPrefix, ok := categoryPrefixes[category]
	if !ok {
		catPrefix = "MAT"
	}
	prefix := catPrefix + time.Now().Format("06")
	return NextCode(ctx, r.db, prefix)
}

// PriceHistoryRow 物料历史成交价
type PriceHistoryRow struct {
	PONumber   string  `json:"po_number"`
	VendorName string  `json:"vendor_name"`
	OrderDate  string  `json:"order_date"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// PriceHistory 最近20笔有效订单的成交价
func (r *MaterialRepository) PriceHistory(ctx context.Context, materialID string) ([]PriceHistoryRow, error) {
	var rows []PriceHistoryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT po.po_number,
		       v.name AS vendor_name,
		       TO_CHAR(po.order_date, 'YYYY-MM-DD') AS order_date,
		       i.quantity,
		       i.unit_price,
		       i.total_price
		FROM purchase_order_items i
		JOIN purchase_orders po ON po.id = i.purchase_order_id
		JOIN vendors v ON v.id = po.vendor_id
		WHERE i.material_id = ?
		  AND po.status IN ?
		ORDER BY po.order_date DESC
		LIMIT 20`, materialID, pricedOrderStatuses).Scan(&rows).Error
	return rows, err
}

// UsageRow 物料用量统计行
type UsageRow struct {
	MaterialID    string  `json:"material_id"`
	MaterialName  string  `json:"material_name"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalAmount   float64 `json:"total_amount"`
	OrderCount    int64   `json:"order_count"`
	AvgUnitPrice  float64 `json:"avg_unit_price"`
}

// UsageAnalysis 按物料统计有效订单的用量与金额
func (r *MaterialRepository) UsageAnalysis(ctx context.Context) ([]UsageRow, error) {
	var rows []UsageRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT m.id AS material_id,
		       m.name AS material_name,
		       m.category,
		       m.unit,
		       COALESCE(SUM(i.quantity), 0) AS total_quantity,
		       COALESCE(SUM(i.total_price), 0) AS total_amount,
		       COUNT(DISTINCT po.id) AS order_count,
		       COALESCE(AVG(i.unit_price), 0) AS avg_unit_price
		FROM materials m
		JOIN purchase_order_items i ON i.material_id = m.id
		JOIN purchase_orders po ON po.id = i.purchase_order_id
		WHERE po.status IN ?
		GROUP BY m.id, m.name, m.category, m.unit
		ORDER BY total_amount DESC`, pricedOrderStatuses).Scan(&rows).Error
	return rows, err
}

// TopBySpend 采购金额前N的物料
func (r *MaterialRepository) TopBySpend(ctx context.Context, limit int) ([]UsageRow, error) {
	rows, err := r.UsageAnalysis(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Search 按名称、描述、编码模糊搜索启用物料
func (r *MaterialRepository) Search(ctx context.Context, keyword string) ([]entity.Material, error) {
	var items []entity.Material
	pattern := "%" + keyword + "%"
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("name ILIKE ? OR description ILIKE ? OR code ILIKE ?", pattern, pattern, pattern).
		Order("category, name").
		Find(&items).Error
	return items, err
}
