package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"gorm.io/gorm"
)

// 参与成本统计的采购单状态
var committedOrderStatuses = []string{
	entity.POStatusApproved,
	entity.POStatusSent,
	entity.POStatusConfirmed,
	entity.POStatusDelivered,
	entity.POStatusCompleted,
}

// PORepository 采购单仓库
type PORepository struct {
	db *gorm.DB
}

func NewPORepository(db *gorm.DB) *PORepository {
	return &PORepository{db: db}
}

// FindAll 查询采购单列表
func (r *PORepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	var items []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if vendorID := filters["vendor_id"]; vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("po_number ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Project").
		Preload("Vendor").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找采购单（含明细）
func (r *PORepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Vendor").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Material").
		Where("id = ?", id).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// Create 创建采购单及明细
func (r *PORepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

// Update 更新采购单
func (r *PORepository) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

// Delete 删除采购单及明细
func (r *PORepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).Delete(&entity.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.PurchaseOrder{}).Error
	})
}

// GenerateNumber 生成采购单号 PO{年月}{4位流水}
func (r *PORepository) GenerateNumber(ctx context.Context) (string, error) {
	prefix := "PO" + time.Now().Format("200601")
	return NextCode(ctx, r.db, prefix)
}

// ReceiveItem 收货（累加收货数量并更新收货状态）
func (r *PORepository) ReceiveItem(ctx context.Context, itemID string, receivedQty float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item entity.PurchaseOrderItem
		if err := tx.Where("id = ?", itemID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		item.ReceivedQuantity += receivedQty
		if item.ReceivedQuantity >= item.Quantity {
			item.ReceivingStatus = entity.ReceivingStatusCompleted
		} else if item.ReceivedQuantity > 0 {
			item.ReceivingStatus = entity.ReceivingStatusPartial
		}

		return tx.Save(&item).Error
	})
}

// DeliveryStatusRow 交货状态行
type DeliveryStatusRow struct {
	POID                 string  `json:"po_id"`
	PONumber             string  `json:"po_number"`
	ProjectName          string  `json:"project_name"`
	VendorName           string  `json:"vendor_name"`
	ExpectedDeliveryDate *string `json:"expected_delivery_date"`
	TotalAmount          float64 `json:"total_amount"`
	IsDelayed            bool    `json:"is_delayed"`
	DaysDelayed          int     `json:"days_delayed"`
}

// DeliveryStatus 已确认待交货订单的交期跟踪
func (r *PORepository) DeliveryStatus(ctx context.Context) ([]DeliveryStatusRow, error) {
	var rows []DeliveryStatusRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT po.id AS po_id,
		       po.po_number,
		       p.name AS project_name,
		       v.name AS vendor_name,
		       TO_CHAR(po.expected_delivery_date, 'YYYY-MM-DD') AS expected_delivery_date,
		       po.total_amount,
		       po.expected_delivery_date IS NOT NULL AND po.expected_delivery_date < NOW() AS is_delayed,
		       CASE
		           WHEN po.expected_delivery_date IS NOT NULL AND po.expected_delivery_date < NOW()
		           THEN EXTRACT(DAY FROM NOW() - po.expected_delivery_date)::int
		           ELSE 0
		       END AS days_delayed
		FROM purchase_orders po
		JOIN projects p ON p.id = po.project_id
		JOIN vendors v ON v.id = po.vendor_id
		WHERE po.status = ?
		ORDER BY po.expected_delivery_date ASC NULLS LAST`, entity.POStatusConfirmed).Scan(&rows).Error
	return rows, err
}

// CostAnalysisRow 成本分析行
type CostAnalysisRow struct {
	ProjectName  string  `json:"project_name"`
	Category     string  `json:"category"`
	TotalAmount  float64 `json:"total_amount"`
	OrderCount   int64   `json:"order_count"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
}

// CostAnalysis 按项目和物料类别统计采购成本
func (r *PORepository) CostAnalysis(ctx context.Context, projectID string) ([]CostAnalysisRow, error) {
	query := r.db.WithContext(ctx).Raw(`
		SELECT p.name AS project_name,
		       m.category,
		       COALESCE(SUM(i.total_price), 0) AS total_amount,
		       COUNT(DISTINCT po.id) AS order_count,
		       COALESCE(AVG(i.unit_price), 0) AS avg_unit_price
		FROM purchase_order_items i
		JOIN purchase_orders po ON po.id = i.purchase_order_id
		JOIN projects p ON p.id = po.project_id
		JOIN materials m ON m.id = i.material_id
		WHERE po.status IN ?
		  AND (? = '' OR po.project_id = ?)
		GROUP BY p.name, m.category
		ORDER BY p.name, total_amount DESC`, committedOrderStatuses, projectID, projectID)

	var rows []CostAnalysisRow
	err := query.Scan(&rows).Error
	return rows, err
}
