package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// POService 采购单服务
type POService struct {
	repo          *repository.PORepository
	projectRepo   *repository.ProjectRepository
	vendorRepo    *repository.VendorRepository
	financialRepo *repository.FinancialRepository
	db            *gorm.DB
}

func NewPOService(repo *repository.PORepository, projectRepo *repository.ProjectRepository, vendorRepo *repository.VendorRepository, financialRepo *repository.FinancialRepository, db *gorm.DB) *POService {
	return &POService{
		repo:          repo,
		projectRepo:   projectRepo,
		vendorRepo:    vendorRepo,
		financialRepo: financialRepo,
		db:            db,
	}
}

// CreatePOItemRequest 采购单明细请求
type CreatePOItemRequest struct {
	MaterialID string  `json:"material_id" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required,gt=0"`
	Unit       string  `json:"unit" binding:"required"`
	UnitPrice  float64 `json:"unit_price" binding:"gte=0"`
	Notes      string  `json:"notes"`
}

// CreatePORequest 创建采购单请求
type CreatePORequest struct {
	ProjectID            string                `json:"project_id" binding:"required"`
	VendorID             string                `json:"vendor_id" binding:"required"`
	InquiryID            *string               `json:"inquiry_id"`
	OrderDate            *time.Time            `json:"order_date"`
	ExpectedDeliveryDate *time.Time            `json:"expected_delivery_date"`
	PaymentTerms         string                `json:"payment_terms"`
	DeliveryAddress      string                `json:"delivery_address"`
	Notes                string                `json:"notes"`
	Items                []CreatePOItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdatePORequest 更新采购单请求
type UpdatePORequest struct {
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	PaymentTerms         *string    `json:"payment_terms"`
	DeliveryAddress      *string    `json:"delivery_address"`
	Notes                *string    `json:"notes"`
}

// List 获取采购单列表
func (s *POService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取采购单详情
func (s *POService) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("采购单不存在: %s", id)
		}
		return nil, err
	}
	return po, nil
}

// Create 创建采购单及明细，总金额按明细汇总
func (s *POService) Create(ctx context.Context, userID string, req *CreatePORequest) (*entity.PurchaseOrder, error) {
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectID); err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("项目不存在: %s", req.ProjectID)
		}
		return nil, err
	}
	if _, err := s.vendorRepo.FindByID(ctx, req.VendorID); err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("供应商不存在: %s", req.VendorID)
		}
		return nil, err
	}

	number, err := s.repo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	poID := uuid.New().String()
	var totalAmount float64
	items := make([]entity.PurchaseOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		totalPrice := item.Quantity * item.UnitPrice
		totalAmount += totalPrice
		items = append(items, entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: poID,
			MaterialID:      item.MaterialID,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
			UnitPrice:       item.UnitPrice,
			TotalPrice:      totalPrice,
			ReceivingStatus: entity.ReceivingStatusPending,
			Notes:           item.Notes,
		})
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	po := &entity.PurchaseOrder{
		ID:                   poID,
		PONumber:             number,
		ProjectID:            req.ProjectID,
		VendorID:             req.VendorID,
		InquiryID:            req.InquiryID,
		Status:               entity.POStatusDraft,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		TotalAmount:          totalAmount,
		PaymentTerms:         req.PaymentTerms,
		DeliveryAddress:      req.DeliveryAddress,
		Notes:                req.Notes,
		CreatedBy:            userID,
		Items:                items,
	}

	if err := s.repo.Create(ctx, po); err != nil {
		return nil, err
	}
	return s.Get(ctx, poID)
}

// Update 更新采购单
func (s *POService) Update(ctx context.Context, id string, req *UpdatePORequest) (*entity.PurchaseOrder, error) {
	po, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ExpectedDeliveryDate != nil {
		po.ExpectedDeliveryDate = req.ExpectedDeliveryDate
	}
	if req.PaymentTerms != nil {
		po.PaymentTerms = *req.PaymentTerms
	}
	if req.DeliveryAddress != nil {
		po.DeliveryAddress = *req.DeliveryAddress
	}
	if req.Notes != nil {
		po.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// Delete 删除采购单，仅限草稿
func (s *POService) Delete(ctx context.Context, id string) error {
	po, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if po.Status != entity.POStatusDraft {
		return TransitionError("只有草稿状态的采购单可以删除，当前状态: %s", po.Status)
	}
	return s.repo.Delete(ctx, id)
}

// Approve 审批采购单。状态流转、项目占用预算、财务凭证和交货
// 进度任务在同一事务内完成，任何一步失败整体回滚
func (s *POService) Approve(ctx context.Context, id, approvedBy string) (*entity.PurchaseOrder, error) {
	po, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusDraft {
		return nil, TransitionError("只有草稿状态的采购单可以审批，当前状态: %s", po.Status)
	}

	vendorName := ""
	if po.Vendor != nil {
		vendorName = po.Vendor.Name
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.PurchaseOrder{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":      entity.POStatusApproved,
				"approved_by": approvedBy,
				"approved_at": now,
			}).Error; err != nil {
			return err
		}

		// 占用项目预算
		if err := tx.Model(&entity.Project{}).
			Where("id = ?", po.ProjectID).
			UpdateColumn("used_budget", gorm.Expr("used_budget + ?", po.TotalAmount)).Error; err != nil {
			return err
		}

		// 财务凭证（暂估）
		voucher, err := repository.NextCode(ctx, tx, "V"+now.Format("200601"))
		if err != nil {
			return err
		}
		record := &entity.FinancialRecord{
			ID:              uuid.New().String(),
			VoucherNumber:   voucher,
			ProjectID:       po.ProjectID,
			PurchaseOrderID: &po.ID,
			RecordType:      entity.RecordTypeAccrual,
			RecordDate:      now,
			Amount:          po.TotalAmount,
			AccountCode:     "5000",
			AccountName:     "材料成本",
			Description:     fmt.Sprintf("采购单 %s - %s", po.PONumber, vendorName),
			VendorName:      vendorName,
			Status:          entity.RecordStatusApproved,
			CreatedBy:       approvedBy,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		// 交货跟踪任务
		progress := &entity.ProjectProgress{
			ID:               uuid.New().String(),
			ProjectID:        po.ProjectID,
			PurchaseOrderID:  &po.ID,
			TaskName:         fmt.Sprintf("采购交货 - %s", po.PONumber),
			Description:      fmt.Sprintf("等待供应商 %s 交货", vendorName),
			Status:           entity.ProgressStatusNotStarted,
			PlannedStartDate: &now,
			PlannedEndDate:   po.ExpectedDeliveryDate,
			ResponsiblePerson: func() string {
				if po.CreatedBy != "" {
					return po.CreatedBy
				}
				return approvedBy
			}(),
		}
		return tx.Create(progress).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// UpdateStatus 更新采购单状态，交货时记录实际交货日期
func (s *POService) UpdateStatus(ctx context.Context, id, status string) (*entity.PurchaseOrder, error) {
	switch status {
	case entity.POStatusDraft, entity.POStatusApproved, entity.POStatusSent,
		entity.POStatusConfirmed, entity.POStatusDelivered,
		entity.POStatusCompleted, entity.POStatusCancelled:
	default:
		return nil, ValidationError("无效的采购单状态: %s", status)
	}

	po, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	po.Status = status
	if status == entity.POStatusDelivered && po.ActualDeliveryDate == nil {
		now := time.Now()
		po.ActualDeliveryDate = &now
	}

	if err := s.repo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// ReceiveItem 明细收货
func (s *POService) ReceiveItem(ctx context.Context, itemID string, receivedQty float64) error {
	if receivedQty <= 0 {
		return ValidationError("收货数量必须大于0: %.2f", receivedQty)
	}
	if err := s.repo.ReceiveItem(ctx, itemID, receivedQty); err != nil {
		if err == repository.ErrNotFound {
			return NotFoundError("采购单明细不存在: %s", itemID)
		}
		return err
	}
	return nil
}

// DeliveryStatus 已确认订单的交期跟踪
func (s *POService) DeliveryStatus(ctx context.Context) ([]repository.DeliveryStatusRow, error) {
	return s.repo.DeliveryStatus(ctx)
}

// CostAnalysis 按项目和物料类别的采购成本分析
func (s *POService) CostAnalysis(ctx context.Context, projectID string) ([]repository.CostAnalysisRow, error) {
	return s.repo.CostAnalysis(ctx, projectID)
}

// ListFinancialRecords 采购单关联的财务记录
func (s *POService) ListFinancialRecords(ctx context.Context, poID string) ([]entity.FinancialRecord, error) {
	if _, err := s.Get(ctx, poID); err != nil {
		return nil, err
	}
	return s.financialRepo.FindByPurchaseOrder(ctx, poID)
}

// Export 导出采购单台账
func (s *POService) Export(ctx context.Context, filters map[string]string) (*excelize.File, string, error) {
	orders, _, err := s.repo.FindAll(ctx, 1, 1000, filters)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "采购台账"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"采购单号", "项目", "供应商", "状态", "下单日期", "预计交货", "实际交货", "总金额", "付款条件"}
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
		f.SetCellStyle(sheet, col+"1", col+"1", boldStyle)
	}

	formatDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}

	for i, po := range orders {
		row := i + 2
		projectName := ""
		if po.Project != nil {
			projectName = po.Project.Name
		}
		vendorName := ""
		if po.Vendor != nil {
			vendorName = po.Vendor.Name
		}
		values := []interface{}{
			po.PONumber,
			projectName,
			vendorName,
			po.Status,
			po.OrderDate.Format("2006-01-02"),
			formatDate(po.ExpectedDeliveryDate),
			formatDate(po.ActualDeliveryDate),
			po.TotalAmount,
			po.PaymentTerms,
		}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v)
		}
	}

	filename := fmt.Sprintf("purchase_orders_%s.xlsx", time.Now().Format("20060102150405"))
	return f, filename, nil
}
