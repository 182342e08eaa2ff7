package service

import (
	"context"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InquiryService 询价服务
type InquiryService struct {
	repo       *repository.InquiryRepository
	vendorRepo *repository.VendorRepository
	db         *gorm.DB
}

func NewInquiryService(repo *repository.InquiryRepository, vendorRepo *repository.VendorRepository, db *gorm.DB) *InquiryService {
	return &InquiryService{repo: repo, vendorRepo: vendorRepo, db: db}
}

// CreateInquiryItemRequest 询价明细请求
type CreateInquiryItemRequest struct {
	MaterialID   string     `json:"material_id" binding:"required"`
	Quantity     float64    `json:"quantity" binding:"required,gt=0"`
	Unit         string     `json:"unit" binding:"required"`
	RequiredDate *time.Time `json:"required_date"`
	Notes        string     `json:"notes"`
}

// CreateInquiryRequest 创建询价单请求
type CreateInquiryRequest struct {
	Title        string                     `json:"title" binding:"required"`
	Description  string                     `json:"description"`
	ProjectID    string                     `json:"project_id" binding:"required"`
	DueDate      *time.Time                 `json:"due_date"`
	Requirements *entity.JSONB              `json:"requirements"`
	Items        []CreateInquiryItemRequest `json:"items" binding:"required,min=1,dive"`
}

// List 获取询价单列表
func (s *InquiryService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Inquiry, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取询价单详情
func (s *InquiryService) Get(ctx context.Context, id string) (*entity.Inquiry, error) {
	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("询价单不存在: %s", id)
		}
		return nil, err
	}
	return inquiry, nil
}

// Create 创建询价单及明细
func (s *InquiryService) Create(ctx context.Context, userID string, req *CreateInquiryRequest) (*entity.Inquiry, error) {
	number, err := s.repo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	inquiryID := uuid.New().String()
	items := make([]entity.InquiryItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, entity.InquiryItem{
			ID:           uuid.New().String(),
			InquiryID:    inquiryID,
			MaterialID:   item.MaterialID,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			RequiredDate: item.RequiredDate,
			Notes:        item.Notes,
		})
	}

	inquiry := &entity.Inquiry{
		ID:            inquiryID,
		InquiryNumber: number,
		Title:         req.Title,
		Description:   req.Description,
		ProjectID:     req.ProjectID,
		Status:        entity.InquiryStatusDraft,
		DueDate:       req.DueDate,
		Requirements:  req.Requirements,
		CreatedBy:     userID,
		Items:         items,
	}

	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, err
	}
	return inquiry, nil
}

// UpdateStatus 更新询价单状态，发出时记录发出日期
func (s *InquiryService) UpdateStatus(ctx context.Context, id, status string) (*entity.Inquiry, error) {
	switch status {
	case entity.InquiryStatusDraft, entity.InquiryStatusSent, entity.InquiryStatusResponded,
		entity.InquiryStatusEvaluated, entity.InquiryStatusCancelled:
	default:
		return nil, ValidationError("无效的询价单状态: %s", status)
	}

	inquiry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	inquiry.Status = status
	if status == entity.InquiryStatusSent && inquiry.IssueDate == nil {
		now := time.Now()
		inquiry.IssueDate = &now
	}

	if err := s.repo.Update(ctx, inquiry); err != nil {
		return nil, err
	}
	return inquiry, nil
}

// Delete 删除询价单
func (s *InquiryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddResponseItemRequest 报价明细请求
type AddResponseItemRequest struct {
	InquiryItemID string   `json:"inquiry_item_id" binding:"required"`
	UnitPrice     *float64 `json:"unit_price"`
	DeliveryDays  *int     `json:"delivery_days"`
	IsAvailable   *bool    `json:"is_available"`
	Notes         string   `json:"notes"`
}

// AddResponseRequest 供应商报价请求
type AddResponseRequest struct {
	VendorID     string                   `json:"vendor_id" binding:"required"`
	PaymentTerms string                   `json:"payment_terms"`
	DeliveryDays *int                     `json:"delivery_days"`
	ValidUntil   *time.Time               `json:"valid_until"`
	Notes        string                   `json:"notes"`
	Items        []AddResponseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AddResponse 供应商提交报价。同一供应商对同一询价单只允许一份报价，
// 报价与明细在同一事务内写入，sent状态的询价单转为responded
func (s *InquiryService) AddResponse(ctx context.Context, inquiryID string, req *AddResponseRequest) (*entity.InquiryResponse, error) {
	inquiry, err := s.Get(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	vendor, err := s.vendorRepo.FindByID(ctx, req.VendorID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("供应商不存在: %s", req.VendorID)
		}
		return nil, err
	}

	if _, err := s.repo.FindResponseByVendor(ctx, inquiryID, req.VendorID); err == nil {
		return nil, ConflictError("供应商 %s 已对该询价单报价", vendor.Name)
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	// 明细按询价数量计算总价
	itemQuantities := make(map[string]float64, len(inquiry.Items))
	for _, item := range inquiry.Items {
		itemQuantities[item.ID] = item.Quantity
	}

	responseID := uuid.New().String()
	var totalAmount float64
	items := make([]entity.InquiryResponseItem, 0, len(req.Items))
	for _, item := range req.Items {
		quantity, ok := itemQuantities[item.InquiryItemID]
		if !ok {
			return nil, ValidationError("询价明细不存在: %s", item.InquiryItemID)
		}

		available := true
		if item.IsAvailable != nil {
			available = *item.IsAvailable
		}
		if item.UnitPrice == nil {
			available = false
		}

		respItem := entity.InquiryResponseItem{
			ID:            uuid.New().String(),
			ResponseID:    responseID,
			InquiryItemID: item.InquiryItemID,
			UnitPrice:     item.UnitPrice,
			DeliveryDays:  item.DeliveryDays,
			IsAvailable:   available,
			Notes:         item.Notes,
		}
		if item.UnitPrice != nil {
			total := *item.UnitPrice * quantity
			respItem.TotalPrice = &total
			if available {
				totalAmount += total
			}
		}
		items = append(items, respItem)
	}

	response := &entity.InquiryResponse{
		ID:           responseID,
		InquiryID:    inquiryID,
		VendorID:     req.VendorID,
		Status:       entity.ResponseStatusSubmitted,
		TotalAmount:  totalAmount,
		PaymentTerms: req.PaymentTerms,
		DeliveryDays: req.DeliveryDays,
		ValidUntil:   req.ValidUntil,
		Notes:        req.Notes,
		Items:        items,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(response).Error; err != nil {
			return err
		}
		if inquiry.Status == entity.InquiryStatusSent {
			return tx.Model(&entity.Inquiry{}).
				Where("id = ?", inquiryID).
				Update("status", entity.InquiryStatusResponded).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response.Vendor = vendor
	return response, nil
}

// UpdateResponseStatus 更新报价状态
func (s *InquiryService) UpdateResponseStatus(ctx context.Context, responseID, status string) (*entity.InquiryResponse, error) {
	switch status {
	case entity.ResponseStatusSubmitted, entity.ResponseStatusUnderReview,
		entity.ResponseStatusAccepted, entity.ResponseStatusRejected:
	default:
		return nil, ValidationError("无效的报价状态: %s", status)
	}

	response, err := s.repo.FindResponseByID(ctx, responseID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NotFoundError("报价不存在: %s", responseID)
		}
		return nil, err
	}

	response.Status = status
	if err := s.repo.UpdateResponse(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

// QuoteCell 比价表中单个供应商对单项物料的报价
type QuoteCell struct {
	UnitPrice    *float64 `json:"unit_price"`
	TotalPrice   *float64 `json:"total_price"`
	DeliveryDays *int     `json:"delivery_days"`
	IsAvailable  bool     `json:"is_available"`
}

// ComparisonItem 比价表行
type ComparisonItem struct {
	InquiryItemID string               `json:"inquiry_item_id"`
	Material      *entity.Material     `json:"material"`
	Quantity      float64              `json:"quantity"`
	Unit          string               `json:"unit"`
	Responses     map[string]QuoteCell `json:"responses"`
}

// ComparisonVendor 比价表供应商汇总
type ComparisonVendor struct {
	VendorID        string   `json:"vendor_id"`
	Name            string   `json:"name"`
	TotalAmount     float64  `json:"total_amount"`
	PaymentTerms    string   `json:"payment_terms"`
	DeliveryDays    *int     `json:"delivery_days"`
	EvaluationScore *float64 `json:"evaluation_score"`
}

// ComparisonInquiry 比价表头
type ComparisonInquiry struct {
	ID            string          `json:"id"`
	InquiryNumber string          `json:"inquiry_number"`
	Title         string          `json:"title"`
	Project       *entity.Project `json:"project"`
}

// Comparison 询价比价表
type Comparison struct {
	Inquiry ComparisonInquiry  `json:"inquiry"`
	Items   []ComparisonItem   `json:"items"`
	Vendors []ComparisonVendor `json:"vendors"`
}

// GetComparison 生成比价表。未报价的供应商在明细行补空报价，is_available为false
func (s *InquiryService) GetComparison(ctx context.Context, inquiryID string) (*Comparison, error) {
	inquiry, err := s.Get(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	// 报价按 询价明细ID -> 供应商名 索引
	quotes := make(map[string]map[string]QuoteCell)
	vendors := make([]ComparisonVendor, 0, len(inquiry.Responses))
	for _, response := range inquiry.Responses {
		vendorName := ""
		if response.Vendor != nil {
			vendorName = response.Vendor.Name
		}
		vendors = append(vendors, ComparisonVendor{
			VendorID:        response.VendorID,
			Name:            vendorName,
			TotalAmount:     response.TotalAmount,
			PaymentTerms:    response.PaymentTerms,
			DeliveryDays:    response.DeliveryDays,
			EvaluationScore: response.EvaluationScore,
		})

		for _, item := range response.Items {
			if quotes[item.InquiryItemID] == nil {
				quotes[item.InquiryItemID] = make(map[string]QuoteCell)
			}
			quotes[item.InquiryItemID][vendorName] = QuoteCell{
				UnitPrice:    item.UnitPrice,
				TotalPrice:   item.TotalPrice,
				DeliveryDays: item.DeliveryDays,
				IsAvailable:  item.IsAvailable,
			}
		}
	}

	items := make([]ComparisonItem, 0, len(inquiry.Items))
	for _, item := range inquiry.Items {
		row := ComparisonItem{
			InquiryItemID: item.ID,
			Material:      item.Material,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			Responses:     make(map[string]QuoteCell, len(vendors)),
		}
		for _, vendor := range vendors {
			if cell, ok := quotes[item.ID][vendor.Name]; ok {
				row.Responses[vendor.Name] = cell
			} else {
				row.Responses[vendor.Name] = QuoteCell{IsAvailable: false}
			}
		}
		items = append(items, row)
	}

	return &Comparison{
		Inquiry: ComparisonInquiry{
			ID:            inquiry.ID,
			InquiryNumber: inquiry.InquiryNumber,
			Title:         inquiry.Title,
			Project:       inquiry.Project,
		},
		Items:   items,
		Vendors: vendors,
	}, nil
}
