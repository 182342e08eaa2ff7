package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	dashboardCacheKey = "dashboard:overview"
	dashboardCacheTTL = 60 * time.Second
)

// DashboardService 驾驶舱概览服务
type DashboardService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client) *DashboardService {
	return &DashboardService{db: db, rdb: rdb}
}

// Overview 驾驶舱概览
type Overview struct {
	ActiveProjects  int64   `json:"active_projects"`
	ActiveVendors   int64   `json:"active_vendors"`
	OpenInquiries   int64   `json:"open_inquiries"`
	DraftOrders     int64   `json:"draft_orders"`
	ApprovedOrders  int64   `json:"approved_orders"`
	TotalBudget     float64 `json:"total_budget"`
	UsedBudget      float64 `json:"used_budget"`
	MonthOrderValue float64 `json:"month_order_value"`
	GeneratedAt     string  `json:"generated_at"`
}

// GetOverview 获取概览，结果缓存60秒
func (s *DashboardService) GetOverview(ctx context.Context) (*Overview, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var overview Overview
			if json.Unmarshal([]byte(cached), &overview) == nil {
				return &overview, nil
			}
		}
	}

	overview, err := s.buildOverview(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(overview); err == nil {
			s.rdb.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL)
		}
	}
	return overview, nil
}

func (s *DashboardService) buildOverview(ctx context.Context) (*Overview, error) {
	db := s.db.WithContext(ctx)
	overview := &Overview{GeneratedAt: time.Now().Format(time.RFC3339)}

	if err := db.Model(&entity.Project{}).
		Where("status = ?", entity.ProjectStatusActive).
		Count(&overview.ActiveProjects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Vendor{}).
		Where("status = ?", entity.VendorStatusActive).
		Count(&overview.ActiveVendors).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Inquiry{}).
		Where("status IN ?", []string{entity.InquiryStatusSent, entity.InquiryStatusResponded}).
		Count(&overview.OpenInquiries).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.PurchaseOrder{}).
		Where("status = ?", entity.POStatusDraft).
		Count(&overview.DraftOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.PurchaseOrder{}).
		Where("status = ?", entity.POStatusApproved).
		Count(&overview.ApprovedOrders).Error; err != nil {
		return nil, err
	}

	var budget struct {
		Total float64
		Used  float64
	}
	if err := db.Model(&entity.Project{}).
		Select("COALESCE(SUM(total_budget), 0) AS total, COALESCE(SUM(used_budget), 0) AS used").
		Scan(&budget).Error; err != nil {
		return nil, err
	}
	overview.TotalBudget = budget.Total
	overview.UsedBudget = budget.Used

	monthStart := time.Now().AddDate(0, 0, 1-time.Now().Day()).Truncate(24 * time.Hour)
	if err := db.Model(&entity.PurchaseOrder{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("order_date >= ? AND status <> ?", monthStart, entity.POStatusCancelled).
		Scan(&overview.MonthOrderValue).Error; err != nil {
		return nil, err
	}

	return overview, nil
}
