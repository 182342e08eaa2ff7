package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/Jessie533tw/procurement-management-system/internal/testutil"
)

func setupVendorTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewVendorService(repos.Vendor)
	h := NewVendorHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/vendors", h.CreateVendor)
	api.GET("/vendors/performance-analysis", h.PerformanceAnalysis)
	api.GET("/vendors/:id", h.GetVendor)
	api.DELETE("/vendors/:id", h.DeleteVendor)
	api.PATCH("/vendors/:id/rating", h.UpdateRating)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// TestVendorCreateAndRating 创建后自动编号，评级范围0-5
func TestVendorCreateAndRating(t *testing.T) {
	env := setupVendorTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/vendors",
		map[string]interface{}{"name": "建材供应商A", "contact_person": "王经理"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	vendorID := data["id"].(string)
	code := data["code"].(string)
	expectedPrefix := "V" + time.Now().Format("2006")
	if code != expectedPrefix+"0001" {
		t.Fatalf("expected code %s0001, got %s", expectedPrefix, code)
	}
	if data["status"] != "active" {
		t.Fatalf("expected active, got %v", data["status"])
	}

	// Out of range rating rejected
	w2 := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/vendors/"+vendorID+"/rating",
		map[string]interface{}{"rating": 5.5}, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for rating 5.5, got %d", w2.Code)
	}

	w3 := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/vendors/"+vendorID+"/rating",
		map[string]interface{}{"rating": 4.5}, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 for rating 4.5, got %d: %s", w3.Code, w3.Body.String())
	}
	resp3 := testutil.ParseResponse(w3)
	rated := resp3["data"].(map[string]interface{})
	if rated["rating"].(float64) != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", rated["rating"])
	}
}

// TestVendorDeleteBlockedByOrders 存在采购单的供应商不可删除
func TestVendorDeleteBlockedByOrders(t *testing.T) {
	env := setupVendorTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedTestProject(t, env.DB, "proj-001", "PRJ-001", "测试项目", 100000)
	vendor := testutil.SeedTestVendor(t, env.DB, "ven-001", "V20260001", "建材供应商A")

	po := &entity.PurchaseOrder{
		ID:        "po-001",
		PONumber:  "PO2026080001",
		ProjectID: "proj-001",
		VendorID:  vendor.ID,
		Status:    entity.POStatusApproved,
		OrderDate: time.Now(),
	}
	if err := env.DB.Create(po).Error; err != nil {
		t.Fatalf("Failed to seed PO: %v", err)
	}

	w := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/vendors/"+vendor.ID, nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// Still there
	w2 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/vendors/"+vendor.ID, nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w2.Code)
	}

	// Without orders deletion succeeds
	env.DB.Delete(&entity.PurchaseOrder{}, "id = ?", "po-001")
	w3 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/vendors/"+vendor.ID, nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 after removing orders, got %d", w3.Code)
	}
}

// TestVendorPerformanceOnTimeRate 准交率按已交货订单统计
func TestVendorPerformanceOnTimeRate(t *testing.T) {
	env := setupVendorTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedTestProject(t, env.DB, "proj-001", "PRJ-001", "测试项目", 1000000)
	vendor := testutil.SeedTestVendor(t, env.DB, "ven-001", "V20260001", "建材供应商A")

	expected := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	onTime := expected.AddDate(0, 0, -1)
	late := expected.AddDate(0, 0, 3)

	// 3 on-time + 1 late deliveries
	for i := 0; i < 4; i++ {
		actual := onTime
		if i == 3 {
			actual = late
		}
		po := &entity.PurchaseOrder{
			ID:                   fmt.Sprintf("po-%03d", i),
			PONumber:             fmt.Sprintf("PO20260800%02d", i),
			ProjectID:            "proj-001",
			VendorID:             vendor.ID,
			Status:               entity.POStatusDelivered,
			OrderDate:            expected.AddDate(0, 0, -30),
			ExpectedDeliveryDate: &expected,
			ActualDeliveryDate:   &actual,
			TotalAmount:          50000,
		}
		if err := env.DB.Create(po).Error; err != nil {
			t.Fatalf("Failed to seed PO: %v", err)
		}
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/vendors/performance-analysis", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 vendor row, got %d", len(items))
	}
	perf := items[0].(map[string]interface{})
	if perf["order_count"].(float64) != 4 {
		t.Fatalf("expected 4 orders, got %v", perf["order_count"])
	}
	if perf["total_value"].(float64) != 200000 {
		t.Fatalf("expected total 200000, got %v", perf["total_value"])
	}
	if perf["on_time_rate"] != "75.00%" {
		t.Fatalf("expected on_time_rate 75.00%%, got %v", perf["on_time_rate"])
	}
}
