package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/Jessie533tw/procurement-management-system/internal/testutil"
)

func setupInquiryTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewInquiryService(repos.Inquiry, repos.Vendor, db)
	h := NewInquiryHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/inquiries", h.CreateInquiry)
	api.GET("/inquiries/:id", h.GetInquiry)
	api.PATCH("/inquiries/:id/status", h.UpdateInquiryStatus)
	api.POST("/inquiries/:id/responses", h.AddResponse)
	api.GET("/inquiries/:id/comparison", h.GetComparison)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func createTestInquiry(t *testing.T, env *testutil.TestEnv, token string) map[string]interface{} {
	t.Helper()
	testutil.SeedTestProject(t, env.DB, "proj-001", "PRJ-001", "测试项目", 500000)
	testutil.SeedTestMaterial(t, env.DB, "mat-001", "STL0626080001", "螺纹钢HRB400", "钢筋")
	testutil.SeedTestMaterial(t, env.DB, "mat-002", "CON0626080001", "C30混凝土", "混凝土")

	body := map[string]interface{}{
		"title":      "主体结构材料询价",
		"project_id": "proj-001",
		"items": []map[string]interface{}{
			{"material_id": "mat-001", "quantity": 50, "unit": "吨"},
			{"material_id": "mat-002", "quantity": 200, "unit": "方"},
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inquiries", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

// TestInquiryResponseDuplicateVendor 同一供应商重复报价返回冲突
func TestInquiryResponseDuplicateVendor(t *testing.T) {
	env := setupInquiryTest(t)
	token := testutil.DefaultTestToken()

	data := createTestInquiry(t, env, token)
	inquiryID := data["id"].(string)
	if !strings.HasPrefix(data["inquiry_number"].(string), "INQ") {
		t.Fatalf("expected INQ number, got %v", data["inquiry_number"])
	}
	items := data["items"].([]interface{})
	itemID1 := items[0].(map[string]interface{})["id"].(string)
	itemID2 := items[1].(map[string]interface{})["id"].(string)

	testutil.SeedTestVendor(t, env.DB, "ven-001", "V20260001", "供应商甲")

	// Send the inquiry so a response flips it to responded
	w := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/inquiries/"+inquiryID+"/status",
		map[string]interface{}{"status": "sent"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for send, got %d: %s", w.Code, w.Body.String())
	}

	body := map[string]interface{}{
		"vendor_id": "ven-001",
		"items": []map[string]interface{}{
			{"inquiry_item_id": itemID1, "unit_price": 3800, "delivery_days": 7},
			{"inquiry_item_id": itemID2, "unit_price": 450, "delivery_days": 3},
		},
	}
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inquiries/"+inquiryID+"/responses", body, token)
	if w2.Code != http.StatusCreated {
		t.Fatalf("expected 201 for response, got %d: %s", w2.Code, w2.Body.String())
	}
	resp := testutil.ParseResponse(w2)
	respData := resp["data"].(map[string]interface{})
	// 50*3800 + 200*450
	if respData["total_amount"].(float64) != 280000 {
		t.Fatalf("expected total 280000, got %v", respData["total_amount"])
	}

	var inquiry entity.Inquiry
	env.DB.Where("id = ?", inquiryID).First(&inquiry)
	if inquiry.Status != entity.InquiryStatusResponded {
		t.Fatalf("expected responded, got %s", inquiry.Status)
	}

	// Same vendor again → conflict
	w3 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inquiries/"+inquiryID+"/responses", body, token)
	if w3.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate response, got %d: %s", w3.Code, w3.Body.String())
	}
}

// TestInquiryComparisonMissingQuotes 未报价明细在比价表中补空报价
func TestInquiryComparisonMissingQuotes(t *testing.T) {
	env := setupInquiryTest(t)
	token := testutil.DefaultTestToken()

	data := createTestInquiry(t, env, token)
	inquiryID := data["id"].(string)
	items := data["items"].([]interface{})
	itemID1 := items[0].(map[string]interface{})["id"].(string)
	itemID2 := items[1].(map[string]interface{})["id"].(string)

	testutil.SeedTestVendor(t, env.DB, "ven-001", "V20260001", "供应商甲")
	testutil.SeedTestVendor(t, env.DB, "ven-002", "V20260002", "供应商乙")

	// 供应商甲 quotes both items
	body1 := map[string]interface{}{
		"vendor_id": "ven-001",
		"items": []map[string]interface{}{
			{"inquiry_item_id": itemID1, "unit_price": 3800},
			{"inquiry_item_id": itemID2, "unit_price": 450},
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inquiries/"+inquiryID+"/responses", body1, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// 供应商乙 quotes only the first item
	body2 := map[string]interface{}{
		"vendor_id": "ven-002",
		"items": []map[string]interface{}{
			{"inquiry_item_id": itemID1, "unit_price": 3700},
		},
	}
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inquiries/"+inquiryID+"/responses", body2, token)
	if w2.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w2.Code, w2.Body.String())
	}

	w3 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/inquiries/"+inquiryID+"/comparison", nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 for comparison, got %d: %s", w3.Code, w3.Body.String())
	}

	resp := testutil.ParseResponse(w3)
	comparison := resp["data"].(map[string]interface{})
	vendors := comparison["vendors"].([]interface{})
	if len(vendors) != 2 {
		t.Fatalf("expected 2 vendors, got %d", len(vendors))
	}
	rows := comparison["items"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 comparison rows, got %d", len(rows))
	}

	// Find the second item row and check 供应商乙 got an empty quote
	for _, r := range rows {
		row := r.(map[string]interface{})
		if row["inquiry_item_id"] != itemID2 {
			continue
		}
		responses := row["responses"].(map[string]interface{})
		cell, ok := responses["供应商乙"].(map[string]interface{})
		if !ok {
			t.Fatal("expected a cell for 供应商乙 on unquoted item")
		}
		if cell["unit_price"] != nil {
			t.Fatalf("expected nil unit_price for missing quote, got %v", cell["unit_price"])
		}
		if cell["is_available"].(bool) {
			t.Fatal("expected is_available false for missing quote")
		}
	}
}

// TestInquiryResponseUnpricedItemUnavailable 无单价的报价明细视为不可供
func TestInquiryResponseUnpricedItemUnavailable(t *testing.T) {
	env := setupInquiryTest(t)
	token := testutil.DefaultTestToken()

	data := createTestInquiry(t, env, token)
	inquiryID := data["id"].(string)
	items := data["items"].([]interface{})
	itemID1 := items[0].(map[string]interface{})["id"].(string)
	itemID2 := items[1].(map[string]interface{})["id"].(string)

	testutil.SeedTestVendor(t, env.DB, "ven-001", "V20260001", "供应商甲")

	body := map[string]interface{}{
		"vendor_id": "ven-001",
		"items": []map[string]interface{}{
			{"inquiry_item_id": itemID1, "unit_price": 3800},
			{"inquiry_item_id": itemID2}, // no price
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inquiries/"+inquiryID+"/responses", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	respData := resp["data"].(map[string]interface{})
	// Only the priced item counts: 50*3800
	if respData["total_amount"].(float64) != 190000 {
		t.Fatalf("expected total 190000, got %v", respData["total_amount"])
	}

	var respItems []entity.InquiryResponseItem
	env.DB.Where("inquiry_item_id = ?", itemID2).Find(&respItems)
	if len(respItems) != 1 {
		t.Fatalf("expected 1 response item, got %d", len(respItems))
	}
	if respItems[0].IsAvailable {
		t.Fatal("expected unpriced item to be unavailable")
	}
}
