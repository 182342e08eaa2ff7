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

func setupPOTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewPOService(repos.PO, repos.Project, repos.Vendor, repos.Financial, db)
	h := NewPOHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/purchase-orders", h.CreatePurchaseOrder)
	api.GET("/purchase-orders/:id", h.GetPurchaseOrder)
	api.DELETE("/purchase-orders/:id", h.DeletePurchaseOrder)
	api.PATCH("/purchase-orders/:id/approve", h.ApprovePurchaseOrder)
	api.PATCH("/purchase-orders/:id/status", h.UpdatePurchaseOrderStatus)
	api.POST("/purchase-orders/items/:itemId/receive", h.ReceiveItem)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func createTestPO(t *testing.T, env *testutil.TestEnv, token string) map[string]interface{} {
	t.Helper()
	testutil.SeedTestProject(t, env.DB, "proj-001", "PRJ-001", "测试住宅项目", 500000)
	testutil.SeedTestVendor(t, env.DB, "ven-001", "V20260001", "建材供应商A")
	testutil.SeedTestMaterial(t, env.DB, "mat-001", "STL0626080001", "螺纹钢HRB400", "钢筋")

	body := map[string]interface{}{
		"project_id": "proj-001",
		"vendor_id":  "ven-001",
		"items": []map[string]interface{}{
			{"material_id": "mat-001", "quantity": 100, "unit": "吨", "unit_price": 2000},
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/purchase-orders", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

// TestPurchaseOrderApproveFlow 审批后预算占用、财务凭证和交货任务在同一事务内生成
func TestPurchaseOrderApproveFlow(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()

	data := createTestPO(t, env, token)
	poID := data["id"].(string)
	poNumber := data["po_number"].(string)
	if !strings.HasPrefix(poNumber, "PO") {
		t.Fatalf("expected PO number prefix, got %s", poNumber)
	}
	if data["total_amount"].(float64) != 200000 {
		t.Fatalf("expected total 200000, got %v", data["total_amount"])
	}
	if data["status"] != "draft" {
		t.Fatalf("expected status draft, got %v", data["status"])
	}

	// Approve
	w := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/purchase-orders/"+poID+"/approve",
		map[string]interface{}{"approved_by": "采购经理"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for approve, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	approved := resp["data"].(map[string]interface{})
	if approved["status"] != "approved" {
		t.Fatalf("expected status approved, got %v", approved["status"])
	}
	if approved["approved_at"] == nil {
		t.Fatal("expected approved_at to be set")
	}

	// Project used budget committed
	var project entity.Project
	env.DB.Where("id = ?", "proj-001").First(&project)
	if project.UsedBudget != 200000 {
		t.Fatalf("expected used_budget 200000, got %v", project.UsedBudget)
	}

	// Accrual voucher created
	var records []entity.FinancialRecord
	env.DB.Where("purchase_order_id = ?", poID).Find(&records)
	if len(records) != 1 {
		t.Fatalf("expected 1 financial record, got %d", len(records))
	}
	if records[0].RecordType != entity.RecordTypeAccrual {
		t.Fatalf("expected accrual record, got %s", records[0].RecordType)
	}
	if records[0].Amount != 200000 {
		t.Fatalf("expected record amount 200000, got %v", records[0].Amount)
	}
	if !strings.HasPrefix(records[0].VoucherNumber, "V") {
		t.Fatalf("expected voucher number prefix V, got %s", records[0].VoucherNumber)
	}

	// Delivery tracking task created
	var progress []entity.ProjectProgress
	env.DB.Where("purchase_order_id = ?", poID).Find(&progress)
	if len(progress) != 1 {
		t.Fatalf("expected 1 progress task, got %d", len(progress))
	}
	if progress[0].Status != entity.ProgressStatusNotStarted {
		t.Fatalf("expected progress not_started, got %s", progress[0].Status)
	}

	// Second approve is rejected and nothing changes
	w2 := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/purchase-orders/"+poID+"/approve",
		map[string]interface{}{"approved_by": "采购经理"}, token)
	if w2.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for re-approve, got %d: %s", w2.Code, w2.Body.String())
	}
	env.DB.Where("id = ?", "proj-001").First(&project)
	if project.UsedBudget != 200000 {
		t.Fatalf("used_budget changed on failed approve: %v", project.UsedBudget)
	}
}

// TestPurchaseOrderDeliveredStampsDate 状态流转到delivered时记录实际交货日期
func TestPurchaseOrderDeliveredStampsDate(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()

	data := createTestPO(t, env, token)
	poID := data["id"].(string)

	for _, status := range []string{"approved", "sent", "confirmed", "delivered"} {
		w := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/purchase-orders/"+poID+"/status",
			map[string]interface{}{"status": status}, token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for status %s, got %d: %s", status, w.Code, w.Body.String())
		}
	}

	var po entity.PurchaseOrder
	env.DB.Where("id = ?", poID).First(&po)
	if po.ActualDeliveryDate == nil {
		t.Fatal("expected actual_delivery_date to be set after delivered")
	}

	// Invalid status rejected
	w := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/purchase-orders/"+poID+"/status",
		map[string]interface{}{"status": "shipped"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", w.Code)
	}
}

// TestPurchaseOrderDeleteDraftOnly 非草稿采购单不可删除
func TestPurchaseOrderDeleteDraftOnly(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()

	data := createTestPO(t, env, token)
	poID := data["id"].(string)

	w := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/purchase-orders/"+poID+"/approve", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for approve, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/purchase-orders/"+poID, nil, token)
	if w2.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for deleting approved PO, got %d", w2.Code)
	}
}

// TestPurchaseOrderReceiveItem 分批收货累计数量并更新收货状态
func TestPurchaseOrderReceiveItem(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()

	data := createTestPO(t, env, token)
	items := data["items"].([]interface{})
	itemID := items[0].(map[string]interface{})["id"].(string)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/purchase-orders/items/"+itemID+"/receive",
		map[string]interface{}{"received_quantity": 40}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for partial receive, got %d: %s", w.Code, w.Body.String())
	}

	var item entity.PurchaseOrderItem
	env.DB.Where("id = ?", itemID).First(&item)
	if item.ReceivedQuantity != 40 {
		t.Fatalf("expected received 40, got %v", item.ReceivedQuantity)
	}
	if item.ReceivingStatus != entity.ReceivingStatusPartial {
		t.Fatalf("expected partial, got %s", item.ReceivingStatus)
	}

	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/purchase-orders/items/"+itemID+"/receive",
		map[string]interface{}{"received_quantity": 60}, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 for final receive, got %d: %s", w2.Code, w2.Body.String())
	}

	env.DB.Where("id = ?", itemID).First(&item)
	if item.ReceivedQuantity != 100 {
		t.Fatalf("expected received 100, got %v", item.ReceivedQuantity)
	}
	if item.ReceivingStatus != entity.ReceivingStatusCompleted {
		t.Fatalf("expected completed, got %s", item.ReceivingStatus)
	}
}
