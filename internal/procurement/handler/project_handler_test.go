package handler

import (
	"net/http"
	"testing"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/Jessie533tw/procurement-management-system/internal/testutil"
)

func setupProjectTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewProjectService(repos.Project)
	h := NewProjectHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/projects", h.ListProjects)
	api.POST("/projects", h.CreateProject)
	api.GET("/projects/:id", h.GetProject)
	api.DELETE("/projects/:id", h.DeleteProject)
	api.GET("/projects/:id/budget-summary", h.GetBudgetSummary)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// TestProjectCreateDefaultBudgets 创建项目自动生成五个预算科目
func TestProjectCreateDefaultBudgets(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"code":         "PRJ-2026-001",
		"name":         "滨江住宅一期",
		"location":     "滨江区",
		"total_budget": 5000000,
		"manager":      "李工",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/projects", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	projectID := data["id"].(string)
	if data["status"] != "planning" {
		t.Fatalf("expected planning, got %v", data["status"])
	}

	var budgets []entity.ProjectBudget
	env.DB.Where("project_id = ?", projectID).Find(&budgets)
	if len(budgets) != 5 {
		t.Fatalf("expected 5 default budget items, got %d", len(budgets))
	}
	categories := make(map[string]bool, len(budgets))
	for _, b := range budgets {
		categories[b.Category] = true
	}
	for _, want := range []string{"材料费", "人工费", "机具费", "管理费", "其他费用"} {
		if !categories[want] {
			t.Fatalf("missing default budget category %s", want)
		}
	}

	// Duplicate code rejected
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/projects", body, token)
	if w2.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate code, got %d: %s", w2.Code, w2.Body.String())
	}
}

// TestProjectBudgetSummary 预算汇总余额 = 预算 - 已承诺
func TestProjectBudgetSummary(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/projects",
		map[string]interface{}{"code": "PRJ-2026-002", "name": "测试项目", "total_budget": 1000000}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	projectID := resp["data"].(map[string]interface{})["id"].(string)

	// Commit some budget on 材料费
	env.DB.Model(&entity.ProjectBudget{}).
		Where("project_id = ? AND category = ?", projectID, "材料费").
		Updates(map[string]interface{}{"budget_amount": 600000, "committed_amount": 150000})
	env.DB.Model(&entity.Project{}).
		Where("id = ?", projectID).
		Update("used_budget", 150000)

	w2 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/projects/"+projectID+"/budget-summary", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	resp2 := testutil.ParseResponse(w2)
	summary := resp2["data"].(map[string]interface{})
	if summary["remaining_total"].(float64) != 850000 {
		t.Fatalf("expected remaining_total 850000, got %v", summary["remaining_total"])
	}
	categories := summary["categories"].([]interface{})
	found := false
	for _, c := range categories {
		cat := c.(map[string]interface{})
		if cat["category"] != "材料费" {
			continue
		}
		found = true
		if cat["remaining_amount"].(float64) != 450000 {
			t.Fatalf("expected remaining 450000 for 材料费, got %v", cat["remaining_amount"])
		}
	}
	if !found {
		t.Fatal("expected 材料费 category in summary")
	}
}

// TestProjectDeleteCascades 删除项目同时清理预算和进度
func TestProjectDeleteCascades(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/projects",
		map[string]interface{}{"code": "PRJ-2026-003", "name": "待删除项目"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	projectID := resp["data"].(map[string]interface{})["id"].(string)

	w2 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/projects/"+projectID, nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	var count int64
	env.DB.Model(&entity.ProjectBudget{}).Where("project_id = ?", projectID).Count(&count)
	if count != 0 {
		t.Fatalf("expected budgets deleted, got %d", count)
	}

	w3 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/projects/"+projectID, nil, token)
	if w3.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w3.Code)
	}
}
