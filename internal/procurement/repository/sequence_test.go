package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/testutil"
)

// TestNextCodeSequence 同一前缀的编号连续且零填充
func TestNextCodeSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		code, err := NextCode(ctx, db, "PO202608")
		if err != nil {
			t.Fatalf("NextCode failed: %v", err)
		}
		expected := fmt.Sprintf("PO202608%04d", i)
		if code != expected {
			t.Fatalf("expected %s, got %s", expected, code)
		}
	}

	// Independent prefixes keep their own counters
	code, err := NextCode(ctx, db, "INQ202608")
	if err != nil {
		t.Fatalf("NextCode failed: %v", err)
	}
	if code != "INQ2026080001" {
		t.Fatalf("expected INQ2026080001, got %s", code)
	}
}

// TestMaterialGenerateCode 物料编号按类别前缀生成，未知类别用MAT
func TestMaterialGenerateCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewMaterialRepository(db)

	yy := time.Now().Format("06")

	code, err := repo.GenerateCode(ctx, "钢筋")
	if err != nil {
		t.Fatalf("GenerateCode failed: %v", err)
	}
	if code != "STL"+yy+"0001" {
		t.Fatalf("expected STL%s0001, got %s", yy, code)
	}

	code2, err := repo.GenerateCode(ctx, "钢筋")
	if err != nil {
		t.Fatalf("GenerateCode failed: %v", err)
	}
	if code2 != "STL"+yy+"0002" {
		t.Fatalf("expected STL%s0002, got %s", yy, code2)
	}

	code3, err := repo.GenerateCode(ctx, "特种材料")
	if err != nil {
		t.Fatalf("GenerateCode failed: %v", err)
	}
	if code3 != "MAT"+yy+"0001" {
		t.Fatalf("expected MAT%s0001, got %s", yy, code3)
	}
}
