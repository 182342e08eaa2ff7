package entity

import "time"

// FinancialRecord 财务记录
type FinancialRecord struct {
	ID              string  `json:"id" gorm:"primaryKey;size:36"`
	VoucherNumber   string  `json:"voucher_number" gorm:"size:32;uniqueIndex;not null"`
	ProjectID       string  `json:"project_id" gorm:"size:36;not null;index"`
	PurchaseOrderID *string `json:"purchase_order_id" gorm:"size:36;index"`

	RecordType  string    `json:"record_type" gorm:"size:20;not null"`
	RecordDate  time.Time `json:"record_date"`
	Amount      float64   `json:"amount" gorm:"type:decimal(15,2);not null"`
	AccountCode string    `json:"account_code" gorm:"size:20"`
	AccountName string    `json:"account_name" gorm:"size:100"`
	Description string    `json:"description" gorm:"type:text"`
	VendorName  string    `json:"vendor_name" gorm:"size:200"`
	Status      string    `json:"status" gorm:"size:20;default:draft"`

	CreatedBy string    `json:"created_by" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FinancialRecord) TableName() string {
	return "financial_records"
}

// 记录类型
const (
	RecordTypeExpense    = "expense"
	RecordTypePayment    = "payment"
	RecordTypeAccrual    = "accrual"
	RecordTypeAdjustment = "adjustment"
)

// 记录状态
const (
	RecordStatusDraft    = "draft"
	RecordStatusApproved = "approved"
	RecordStatusPosted   = "posted"
)
