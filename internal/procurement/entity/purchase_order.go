package entity

import "time"

// PurchaseOrder 采购单
type PurchaseOrder struct {
	ID        string  `json:"id" gorm:"primaryKey;size:36"`
	PONumber  string  `json:"po_number" gorm:"size:32;uniqueIndex;not null"`
	ProjectID string  `json:"project_id" gorm:"size:36;not null;index"`
	VendorID  string  `json:"vendor_id" gorm:"size:36;not null;index"`
	InquiryID *string `json:"inquiry_id" gorm:"size:36"`
	Status    string  `json:"status" gorm:"size:20;default:draft"`

	OrderDate            time.Time  `json:"order_date"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time `json:"actual_delivery_date"`

	TotalAmount     float64 `json:"total_amount" gorm:"type:decimal(15,2);default:0"`
	PaymentTerms    string  `json:"payment_terms" gorm:"size:100"`
	DeliveryAddress string  `json:"delivery_address" gorm:"size:500"`
	Notes           string  `json:"notes" gorm:"type:text"`

	CreatedBy  string     `json:"created_by" gorm:"size:36"`
	ApprovedBy *string    `json:"approved_by" gorm:"size:100"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// 关联
	Project *Project            `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Vendor  *Vendor             `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Items   []PurchaseOrderItem `json:"items,omitempty" gorm:"foreignKey:PurchaseOrderID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// 采购单状态
const (
	POStatusDraft     = "draft"
	POStatusApproved  = "approved"
	POStatusSent      = "sent"
	POStatusConfirmed = "confirmed"
	POStatusDelivered = "delivered"
	POStatusCompleted = "completed"
	POStatusCancelled = "cancelled"
)

// PurchaseOrderItem 采购单明细
type PurchaseOrderItem struct {
	ID              string `json:"id" gorm:"primaryKey;size:36"`
	PurchaseOrderID string `json:"purchase_order_id" gorm:"size:36;not null;index"`
	MaterialID      string `json:"material_id" gorm:"size:36;not null;index"`

	Quantity   float64 `json:"quantity" gorm:"type:decimal(10,2);not null"`
	Unit       string  `json:"unit" gorm:"size:20;not null"`
	UnitPrice  float64 `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	TotalPrice float64 `json:"total_price" gorm:"type:decimal(15,2);not null"`

	// 收货
	ReceivedQuantity float64 `json:"received_quantity" gorm:"type:decimal(10,2);default:0"`
	ReceivingStatus  string  `json:"receiving_status" gorm:"size:20;default:pending"`

	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`

	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// 收货状态
const (
	ReceivingStatusPending   = "pending"
	ReceivingStatusPartial   = "partial"
	ReceivingStatusCompleted = "completed"
)
