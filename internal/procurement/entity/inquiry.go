package entity

import "time"

// Inquiry 询价单
type Inquiry struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	InquiryNumber string `json:"inquiry_number" gorm:"size:32;uniqueIndex;not null"`
	Title         string `json:"title" gorm:"size:200;not null"`
	Description   string `json:"description" gorm:"type:text"`
	ProjectID     string `json:"project_id" gorm:"size:36;not null;index"`
	Status        string `json:"status" gorm:"size:20;default:draft"`

	IssueDate    *time.Time `json:"issue_date"`
	DueDate      *time.Time `json:"due_date"`
	Requirements *JSONB     `json:"requirements" gorm:"type:jsonb"`

	CreatedBy string    `json:"created_by" gorm:"size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Project   *Project          `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Items     []InquiryItem     `json:"items,omitempty" gorm:"foreignKey:InquiryID"`
	Responses []InquiryResponse `json:"responses,omitempty" gorm:"foreignKey:InquiryID"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}

// 询价单状态
const (
	InquiryStatusDraft     = "draft"
	InquiryStatusSent      = "sent"
	InquiryStatusResponded = "responded"
	InquiryStatusEvaluated = "evaluated"
	InquiryStatusCancelled = "cancelled"
)

// InquiryItem 询价明细
type InquiryItem struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	InquiryID  string `json:"inquiry_id" gorm:"size:36;not null;index"`
	MaterialID string `json:"material_id" gorm:"size:36;not null"`

	Quantity     float64    `json:"quantity" gorm:"type:decimal(10,2);not null"`
	Unit         string     `json:"unit" gorm:"size:20;not null"`
	RequiredDate *time.Time `json:"required_date"`
	Notes        string     `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`

	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (InquiryItem) TableName() string {
	return "inquiry_items"
}

// InquiryResponse 供应商报价，同一询价单同一供应商只允许一份
type InquiryResponse struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	InquiryID string `json:"inquiry_id" gorm:"size:36;not null;uniqueIndex:idx_inquiry_vendor"`
	VendorID  string `json:"vendor_id" gorm:"size:36;not null;uniqueIndex:idx_inquiry_vendor"`
	Status    string `json:"status" gorm:"size:20;default:submitted"`

	TotalAmount  float64    `json:"total_amount" gorm:"type:decimal(15,2);default:0"`
	PaymentTerms string     `json:"payment_terms" gorm:"size:100"`
	DeliveryDays *int       `json:"delivery_days"`
	ValidUntil   *time.Time `json:"valid_until"`

	EvaluationScore *float64 `json:"evaluation_score" gorm:"type:decimal(5,2)"`
	Notes           string   `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Vendor *Vendor               `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Items  []InquiryResponseItem `json:"items,omitempty" gorm:"foreignKey:ResponseID"`
}

func (InquiryResponse) TableName() string {
	return "inquiry_responses"
}

// 报价状态
const (
	ResponseStatusSubmitted   = "submitted"
	ResponseStatusUnderReview = "under_review"
	ResponseStatusAccepted    = "accepted"
	ResponseStatusRejected    = "rejected"
)

// InquiryResponseItem 报价明细
type InquiryResponseItem struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	ResponseID    string `json:"response_id" gorm:"size:36;not null;index"`
	InquiryItemID string `json:"inquiry_item_id" gorm:"size:36;not null"`

	UnitPrice    *float64 `json:"unit_price" gorm:"type:decimal(10,2)"`
	TotalPrice   *float64 `json:"total_price" gorm:"type:decimal(15,2)"`
	DeliveryDays *int     `json:"delivery_days"`
	IsAvailable  bool     `json:"is_available" gorm:"default:true"`
	Notes        string   `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`

	InquiryItem *InquiryItem `json:"inquiry_item,omitempty" gorm:"foreignKey:InquiryItemID"`
}

func (InquiryResponseItem) TableName() string {
	return "inquiry_response_items"
}
