package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONB JSONB类型
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONB: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// JSONBArray JSONB数组类型
type JSONBArray []interface{}

func (j JSONBArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONBArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONBArray: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// Vendor 供应商
type Vendor struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	Code   string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name   string `json:"name" gorm:"size:200;not null"`
	Status string `json:"status" gorm:"size:20;default:active"`

	// 联系信息
	ContactPerson string `json:"contact_person" gorm:"size:100"`
	Phone         string `json:"phone" gorm:"size:50"`
	Email         string `json:"email" gorm:"size:200"`
	Address       string `json:"address" gorm:"size:500"`

	// 商务信息
	TaxID        string      `json:"tax_id" gorm:"size:50"`
	PaymentTerms string      `json:"payment_terms" gorm:"size:100"`
	Specialties  *JSONBArray `json:"specialties" gorm:"type:jsonb"`

	// 评级 0-5
	Rating *float64 `json:"rating" gorm:"type:decimal(3,2)"`

	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedBy string    `json:"created_by" gorm:"size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Responses      []InquiryResponse `json:"responses,omitempty" gorm:"foreignKey:VendorID"`
	PurchaseOrders []PurchaseOrder   `json:"purchase_orders,omitempty" gorm:"foreignKey:VendorID"`
}

func (Vendor) TableName() string {
	return "vendors"
}

// 供应商状态
const (
	VendorStatusActive      = "active"
	VendorStatusInactive    = "inactive"
	VendorStatusBlacklisted = "blacklisted"
)
