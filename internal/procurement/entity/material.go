package entity

import "time"

// Material 建材物料
type Material struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Code        string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name        string `json:"name" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`

	Category    string `json:"category" gorm:"size:50;not null;index"`
	Subcategory string `json:"subcategory" gorm:"size:50"`
	Unit        string `json:"unit" gorm:"size:20;not null"`

	Specifications *JSONB   `json:"specifications" gorm:"type:jsonb"`
	EstimatedPrice *float64 `json:"estimated_price" gorm:"type:decimal(10,2)"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Material) TableName() string {
	return "materials"
}
