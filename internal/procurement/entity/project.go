package entity

import "time"

// Project 工程项目
type Project struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Code        string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name        string `json:"name" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Location    string `json:"location" gorm:"size:500"`
	Status      string `json:"status" gorm:"size:20;default:planning"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	// 预算
	TotalBudget float64 `json:"total_budget" gorm:"type:decimal(15,2);default:0"`
	UsedBudget  float64 `json:"used_budget" gorm:"type:decimal(15,2);default:0"`

	Manager   string    `json:"manager" gorm:"size:100"`
	CreatedBy string    `json:"created_by" gorm:"size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Budgets        []ProjectBudget   `json:"budgets,omitempty" gorm:"foreignKey:ProjectID"`
	Progress       []ProjectProgress `json:"progress,omitempty" gorm:"foreignKey:ProjectID"`
	Inquiries      []Inquiry         `json:"inquiries,omitempty" gorm:"foreignKey:ProjectID"`
	PurchaseOrders []PurchaseOrder   `json:"purchase_orders,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

// 项目状态
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// ProjectBudget 项目预算科目
type ProjectBudget struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	ProjectID   string `json:"project_id" gorm:"size:36;not null;index"`
	Category    string `json:"category" gorm:"size:50;not null"`
	ItemName    string `json:"item_name" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`

	BudgetAmount    float64 `json:"budget_amount" gorm:"type:decimal(15,2);default:0"`
	CommittedAmount float64 `json:"committed_amount" gorm:"type:decimal(15,2);default:0"`
	ActualAmount    float64 `json:"actual_amount" gorm:"type:decimal(15,2);default:0"`

	IsLocked  bool      `json:"is_locked" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectBudget) TableName() string {
	return "project_budgets"
}

// ProjectProgress 项目进度任务
type ProjectProgress struct {
	ID              string  `json:"id" gorm:"primaryKey;size:36"`
	ProjectID       string  `json:"project_id" gorm:"size:36;not null;index"`
	PurchaseOrderID *string `json:"purchase_order_id" gorm:"size:36;index"`

	TaskName    string `json:"task_name" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Status      string `json:"status" gorm:"size:20;default:not_started"`

	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
	ActualStartDate  *time.Time `json:"actual_start_date"`
	ActualEndDate    *time.Time `json:"actual_end_date"`

	CompletionPercentage float64 `json:"completion_percentage" gorm:"type:decimal(5,2);default:0"`
	ResponsiblePerson    string  `json:"responsible_person" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectProgress) TableName() string {
	return "project_progress"
}

// 进度状态
const (
	ProgressStatusNotStarted = "not_started"
	ProgressStatusInProgress = "in_progress"
	ProgressStatusCompleted  = "completed"
	ProgressStatusDelayed    = "delayed"
	ProgressStatusCancelled  = "cancelled"
)
