package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 采购仓库集合
type Repositories struct {
	Project    *ProjectRepository
	Vendor     *VendorRepository
	Material   *MaterialRepository
	Inquiry    *InquiryRepository
	PO         *PORepository
	Financial  *FinancialRepository
	User       *UserRepository
	Attachment *AttachmentRepository
}

// NewRepositories 创建采购仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Project:    NewProjectRepository(db),
		Vendor:     NewVendorRepository(db),
		Material:   NewMaterialRepository(db),
		Inquiry:    NewInquiryRepository(db),
		PO:         NewPORepository(db),
		Financial:  NewFinancialRepository(db),
		User:       NewUserRepository(db),
		Attachment: NewAttachmentRepository(db),
	}
}
