package entity

import "time"

// Attachment 业务附件，文件存MinIO，这里只存元数据
type Attachment struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	RelatedType string    `json:"related_type" gorm:"size:30;not null;index:idx_attachment_related"`
	RelatedID   string    `json:"related_id" gorm:"size:36;not null;index:idx_attachment_related"`
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	ObjectKey   string    `json:"object_key" gorm:"size:500;not null"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type" gorm:"size:100"`
	UploadedBy  string    `json:"uploaded_by" gorm:"size:36"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "attachments"
}

// 附件关联类型
const (
	AttachmentRelatedProject       = "project"
	AttachmentRelatedVendor        = "vendor"
	AttachmentRelatedInquiry       = "inquiry"
	AttachmentRelatedPurchaseOrder = "purchase_order"
)
