package repository

import (
	"context"
	"errors"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"gorm.io/gorm"
)

// AttachmentRepository 附件仓库
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// FindByRelated 查询业务对象的附件
func (r *AttachmentRepository) FindByRelated(ctx context.Context, relatedType, relatedID string) ([]entity.Attachment, error) {
	var items []entity.Attachment
	err := r.db.WithContext(ctx).
		Where("related_type = ? AND related_id = ?", relatedType, relatedID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindByID 根据ID查找附件
func (r *AttachmentRepository) FindByID(ctx context.Context, id string) (*entity.Attachment, error) {
	var attachment entity.Attachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// Create 创建附件记录
func (r *AttachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// Delete 删除附件记录
func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Attachment{}).Error
}
