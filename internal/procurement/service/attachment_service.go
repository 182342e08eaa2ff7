package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/entity"
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// AttachmentService 附件服务，文件存MinIO
type AttachmentService struct {
	repo        *repository.AttachmentRepository
	minioClient *minio.Client
	bucketName  string
}

func NewAttachmentService(repo *repository.AttachmentRepository, minioClient *minio.Client, bucketName string) *AttachmentService {
	return &AttachmentService{repo: repo, minioClient: minioClient, bucketName: bucketName}
}

// 合法的附件关联类型
func validRelatedType(relatedType string) bool {
	switch relatedType {
	case entity.AttachmentRelatedProject, entity.AttachmentRelatedVendor,
		entity.AttachmentRelatedInquiry, entity.AttachmentRelatedPurchaseOrder:
		return true
	}
	return false
}

// Upload 上传附件
func (s *AttachmentService) Upload(ctx context.Context, relatedType, relatedID, fileName, contentType string, size int64, reader io.Reader, userID string) (*entity.Attachment, error) {
	if s.minioClient == nil {
		return nil, ValidationError("文件存储未配置")
	}
	if !validRelatedType(relatedType) {
		return nil, ValidationError("无效的关联类型: %s", relatedType)
	}

	objectKey := fmt.Sprintf("%s/%s/%s_%s", relatedType, relatedID, uuid.New().String()[:8], fileName)
	_, err := s.minioClient.PutObject(ctx, s.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("上传文件失败: %w", err)
	}

	attachment := &entity.Attachment{
		ID:          uuid.New().String(),
		RelatedType: relatedType,
		RelatedID:   relatedID,
		FileName:    fileName,
		ObjectKey:   objectKey,
		FileSize:    size,
		ContentType: contentType,
		UploadedBy:  userID,
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

// List 查询业务对象的附件
func (s *AttachmentService) List(ctx context.Context, relatedType, relatedID string) ([]entity.Attachment, error) {
	if !validRelatedType(relatedType) {
		return nil, ValidationError("无效的关联类型: %s", relatedType)
	}
	return s.repo.FindByRelated(ctx, relatedType, relatedID)
}

// DownloadURL 生成15分钟有效的下载链接
func (s *AttachmentService) DownloadURL(ctx context.Context, id string) (string, error) {
	if s.minioClient == nil {
		return "", ValidationError("文件存储未配置")
	}

	attachment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", NotFoundError("附件不存在: %s", id)
		}
		return "", err
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s"`, attachment.FileName))
	presigned, err := s.minioClient.PresignedGetObject(ctx, s.bucketName, attachment.ObjectKey, 15*time.Minute, params)
	if err != nil {
		return "", fmt.Errorf("生成下载链接失败: %w", err)
	}
	return presigned.String(), nil
}

// Delete 删除附件及存储文件
func (s *AttachmentService) Delete(ctx context.Context, id string) error {
	attachment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return NotFoundError("附件不存在: %s", id)
		}
		return err
	}

	if s.minioClient != nil {
		if err := s.minioClient.RemoveObject(ctx, s.bucketName, attachment.ObjectKey, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("删除存储文件失败: %w", err)
		}
	}
	return s.repo.Delete(ctx, id)
}
