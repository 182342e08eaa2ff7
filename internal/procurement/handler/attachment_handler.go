package handler

import (
	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// AttachmentHandler 附件处理器
type AttachmentHandler struct {
	svc *service.AttachmentService
}

func NewAttachmentHandler(svc *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// Upload 上传附件
// POST /api/v1/attachments (multipart: file, related_type, related_id)
func (h *AttachmentHandler) Upload(c *gin.Context) {
	relatedType := c.PostForm("related_type")
	relatedID := c.PostForm("related_id")
	if relatedType == "" || relatedID == "" {
		BadRequest(c, "related_type和related_id不能为空")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "文件不能为空: "+err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "读取文件失败: "+err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	attachment, err := h.svc.Upload(c.Request.Context(), relatedType, relatedID,
		fileHeader.Filename, contentType, fileHeader.Size, file, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, attachment)
}

// List 附件列表
// GET /api/v1/attachments?related_type=xxx&related_id=xxx
func (h *AttachmentHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("related_type"), c.Query("related_id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Download 下载附件（返回预签名链接）
// GET /api/v1/attachments/:id/download
func (h *AttachmentHandler) Download(c *gin.Context) {
	url, err := h.svc.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"url": url})
}

// Delete 删除附件
// DELETE /api/v1/attachments/:id
func (h *AttachmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}
