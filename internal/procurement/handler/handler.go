package handler

import (
	"errors"
	"strconv"

	"github.com/Jessie533tw/procurement-management-system/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	Auth       *AuthHandler
	Project    *ProjectHandler
	Vendor     *VendorHandler
	Material   *MaterialHandler
	Inquiry    *InquiryHandler
	PO         *POHandler
	Financial  *FinancialHandler
	Dashboard  *DashboardHandler
	Attachment *AttachmentHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(
	authSvc *service.AuthService,
	projectSvc *service.ProjectService,
	vendorSvc *service.VendorService,
	materialSvc *service.MaterialService,
	inquirySvc *service.InquiryService,
	poSvc *service.POService,
	financialSvc *service.FinancialService,
	dashboardSvc *service.DashboardService,
	attachmentSvc *service.AttachmentService,
) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(authSvc),
		Project:    NewProjectHandler(projectSvc),
		Vendor:     NewVendorHandler(vendorSvc),
		Material:   NewMaterialHandler(materialSvc),
		Inquiry:    NewInquiryHandler(inquirySvc),
		PO:         NewPOHandler(poSvc),
		Financial:  NewFinancialHandler(financialSvc),
		Dashboard:  NewDashboardHandler(dashboardSvc),
		Attachment: NewAttachmentHandler(attachmentSvc),
	}
}

// === 响应辅助函数 ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// RespondError 按业务错误类型映射响应码
func RespondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case service.KindNotFound:
			Error(c, 40400, svcErr.Message)
		case service.KindConflict:
			Error(c, 40900, svcErr.Message)
		case service.KindInvalidTransition:
			Error(c, 42200, svcErr.Message)
		case service.KindValidationFailed:
			Error(c, 40000, svcErr.Message)
		default:
			Error(c, 50000, svcErr.Message)
		}
		return
	}
	InternalError(c, err.Error())
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetUserName(c *gin.Context) string {
	userName, _ := c.Get("user_name")
	if name, ok := userName.(string); ok {
		return name
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

func ListResult(items interface{}, page, pageSize int, total int64) *ListResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	}
}
