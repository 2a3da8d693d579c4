package handler

import (
	"errors"
	"strconv"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/gin-gonic/gin"
)

// Handlers is the store module's handler collection.
type Handlers struct {
	Requirement   *RequirementHandler
	Quotation     *QuotationHandler
	PO            *POHandler
	GRN           *GRNHandler
	Inventory     *InventoryHandler
	Indent        *IndentHandler
	MaterialIssue *MaterialIssueHandler
	MasterData    *MasterDataHandler
}

// NewHandlers creates the handler collection.
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Requirement:   NewRequirementHandler(services.Requirement),
		Quotation:     NewQuotationHandler(services.Quotation),
		PO:            NewPOHandler(services.PO),
		GRN:           NewGRNHandler(services.GRN),
		Inventory:     NewInventoryHandler(services.Ledger),
		Indent:        NewIndentHandler(services.Indent),
		MaterialIssue: NewMaterialIssueHandler(services.MaterialIssue),
		MasterData:    NewMasterDataHandler(services.MasterData),
	}
}

// === response helpers ===

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

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// RespondError maps the service error taxonomy onto the envelope. Invalid
// input and quantity math violations are 400s, stale-status actions and
// stock shortfalls are 409s, everything unrecognized is a 500.
func RespondError(c *gin.Context, err error) {
	var (
		validation     *service.ValidationError
		transition     *service.StateTransitionError
		insufficient   *service.InsufficientStockError
		unavailable    *service.StockUnavailableError
		reconciliation *service.ReconciliationError
		overReceipt    *service.OverReceiptError
	)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.As(err, &validation),
		errors.As(err, &reconciliation),
		errors.As(err, &overReceipt):
		BadRequest(c, err.Error())
	case errors.As(err, &transition),
		errors.As(err, &insufficient),
		errors.As(err, &unavailable):
		Conflict(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
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

func listOf(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}
