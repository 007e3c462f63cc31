package fridge

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-fridge-api/internal/api/handlers"
	fridgeService "smart-fridge-api/internal/core/fridge"
	"smart-fridge-api/internal/pkg/common"
)

// ScanRequest 收據掃描請求，image 可以是 URL、data URL 或裸 base64
type ScanRequest struct {
	Image string `json:"image" binding:"required"`
}

// Handler 冰箱掃描與庫存處理程序
type Handler struct {
	scanService *fridgeService.ScanService
}

// NewHandler 創建冰箱處理程序
func NewHandler(scanService *fridgeService.ScanService) *Handler {
	return &Handler{scanService: scanService}
}

// HandleScan 處理收據掃描入庫
func (h *Handler) HandleScan(c *gin.Context) {
	requestID := handlers.RequestID(c)

	common.LogInfo("開始處理收據掃描請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "無效的請求",
		})
		return
	}

	result, err := h.scanService.Scan(c.Request.Context(), req.Image, requestID)
	if err != nil {
		handlers.RespondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleListItems 回傳完整的 active 庫存清單
func (h *Handler) HandleListItems(c *gin.Context) {
	requestID := handlers.RequestID(c)

	items, err := h.scanService.ListItems(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}
