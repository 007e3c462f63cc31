package chef

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-fridge-api/internal/api/handlers"
	chefService "smart-fridge-api/internal/core/chef"
	"smart-fridge-api/internal/pkg/common"
)

// GenerateRequest 產生食譜請求
type GenerateRequest struct {
	UserID string `json:"user_id" binding:"required"`
	// Prompt 想吃什麼，例如 "ארוחת בוקר קלילה"
	Prompt string `json:"prompt" binding:"required"`
	// Guests 用餐人數，預設 1
	Guests int `json:"guests,omitempty" binding:"max=20"`
}

// ReviseRequest 修改食譜請求
type ReviseRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Feedback string `json:"feedback" binding:"required"` // 自由格式的修改要求
}

// MessageRequest 自由對話請求，由服務端自行判斷意圖
type MessageRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ConfirmRequest 確認食譜請求
type ConfirmRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Handler 廚師對話處理程序
type Handler struct {
	chefService *chefService.Service
}

// NewHandler 創建廚師處理程序
func NewHandler(svc *chefService.Service) *Handler {
	return &Handler{chefService: svc}
}

// HandleGenerate 依庫存與使用者描述產生食譜
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := handlers.RequestID(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, requestID, err)
		return
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.String("user_id", req.UserID),
		zap.Int("guests", req.Guests),
	)

	reply, err := h.chefService.Generate(c.Request.Context(), req.UserID, req.Prompt, req.Guests, requestID)
	if err != nil {
		handlers.RespondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// HandleRevise 把使用者回饋送進既有對話並回傳修改後的食譜
func (h *Handler) HandleRevise(c *gin.Context) {
	requestID := handlers.RequestID(c)

	var req ReviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, requestID, err)
		return
	}

	reply, err := h.chefService.Revise(c.Request.Context(), req.UserID, req.Feedback, requestID)
	if err != nil {
		handlers.RespondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// HandleMessage 自由格式對話，依意圖分流到確認、取消或修改
func (h *Handler) HandleMessage(c *gin.Context) {
	requestID := handlers.RequestID(c)

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, requestID, err)
		return
	}

	turn, err := h.chefService.Message(c.Request.Context(), req.UserID, req.Message, requestID)
	if err != nil {
		handlers.RespondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, turn)
}

// HandleConfirm 確認食譜並執行庫存扣量
func (h *Handler) HandleConfirm(c *gin.Context) {
	requestID := handlers.RequestID(c)

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, requestID, err)
		return
	}

	result, err := h.chefService.Confirm(c.Request.Context(), req.UserID)
	if err != nil {
		handlers.RespondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":                  "success",
		"deducted_items":          result.Deducted,
		"shopping_list_additions": result.ShoppingListAdditions,
	})
}

func (h *Handler) badRequest(c *gin.Context, requestID string, err error) {
	common.LogError("請求格式無效",
		zap.Error(err),
		zap.String("request_id", requestID),
	)
	c.JSON(http.StatusBadRequest, common.ErrorResponse{
		Code:    common.ErrCodeInvalidRequest,
		Message: "無效的請求",
	})
}
