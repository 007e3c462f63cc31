package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-fridge-api/internal/pkg/common"
)

// RequestID 取出請求 ID，沒有 middleware 時退回自己生成
func RequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	id := common.GenerateUUID()
	c.Header("X-Request-ID", id)
	return id
}

// RespondError 把錯誤轉成統一的 JSON 錯誤響應。
// CustomError 帶自己的狀態碼與代碼，其餘一律當 500。
func RespondError(c *gin.Context, requestID string, err error) {
	var cerr *common.CustomError
	if errors.As(err, &cerr) {
		common.LogWarn("請求處理失敗",
			zap.String("request_id", requestID),
			zap.String("code", cerr.Code),
			zap.Int("status", cerr.Status),
			zap.Error(err),
		)
		c.JSON(cerr.Status, common.ErrorResponse{
			Code:    cerr.Code,
			Message: cerr.Message,
		})
		return
	}

	common.LogError("請求處理失敗",
		zap.String("request_id", requestID),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "服務器內部錯誤",
	})
}
