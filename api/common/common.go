package common

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/mivura/feedbed/internal/apperr"
)

// ErrorResponse 错误响应体，只携带一条消息
type ErrorResponse struct {
	Message string `json:"message"`
}

// Respond sends a success response; extra keys are merged next to message.
func Respond(c *gin.Context, httpStatus int, message string, data gin.H) {
	body := gin.H{"message": message}
	for key, value := range data {
		body[key] = value
	}
	c.JSON(httpStatus, body)
}

// RespondError maps a service error onto the wire contract.
// 未标记的错误一律按 500 处理，细节只进日志不出网
func RespondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal && appErr.Err != nil {
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, appErr.Err)
	}
	c.JSON(appErr.Status, ErrorResponse{Message: appErr.Message})
}
