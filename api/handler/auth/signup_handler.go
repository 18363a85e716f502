package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mivura/feedbed/api/common"
	"github.com/mivura/feedbed/internal/apperr"
	"github.com/mivura/feedbed/internal/identity"
)

// Handler 注册接口处理器
type Handler struct {
	service *identity.Service
}

// NewHandler 创建新的注册处理器
func NewHandler(service *identity.Service) *Handler {
	return &Handler{service: service}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup 注册新用户
// @Summary Sign up a new user
// @Accept json
// @Produce json
// @Param request body signupRequest true "Signup payload"
// @Success 201 {object} map[string]interface{}
// @Router /auth/signup [put]
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, apperr.Validation("Validation failed, entered data is incorrect."))
		return
	}

	userID, err := h.service.Signup(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, http.StatusCreated, "User Created!", gin.H{
		"userId": userID,
	})
}
