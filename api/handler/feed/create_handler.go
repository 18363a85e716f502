package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mivura/feedbed/api/common"
)

// CreatePost 创建新帖子
// @Summary Create a post
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Post title"
// @Param content formData string true "Post content"
// @Param image formData file true "Post image"
// @Success 201 {object} map[string]interface{}
// @Router /feed/post [post]
func (h *Handler) CreatePost(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")

	// 文件缺失不是错误，由服务层按“未附带图片”校验
	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	post, err := h.service.Create(c.Request.Context(), title, content, image)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, http.StatusCreated, "Post created successfully!", gin.H{
		"post": h.view(post),
	})
}
