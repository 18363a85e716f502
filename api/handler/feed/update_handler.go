package feed

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mivura/feedbed/api/common"
	"github.com/mivura/feedbed/internal/apperr"
)

type updatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

// UpdatePost 整体替换帖子
// 同时接受 multipart（携带新文件或已有图片引用）和纯 JSON 两种请求体
// @Summary Update a post
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /feed/post/{postId} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		common.RespondError(c, apperr.NotFound("Could not find post."))
		return
	}

	var (
		title    string
		content  string
		image    *multipart.FileHeader
		imageURL string
	)

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req updatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondError(c, apperr.Validation("Validation failed, entered data is incorrect."))
			return
		}
		title = req.Title
		content = req.Content
		imageURL = req.Image
	} else {
		title = c.PostForm("title")
		content = c.PostForm("content")
		imageURL = c.PostForm("image")
		if file, err := c.FormFile("image"); err == nil {
			image = file
		}
	}

	post, err := h.service.Update(c.Request.Context(), id, title, content, image, imageURL)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, http.StatusOK, "Post updated!", gin.H{
		"post": h.view(post),
	})
}
