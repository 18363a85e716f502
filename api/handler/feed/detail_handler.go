package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mivura/feedbed/api/common"
	"github.com/mivura/feedbed/internal/apperr"
)

// GetPost 获取单个帖子
// @Summary Get a post
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /feed/post/{postId} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		common.RespondError(c, apperr.NotFound("Could not find post."))
		return
	}

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, http.StatusOK, "Post fetched.", gin.H{
		"post": h.view(post),
	})
}
