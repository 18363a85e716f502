package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mivura/feedbed/api/common"
	"github.com/mivura/feedbed/internal/apperr"
)

// DeletePost 删除帖子及其配图
// @Summary Delete a post
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /feed/post/{postId} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		common.RespondError(c, apperr.NotFound("Could not find post."))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, http.StatusOK, "Deleted post.", nil)
}
