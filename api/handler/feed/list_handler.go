package feed

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mivura/feedbed/api/common"
)

// ListPosts 分页获取帖子列表
// @Summary List posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} map[string]interface{}
// @Router /feed/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	posts, total, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, h.view(post))
	}

	common.Respond(c, http.StatusOK, "Posts fetched successfully.", gin.H{
		"posts":      views,
		"totalItems": total,
	})
}
