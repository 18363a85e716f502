package feed

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mivura/feedbed/database/models"
	feedsvc "github.com/mivura/feedbed/internal/feed"
	"github.com/mivura/feedbed/utils"
)

// Handler 帖子接口处理器
type Handler struct {
	service *feedsvc.Service
	baseURL string
}

// NewHandler 创建新的帖子处理器
func NewHandler(service *feedsvc.Service, baseURL string) *Handler {
	return &Handler{
		service: service,
		baseURL: baseURL,
	}
}

// CreatorView 帖子作者视图
type CreatorView struct {
	Name string `json:"name"`
}

// PostView 帖子响应视图
type PostView struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	ImageURL  string      `json:"imageUrl"`
	Creator   CreatorView `json:"creator"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// view 数据库模型转响应视图
func (h *Handler) view(post *models.Post) PostView {
	return PostView{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  utils.BuildImageURL(h.baseURL, post.ImageFile),
		Creator:   CreatorView{Name: post.Creator},
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// postID 解析路径参数中的帖子ID
func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("postId"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
