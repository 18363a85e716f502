package posts

import (
	"context"

	"gorm.io/gorm"

	"github.com/mivura/feedbed/database/models"
)

// Repository 帖子仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的帖子仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreatePost 保存帖子
func (r *Repository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID 通过ID获取帖子
func (r *Repository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.First(&post, id).Error
	return &post, err
}

// UpdatePost 更新帖子
func (r *Repository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePost 删除帖子
func (r *Repository) DeletePost(post *models.Post) error {
	return r.db.Delete(post).Error
}

// ListPosts 按插入顺序分页获取帖子列表，同时返回总数
func (r *Repository) ListPosts(page, pageSize int) ([]*models.Post, int64, error) {
	var postList []*models.Post
	var total int64

	db := r.db.Model(&models.Post{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := db.Order("id asc").Offset(offset).Limit(pageSize).Find(&postList).Error
	return postList, total, err
}

// CountPosts 统计帖子数量
func (r *Repository) CountPosts() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}

// DB 返回底层 *gorm.DB 实例
func (r *Repository) DB() *gorm.DB {
	return r.db
}
