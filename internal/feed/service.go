package feed

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/mivura/feedbed/cache"
	"github.com/mivura/feedbed/config"
	"github.com/mivura/feedbed/database/models"
	"github.com/mivura/feedbed/database/repo/posts"
	"github.com/mivura/feedbed/internal/apperr"
	"github.com/mivura/feedbed/storage"
	"github.com/mivura/feedbed/utils"
	"github.com/mivura/feedbed/utils/generator"
	"github.com/mivura/feedbed/utils/validator"
)

// 标题与正文去除首尾空白后的最小长度
const minFieldLength = 5

// Service 帖子服务层
type Service struct {
	repo    *posts.Repository
	store   storage.Provider
	cache   cache.Provider
	creator string

	pageSize int
	postTTL  time.Duration
}

// NewService 创建新的帖子服务
func NewService(repo *posts.Repository, store storage.Provider, cacheProvider cache.Provider, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		cache:    cacheProvider,
		creator:  cfg.CreatorName,
		pageSize: cfg.PageSize(),
		postTTL:  time.Duration(cfg.CachePostTTL) * time.Second,
	}
}

// PageSize 返回分页大小
func (s *Service) PageSize() int {
	return s.pageSize
}

// List 按插入顺序返回一页帖子及总数
// 页码越界返回空页而不是错误
func (s *Service) List(ctx context.Context, page int) ([]*models.Post, int64, error) {
	if page <= 0 {
		page = 1
	}

	postList, total, err := s.repo.WithContext(ctx).ListPosts(page, s.pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("Fetching posts failed.", err)
	}
	return postList, total, nil
}

// Create 校验并持久化新帖子
// 尚无会话层，creator 写入配置的占位身份
func (s *Service) Create(ctx context.Context, title, content string, image *multipart.FileHeader) (*models.Post, error) {
	title, content, err := s.validateFields(title, content)
	if err != nil {
		return nil, err
	}

	file, ok, err := s.openAcceptedImage(image)
	if err != nil {
		return nil, apperr.Internal("Could not read uploaded image.", err)
	}
	if !ok {
		return nil, apperr.Validation("No image provided.")
	}
	defer file.Close()

	identifier := generator.ImageFilename(image.Filename, time.Now())
	if err := s.store.SaveWithContext(ctx, identifier, file); err != nil {
		return nil, apperr.Internal("Could not store image.", err)
	}

	post := &models.Post{
		Title:     title,
		Content:   content,
		ImageFile: identifier,
		Creator:   s.creator,
	}
	if err := s.repo.WithContext(ctx).CreatePost(post); err != nil {
		// 入库失败时清理刚写入的文件，避免孤儿文件
		if delErr := s.store.DeleteWithContext(ctx, identifier); delErr != nil {
			log.Printf("Failed to clean up image %s after create failure: %v", identifier, delErr)
		}
		return nil, apperr.Internal("Creating post failed.", err)
	}

	return post, nil
}

// Get 获取单个帖子，优先走缓存
func (s *Service) Get(ctx context.Context, id uint) (*models.Post, error) {
	var cached models.Post
	if err := s.cache.Get(ctx, cache.PostKey(id), &cached); err == nil {
		return &cached, nil
	} else if !cache.IsCacheMiss(err) {
		log.Printf("Failed to read post %d from cache: %v", id, err)
	}

	post, err := s.repo.WithContext(ctx).GetPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Could not find post.")
		}
		return nil, apperr.Internal("Fetching post failed.", err)
	}

	if err := s.cache.Set(ctx, cache.PostKey(id), post, s.postTTL); err != nil {
		log.Printf("Failed to cache post %d: %v", id, err)
	}

	return post, nil
}

// Update 整体替换帖子的标题、正文和配图
// 新上传的文件优先于客户端回传的已有图片引用；配图变化时删除旧文件
func (s *Service) Update(ctx context.Context, id uint, title, content string, image *multipart.FileHeader, imageURL string) (*models.Post, error) {
	title, content, err := s.validateFields(title, content)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.WithContext(ctx).GetPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Could not find post.")
		}
		return nil, apperr.Internal("Fetching post failed.", err)
	}

	// 解析生效的配图
	var identifier string
	file, ok, err := s.openAcceptedImage(image)
	if err != nil {
		return nil, apperr.Internal("Could not read uploaded image.", err)
	}
	if ok {
		defer file.Close()
		identifier = generator.ImageFilename(image.Filename, time.Now())
		if err := s.store.SaveWithContext(ctx, identifier, file); err != nil {
			return nil, apperr.Internal("Could not store image.", err)
		}
	} else {
		identifier = utils.ImageIdentifierFromURL(imageURL)
		if identifier == "" {
			return nil, apperr.Validation("No image provided.")
		}
	}

	// 配图发生变化时删除旧文件，文件删除与记录更新不在同一事务内
	if identifier != post.ImageFile {
		if err := s.store.DeleteWithContext(ctx, post.ImageFile); err != nil {
			log.Printf("Failed to delete replaced image %s: %v", post.ImageFile, err)
		}
	}

	post.Title = title
	post.Content = content
	post.ImageFile = identifier
	if err := s.repo.WithContext(ctx).UpdatePost(post); err != nil {
		return nil, apperr.Internal("Updating post failed.", err)
	}

	s.invalidate(ctx, id)
	return post, nil
}

// Delete 删除帖子及其配图文件
func (s *Service) Delete(ctx context.Context, id uint) error {
	post, err := s.repo.WithContext(ctx).GetPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Could not find post.")
		}
		return apperr.Internal("Fetching post failed.", err)
	}

	// 先删文件再删记录，两步之间没有补偿回滚
	if err := s.store.DeleteWithContext(ctx, post.ImageFile); err != nil {
		log.Printf("Failed to delete image %s for post %d: %v", post.ImageFile, id, err)
	}

	if err := s.repo.WithContext(ctx).DeletePost(post); err != nil {
		return apperr.Internal("Deleting post failed.", err)
	}

	s.invalidate(ctx, id)
	return nil
}

// validateFields 校验标题与正文
func (s *Service) validateFields(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	// 按字符数而不是字节数计长，多字节文本不受编码影响
	if utf8.RuneCountInString(title) < minFieldLength || utf8.RuneCountInString(content) < minFieldLength {
		return "", "", apperr.Validation("Validation failed, entered data is incorrect.")
	}
	return title, content, nil
}

// openAcceptedImage 打开上传文件并嗅探类型
// 类型不在白名单内时静默按“未附带文件”处理
func (s *Service) openAcceptedImage(image *multipart.FileHeader) (multipart.File, bool, error) {
	if image == nil {
		return nil, false, nil
	}

	file, err := image.Open()
	if err != nil {
		return nil, false, err
	}

	ok, err := validator.IsAcceptedImage(file)
	if err != nil {
		_ = file.Close()
		return nil, false, err
	}
	if !ok {
		_ = file.Close()
		return nil, false, nil
	}

	return file, true, nil
}

// invalidate 清除帖子缓存
func (s *Service) invalidate(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, cache.PostKey(id)); err != nil {
		log.Printf("Failed to invalidate cache for post %d: %v", id, err)
	}
}
