package feed

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mivura/feedbed/cache"
	"github.com/mivura/feedbed/config"
	"github.com/mivura/feedbed/database/models"
	"github.com/mivura/feedbed/database/repo/posts"
	"github.com/mivura/feedbed/internal/apperr"
	"github.com/mivura/feedbed/storage/local"
)

// PNG 文件签名加填充
var pngBytes = append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0x00}, 64)...)

type testEnv struct {
	service *Service
	repo    *posts.Repository
	dir     string
}

func setupService(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Post{}))

	dir := t.TempDir()
	store, err := local.NewStorage(dir)
	require.NoError(t, err)

	memCache, err := cache.NewMemory(cache.DefaultMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = memCache.Close() })

	repo := posts.NewRepository(db)
	cfg := &config.Config{
		FeedPageSize: 2,
		CreatorName:  "Abhinav",
		CachePostTTL: 60,
	}

	return &testEnv{
		service: NewService(repo, store, memCache, cfg),
		repo:    repo,
		dir:     dir,
	}
}

// makeFileHeader 从内存构造一个真实的 multipart.FileHeader
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["image"][0]
}

func TestCreate_Success(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	post, err := env.service.Create(ctx, "  My first post  ", "Hello from the feed", makeFileHeader(t, "pic.png", pngBytes))
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Equal(t, "My first post", post.Title)
	assert.Equal(t, "Abhinav", post.Creator)

	// 图片文件落盘
	assert.FileExists(t, filepath.Join(env.dir, post.ImageFile))
}

func TestCreate_FieldValidation(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	image := makeFileHeader(t, "pic.png", pngBytes)

	tests := []struct {
		name    string
		title   string
		content string
	}{
		{name: "short title", title: "abc", content: "long enough content"},
		{name: "short content", title: "long enough title", content: "hi"},
		{name: "whitespace only", title: "        ", content: "long enough content"},
		{name: "short multibyte title", title: "标题一二", content: "long enough content"},
		{name: "short multibyte content", title: "long enough title", content: "内容一二"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Create(ctx, tt.title, tt.content, image)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			assert.EqualError(t, err, "Validation failed, entered data is incorrect.")
		})
	}
}

// TestCreate_MultibyteLengthCountsRunes 五个字符的多字节标题与正文应通过校验
func TestCreate_MultibyteLengthCountsRunes(t *testing.T) {
	env := setupService(t)

	post, err := env.service.Create(context.Background(), "标题一二三", "内容一二三", makeFileHeader(t, "pic.png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "标题一二三", post.Title)
}

func TestCreate_NoImage(t *testing.T) {
	env := setupService(t)

	_, err := env.service.Create(context.Background(), "Valid title", "Valid content", nil)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.EqualError(t, err, "No image provided.")
}

// TestCreate_RejectedMimeType 非白名单类型静默按未附带文件处理
func TestCreate_RejectedMimeType(t *testing.T) {
	env := setupService(t)
	image := makeFileHeader(t, "notes.txt", []byte("plain text, definitely not an image"))

	_, err := env.service.Create(context.Background(), "Valid title", "Valid content", image)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.EqualError(t, err, "No image provided.")
}

func TestGet(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	created, err := env.service.Create(ctx, "Fetch target", "Some post content", makeFileHeader(t, "pic.png", pngBytes))
	require.NoError(t, err)

	got, err := env.service.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	// 第二次读取命中缓存，结果一致
	cached, err := env.service.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, got.ImageFile, cached.ImageFile)
}

func TestGet_NotFound(t *testing.T) {
	env := setupService(t)

	_, err := env.service.Get(context.Background(), 424242)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.EqualError(t, err, "Could not find post.")
}

func TestList_Pagination(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := env.service.Create(ctx, fmt.Sprintf("Post number %d", i), "Content of the post", makeFileHeader(t, fmt.Sprintf("p%d.png", i), pngBytes))
		require.NoError(t, err)
	}

	page1, total, err := env.service.List(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)
	assert.Equal(t, "Post number 1", page1[0].Title)

	page3, _, err := env.service.List(ctx, 3)
	assert.NoError(t, err)
	assert.Len(t, page3, 1)

	// 越界页返回空页
	page9, total, err := env.service.List(ctx, 9)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, page9)
}

// TestUpdate_NewImageReplacesOld 新文件生效且旧文件被删除
func TestUpdate_NewImageReplacesOld(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	created, err := env.service.Create(ctx, "Original title", "Original content", makeFileHeader(t, "old.png", pngBytes))
	require.NoError(t, err)
	oldFile := created.ImageFile

	updated, err := env.service.Update(ctx, created.ID, "Updated title", "Updated content", makeFileHeader(t, "new.png", pngBytes), "")
	require.NoError(t, err)
	assert.Equal(t, "Updated title", updated.Title)
	assert.NotEqual(t, oldFile, updated.ImageFile)

	assert.FileExists(t, filepath.Join(env.dir, updated.ImageFile))
	assert.NoFileExists(t, filepath.Join(env.dir, oldFile))
}

// TestUpdate_KeepExistingImage 回传已有引用时保留原文件
func TestUpdate_KeepExistingImage(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	created, err := env.service.Create(ctx, "Original title", "Original content", makeFileHeader(t, "keep.png", pngBytes))
	require.NoError(t, err)

	imageURL := "http://localhost:8080/images/" + created.ImageFile
	updated, err := env.service.Update(ctx, created.ID, "Updated title", "Updated content", nil, imageURL)
	require.NoError(t, err)
	assert.Equal(t, created.ImageFile, updated.ImageFile)
	assert.FileExists(t, filepath.Join(env.dir, created.ImageFile))
}

func TestUpdate_NoImageResolved(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	created, err := env.service.Create(ctx, "Original title", "Original content", makeFileHeader(t, "pic.png", pngBytes))
	require.NoError(t, err)

	_, err = env.service.Update(ctx, created.ID, "Updated title", "Updated content", nil, "")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.EqualError(t, err, "No image provided.")
}

func TestUpdate_NotFound(t *testing.T) {
	env := setupService(t)

	_, err := env.service.Update(context.Background(), 424242, "Updated title", "Updated content", makeFileHeader(t, "pic.png", pngBytes), "")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDelete(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	created, err := env.service.Create(ctx, "Doomed post", "About to disappear", makeFileHeader(t, "gone.png", pngBytes))
	require.NoError(t, err)

	require.NoError(t, env.service.Delete(ctx, created.ID))

	// 文件与记录都被删除
	assert.NoFileExists(t, filepath.Join(env.dir, created.ImageFile))
	_, err = env.service.Get(ctx, created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDelete_NotFound(t *testing.T) {
	env := setupService(t)

	err := env.service.Delete(context.Background(), 424242)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.EqualError(t, err, "Could not find post.")
}
