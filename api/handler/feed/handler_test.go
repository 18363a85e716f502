package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mivura/feedbed/cache"
	"github.com/mivura/feedbed/config"
	"github.com/mivura/feedbed/database/models"
	"github.com/mivura/feedbed/database/repo/posts"
	feedsvc "github.com/mivura/feedbed/internal/feed"
	"github.com/mivura/feedbed/storage/local"
)

var pngBytes = append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0x00}, 64)...)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Post{}))

	store, err := local.NewStorage(t.TempDir())
	require.NoError(t, err)

	memCache, err := cache.NewMemory(cache.DefaultMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = memCache.Close() })

	cfg := &config.Config{
		FeedPageSize: 2,
		CreatorName:  "Abhinav",
		CachePostTTL: 60,
	}
	service := feedsvc.NewService(posts.NewRepository(db), store, memCache, cfg)
	handler := NewHandler(service, "http://localhost:8080")

	router := gin.New()
	router.GET("/feed/posts", handler.ListPosts)
	router.POST("/feed/post", handler.CreatePost)
	router.GET("/feed/post/:postId", handler.GetPost)
	router.PUT("/feed/post/:postId", handler.UpdatePost)
	router.DELETE("/feed/post/:postId", handler.DeletePost)
	return router
}

// multipartBody 构造 multipart 请求体
func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func createTestPost(t *testing.T, router *gin.Engine, title string) map[string]interface{} {
	t.Helper()

	body, contentType := multipartBody(t, map[string]string{
		"title":   title,
		"content": "Content for " + title,
	}, "image", "pic.png", pngBytes)

	req := httptest.NewRequest(http.MethodPost, "/feed/post", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["post"].(map[string]interface{})
}

func TestCreatePost_Handler(t *testing.T) {
	router := setupTestRouter(t)

	post := createTestPost(t, router, "Handler created post")
	assert.Equal(t, "Handler created post", post["title"])
	assert.Contains(t, post["imageUrl"], "http://localhost:8080/images/")

	creator := post["creator"].(map[string]interface{})
	assert.Equal(t, "Abhinav", creator["name"])
}

func TestCreatePost_ValidationError(t *testing.T) {
	router := setupTestRouter(t)

	body, contentType := multipartBody(t, map[string]string{
		"title":   "abc",
		"content": "Content long enough",
	}, "image", "pic.png", pngBytes)

	req := httptest.NewRequest(http.MethodPost, "/feed/post", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed, entered data is incorrect.", resp["message"])
}

func TestCreatePost_NoImage(t *testing.T) {
	router := setupTestRouter(t)

	body, contentType := multipartBody(t, map[string]string{
		"title":   "Valid title",
		"content": "Valid content here",
	}, "", "", nil)

	req := httptest.NewRequest(http.MethodPost, "/feed/post", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No image provided.", resp["message"])
}

func TestListPosts_Handler(t *testing.T) {
	router := setupTestRouter(t)

	for i := 1; i <= 3; i++ {
		createTestPost(t, router, fmt.Sprintf("List post %d", i))
	}

	req := httptest.NewRequest(http.MethodGet, "/feed/posts?page=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Posts fetched successfully.", resp["message"])
	assert.Equal(t, float64(3), resp["totalItems"])
	assert.Len(t, resp["posts"], 1)
}

func TestListPosts_EmptyFeed(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/feed/posts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(0), resp["totalItems"])
	assert.Empty(t, resp["posts"])
}

func TestGetPost_Handler(t *testing.T) {
	router := setupTestRouter(t)
	created := createTestPost(t, router, "Fetched via handler")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/feed/post/%v", created["id"]), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Post fetched.", resp["message"])
}

func TestGetPost_NotFound(t *testing.T) {
	router := setupTestRouter(t)

	tests := []string{"/feed/post/424242", "/feed/post/not-a-number"}
	for _, path := range tests {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Could not find post.", resp["message"])
	}
}

// TestUpdatePost_JSONBody 纯 JSON 请求体携带已有图片引用
func TestUpdatePost_JSONBody(t *testing.T) {
	router := setupTestRouter(t)
	created := createTestPost(t, router, "Before JSON update")

	payload, _ := json.Marshal(map[string]string{
		"title":   "After JSON update",
		"content": "Updated content body",
		"image":   created["imageUrl"].(string),
	})

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/feed/post/%v", created["id"]), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Post updated!", resp["message"])
	post := resp["post"].(map[string]interface{})
	assert.Equal(t, "After JSON update", post["title"])
	assert.Equal(t, created["imageUrl"], post["imageUrl"])
}

// TestUpdatePost_MultipartNewFile 新上传文件优先于引用
func TestUpdatePost_MultipartNewFile(t *testing.T) {
	router := setupTestRouter(t)
	created := createTestPost(t, router, "Before file update")

	body, contentType := multipartBody(t, map[string]string{
		"title":   "After file update",
		"content": "Updated content body",
		"image":   created["imageUrl"].(string),
	}, "image", "replacement.png", pngBytes)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/feed/post/%v", created["id"]), body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	post := resp["post"].(map[string]interface{})
	assert.NotEqual(t, created["imageUrl"], post["imageUrl"])
}

func TestDeletePost_Handler(t *testing.T) {
	router := setupTestRouter(t)
	created := createTestPost(t, router, "Doomed via handler")

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/feed/post/%v", created["id"]), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Deleted post.", resp["message"])

	// 再次获取应 404
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/feed/post/%v", created["id"]), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
