package images

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mivura/feedbed/storage/local"
)

var pngBytes = append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0x00}, 64)...)

func setupTestRouter(t *testing.T) (*gin.Engine, *local.Storage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := local.NewStorage(t.TempDir())
	require.NoError(t, err)

	router := gin.New()
	router.GET("/images/:identifier", NewHandler(store).GetImage)
	return router, store
}

func TestGetImage(t *testing.T) {
	router, store := setupTestRouter(t)
	require.NoError(t, store.SaveWithContext(context.Background(), "123-pic.png", bytes.NewReader(pngBytes)))

	req := httptest.NewRequest(http.MethodGet, "/images/123-pic.png", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, w.Body.Bytes())
}

func TestGetImage_NotFound(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/images/missing.png", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message": "Could not find image."}`, w.Body.String())
}

func TestGetImage_TraversalRejected(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/images/..%2Fsecret.txt", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
