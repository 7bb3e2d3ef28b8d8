package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/blob"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/dto"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/repo"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/service"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repo.MemCheckpointRepo, *blob.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := repo.NewMemCheckpointRepo()
	store := blob.NewMemStore()
	svc := service.NewCheckpointService(r, store, nil)
	h := NewCheckpointHandler(svc, upload.NewPipeline(store))

	e := gin.New()
	api := e.Group("/api")
	api.GET("/checkpoints", h.List)
	api.POST("/checkpoints", h.Create)
	api.POST("/checkpoints/upload", h.UploadOne)
	api.POST("/checkpoints/delete-file", h.RemoveFile)
	api.PUT("/checkpoints/:id", h.Update)
	api.DELETE("/checkpoints/:id", h.Delete)
	return e, r, store
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func createCheckpoint(t *testing.T, e *gin.Engine, name string) dto.CheckpointResponse {
	t.Helper()
	body, contentType := multipartBody(t,
		map[string]string{"name": name, "todos": `["fix bug"]`, "date": "2026-02-19"},
		map[string]string{"a.txt": "alpha", "b.txt": "beta"},
	)
	req := httptest.NewRequest("POST", "/api/checkpoints", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.CheckpointResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateCheckpoint(t *testing.T) {
	e, _, store := newTestRouter(t)

	resp := createCheckpoint(t, e, "Sprint Planning")
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Sprint Planning", resp.Name)
	assert.Equal(t, []string{"fix bug"}, resp.Todos)
	require.Len(t, resp.Files, 2)
	assert.NotEqual(t, resp.Files[0].StorageName, resp.Files[1].StorageName)
	assert.Equal(t, 2, store.Len())
	for _, f := range resp.Files {
		assert.Equal(t, "/uploads/"+f.StorageName, f.AccessPath)
	}
}

func TestCreateCheckpointMissingFields(t *testing.T) {
	e, _, _ := newTestRouter(t)

	body, contentType := multipartBody(t, map[string]string{"name": "x", "todos": `["a"]`}, nil)
	req := httptest.NewRequest("POST", "/api/checkpoints", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCheckpointTodosFallback(t *testing.T) {
	e, _, _ := newTestRouter(t)

	body, contentType := multipartBody(t,
		map[string]string{"name": "x", "todos": "just one thing", "date": "2026-02-19"}, nil)
	req := httptest.NewRequest("POST", "/api/checkpoints", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.CheckpointResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"just one thing"}, resp.Todos)
}

func TestCreateCheckpointFileTooLarge(t *testing.T) {
	e, r, store := newTestRouter(t)

	body, contentType := multipartBody(t,
		map[string]string{"name": "x", "todos": `["a"]`, "date": "2026-02-19"},
		map[string]string{"huge.bin": strings.Repeat("x", upload.MaxFileSize+1)},
	)
	req := httptest.NewRequest("POST", "/api/checkpoints", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	list, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "rejected upload must not create a record")
	assert.Equal(t, 0, store.Len())
}

func TestUploadOneFileTooLarge(t *testing.T) {
	e, _, store := newTestRouter(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "huge.bin")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), upload.MaxFileSize+1))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/checkpoints/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, 0, store.Len())
}

func TestListCheckpoints(t *testing.T) {
	e, _, _ := newTestRouter(t)
	createCheckpoint(t, e, "one")
	createCheckpoint(t, e, "two")

	req := httptest.NewRequest("GET", "/api/checkpoints", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []dto.CheckpointResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "one", list[0].Name)
	assert.Equal(t, "two", list[1].Name)
}

func TestUpdateCheckpoint(t *testing.T) {
	e, _, _ := newTestRouter(t)
	created := createCheckpoint(t, e, "before")

	payload := fmt.Sprintf(`{"name":"after","todos":["b","c"],"date":"2026-03-01","files":%s}`,
		mustJSON(t, created.Files[:1]))
	req := httptest.NewRequest("PUT", "/api/checkpoints/"+created.ID, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.CheckpointResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "after", resp.Name)
	assert.Equal(t, []string{"b", "c"}, resp.Todos)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, created.CreatedAt.UTC(), resp.CreatedAt.UTC())
}

func TestUpdateCheckpointUnknownID(t *testing.T) {
	e, _, _ := newTestRouter(t)

	req := httptest.NewRequest("PUT", "/api/checkpoints/nope",
		strings.NewReader(`{"name":"x","todos":["a"],"date":"2026-03-01","files":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateCheckpointRejectsUnknownFields(t *testing.T) {
	e, _, _ := newTestRouter(t)
	created := createCheckpoint(t, e, "x")

	req := httptest.NewRequest("PUT", "/api/checkpoints/"+created.ID,
		strings.NewReader(`{"name":"x","todos":["a"],"date":"2026-03-01","files":[],"owner":"me"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCheckpoint(t *testing.T) {
	e, _, store := newTestRouter(t)
	created := createCheckpoint(t, e, "doomed")
	require.Equal(t, 2, store.Len())

	req := httptest.NewRequest("DELETE", "/api/checkpoints/"+created.ID, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, store.Len(), "attachment blobs removed with the record")

	// Second delete: the record is gone.
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/checkpoints/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadOne(t *testing.T) {
	e, _, store := newTestRouter(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "solo.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("solo"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/checkpoints/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var att dto.AttachmentPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &att))
	assert.Equal(t, "solo.txt", att.OriginalName)
	assert.Equal(t, int64(4), att.Size)
	_, ok := store.Get(att.StorageName)
	assert.True(t, ok)
}

func TestUploadOneNoFile(t *testing.T) {
	e, _, _ := newTestRouter(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/checkpoints/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveFile(t *testing.T) {
	e, r, store := newTestRouter(t)
	created := createCheckpoint(t, e, "x")
	target := created.Files[0]

	payload := fmt.Sprintf(`{"accessPath":%q,"checkpointId":%q}`, target.AccessPath, created.ID)
	req := httptest.NewRequest("POST", "/api/checkpoints/delete-file", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.DeleteFileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	_, ok := store.Get(target.StorageName)
	assert.False(t, ok)

	got, err := r.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, got.Files, 1)
	assert.NotEqual(t, target.AccessPath, got.Files[0].AccessPath)
}

func TestRemoveFileMissingAccessPath(t *testing.T) {
	e, _, _ := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/checkpoints/delete-file", strings.NewReader(`{"checkpointId":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
