package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/taskforge-labs/taskforge-backend/internal/pagination"
	"github.com/taskforge-labs/taskforge-backend/internal/repository"
	"github.com/taskforge-labs/taskforge-backend/internal/service"
	"github.com/taskforge-labs/taskforge-backend/internal/types"
)

// stubTaskService lets each test pin the behavior of one method.
type stubTaskService struct {
	listFn func(ctx context.Context, userID string, f *service.TaskListFilters, req pagination.Request) (*pagination.Result[*repository.Task], error)
	getFn  func(ctx context.Context, taskID, userID string) (*repository.Task, error)
	bulkFn func(ctx context.Context, userID string, taskIDs []string, status string) (*service.BulkStatusResult, error)

	lastPageReq  pagination.Request
	lastListCall bool
}

func (s *stubTaskService) Create(ctx context.Context, userID string, req *service.CreateTaskRequest) (*repository.Task, error) {
	return nil, service.ErrInvalidInput
}

func (s *stubTaskService) GetByID(ctx context.Context, taskID, userID string) (*repository.Task, error) {
	if s.getFn != nil {
		return s.getFn(ctx, taskID, userID)
	}
	return nil, service.ErrNotFound
}

func (s *stubTaskService) Update(ctx context.Context, taskID, userID string, req *service.UpdateTaskRequest) (*repository.Task, error) {
	return nil, service.ErrNotFound
}

func (s *stubTaskService) Delete(ctx context.Context, taskID, userID string) error {
	return service.ErrNotFound
}

func (s *stubTaskService) List(ctx context.Context, userID string, f *service.TaskListFilters, req pagination.Request) (*pagination.Result[*repository.Task], error) {
	s.lastListCall = true
	s.lastPageReq = req
	if s.listFn != nil {
		return s.listFn(ctx, userID, f, req)
	}
	return &pagination.Result[*repository.Task]{Mode: req.Mode, Data: []*repository.Task{}}, nil
}

func (s *stubTaskService) ListActivity(ctx context.Context, taskID, userID string, req pagination.Request) (*pagination.Result[*repository.ActivityLog], error) {
	return &pagination.Result[*repository.ActivityLog]{Mode: req.Mode, Data: []*repository.ActivityLog{}}, nil
}

func (s *stubTaskService) BulkUpdateStatus(ctx context.Context, userID string, taskIDs []string, status string) (*service.BulkStatusResult, error) {
	if s.bulkFn != nil {
		return s.bulkFn(ctx, userID, taskIDs, status)
	}
	return &service.BulkStatusResult{TaskIDs: []string{}}, nil
}

func newTaskRouter(svc service.TaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTaskHandler(svc)
	authed := r.Group("", func(c *gin.Context) {
		c.Set("userID", "u1")
		c.Next()
	})
	authed.GET("/tasks", h.List)
	authed.GET("/tasks/:id", h.Get)
	authed.PATCH("/tasks/bulk-status", h.BulkUpdateStatus)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleTask(id string) *repository.Task {
	return &repository.Task{
		ID:        id,
		Title:     "Task " + id,
		Status:    types.StatusTodo,
		Priority:  types.PriorityMedium,
		ProjectID: "p1",
		CreatorID: "u1",
		Tags:      []string{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

// ============================================
// Response shapes
// ============================================

func TestTaskList_NoParamsReturnsBareArray(t *testing.T) {
	svc := &stubTaskService{
		listFn: func(ctx context.Context, userID string, f *service.TaskListFilters, req pagination.Request) (*pagination.Result[*repository.Task], error) {
			return &pagination.Result[*repository.Task]{
				Mode: pagination.ModeRaw,
				Data: []*repository.Task{sampleTask("a"), sampleTask("b")},
			}, nil
		},
	}
	w := doRequest(t, newTaskRouter(svc), http.MethodGet, "/tasks", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, pagination.ModeRaw, svc.lastPageReq.Mode)

	var arr []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &arr), "raw mode must serialize a top-level array")
	require.Len(t, arr, 2)
}

func TestTaskList_PageParamReturnsOffsetEnvelope(t *testing.T) {
	svc := &stubTaskService{
		listFn: func(ctx context.Context, userID string, f *service.TaskListFilters, req pagination.Request) (*pagination.Result[*repository.Task], error) {
			return &pagination.Result[*repository.Task]{
				Mode: pagination.ModeOffset,
				Data: []*repository.Task{sampleTask("a")},
				Offset: &pagination.OffsetMeta{
					Page: 2, Limit: 10, Total: 11, TotalPages: 2,
				},
			}, nil
		},
	}
	w := doRequest(t, newTaskRouter(svc), http.MethodGet, "/tasks?page=2&limit=10", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, pagination.ModeOffset, svc.lastPageReq.Mode)
	require.Equal(t, 2, svc.lastPageReq.Page)
	require.Equal(t, 10, svc.lastPageReq.Limit)

	var env struct {
		Data       []json.RawMessage     `json:"data"`
		Pagination pagination.OffsetMeta `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	require.Equal(t, 11, env.Pagination.Total)
	require.Equal(t, 2, env.Pagination.TotalPages)
}

func TestTaskList_CursorParamReturnsCursorEnvelope(t *testing.T) {
	next := pagination.Encode(pagination.Cursor{CreatedAt: time.Now().UTC(), ID: "9d2f0a44-41f5-4b8e-a9d4-55fb706a9d10"})
	svc := &stubTaskService{
		listFn: func(ctx context.Context, userID string, f *service.TaskListFilters, req pagination.Request) (*pagination.Result[*repository.Task], error) {
			return &pagination.Result[*repository.Task]{
				Mode: pagination.ModeCursor,
				Data: []*repository.Task{sampleTask("a")},
				Cursor: &pagination.CursorMeta{
					Limit: 20, Total: 40, HasMore: true, NextCursor: &next,
				},
			}, nil
		},
	}
	w := doRequest(t, newTaskRouter(svc), http.MethodGet, "/tasks?cursor=", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, pagination.ModeCursor, svc.lastPageReq.Mode)

	var env struct {
		Data       []json.RawMessage     `json:"data"`
		Pagination pagination.CursorMeta `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Pagination.HasMore)
	require.NotNil(t, env.Pagination.NextCursor)
	require.Equal(t, next, *env.Pagination.NextCursor)
}

func TestTaskList_CursorWinsOverPage(t *testing.T) {
	svc := &stubTaskService{}
	w := doRequest(t, newTaskRouter(svc), http.MethodGet, "/tasks?page=3&cursor=", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, pagination.ModeCursor, svc.lastPageReq.Mode)
}

func TestTaskList_LimitClampedToMax(t *testing.T) {
	svc := &stubTaskService{}
	w := doRequest(t, newTaskRouter(svc), http.MethodGet, "/tasks?page=1&limit=5000", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, pagination.TaskLimits.Max, svc.lastPageReq.Limit)
}

// ============================================
// Error mapping
// ============================================

func TestTaskGet_NotFoundMapsTo404(t *testing.T) {
	svc := &stubTaskService{
		getFn: func(ctx context.Context, taskID, userID string) (*repository.Task, error) {
			return nil, service.ErrNotFound
		},
	}
	w := doRequest(t, newTaskRouter(svc), http.MethodGet, "/tasks/9d2f0a44-41f5-4b8e-a9d4-55fb706a9d10", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskGet_MalformedIDMapsTo400(t *testing.T) {
	svc := &stubTaskService{}
	w := doRequest(t, newTaskRouter(svc), http.MethodGet, "/tasks/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, svc.lastListCall)
}

func TestBulkUpdateStatus_ReportsCounts(t *testing.T) {
	svc := &stubTaskService{
		bulkFn: func(ctx context.Context, userID string, taskIDs []string, status string) (*service.BulkStatusResult, error) {
			return &service.BulkStatusResult{Updated: 2, Skipped: 1, TaskIDs: taskIDs[:2]}, nil
		},
	}
	body := `{"taskIds":["a","b","c"],"status":"DONE"}`
	w := doRequest(t, newTaskRouter(svc), http.MethodPatch, "/tasks/bulk-status", body)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Updated int      `json:"updated"`
		Skipped int      `json:"skipped"`
		TaskIDs []string `json:"taskIds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Updated)
	require.Equal(t, 1, resp.Skipped)
	require.Equal(t, []string{"a", "b"}, resp.TaskIDs)
}

func TestBulkUpdateStatus_MissingBodyMapsTo400(t *testing.T) {
	svc := &stubTaskService{}
	w := doRequest(t, newTaskRouter(svc), http.MethodPatch, "/tasks/bulk-status", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
