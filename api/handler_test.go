package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"

	"github.com/mkravets/taskboard/database"
	"github.com/mkravets/taskboard/internal/service"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	handler := &Handler{
		Boards:   service.NewBoardService(db),
		Projects: service.NewProjectService(db),
		Tasks:    service.NewTaskService(db),
		Notes:    service.NewNoteService(db),
		Owners:   service.NewOwnerService(db),
		Tags:     service.NewTagService(db),
		Events:   service.NewEventService(db, nil),
	}

	router := gin.New()
	handler.Register(router.Group("/api"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestCreateAndGetBoard(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/boards/", gin.H{
		"name":     "Launch",
		"settings": gin.H{"theme": "dark"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	board := decode[map[string]any](t, w)
	code, _ := board["external_id"].(string)
	if len(code) != 5 {
		t.Fatalf("expected 5-char external id, got %q", code)
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/boards/%v", board["id"]), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/boards/by-code/"+code, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from by-code lookup, got %d", w.Code)
	}
}

func TestBoardValidationAndNotFound(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/boards/", gin.H{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/boards/999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestTaskEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	board := decode[map[string]any](t, doJSON(t, router, http.MethodPost, "/api/boards/", gin.H{"name": "B"}))
	project := decode[map[string]any](t, doJSON(t, router, http.MethodPost, "/api/projects/", gin.H{
		"name":     "P",
		"board_id": board["id"],
	}))

	// unknown owner id -> 409, and no task is left behind
	w := doJSON(t, router, http.MethodPost, "/api/tasks/", gin.H{
		"user_input": "do X",
		"project_id": project["id"],
		"owner_ids":  []int{999},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unknown owner, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/tasks/", gin.H{
		"user_input": "do X",
		"project_id": project["id"],
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	task := decode[map[string]any](t, w)

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/tasks/%v/complete", task["id"]), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	status := decode[map[string]any](t, w)
	if status["status"] != "success" {
		t.Fatalf("expected success body, got %v", status)
	}

	w = doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/api/tasks/?project_id=%v&is_completed=true", project["id"]), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	tasks := decode[[]map[string]any](t, w)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 completed task, got %d", len(tasks))
	}

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/tasks/%v", task["id"]), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/tasks/%v", task["id"]), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestTagConflictMapsTo409(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/tags/", gin.H{"name": "urgent"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate tag name, got %d", w.Code)
	}
}

func TestDeleteBoardCascadesOverHTTP(t *testing.T) {
	router := setupTestRouter(t)

	board := decode[map[string]any](t, doJSON(t, router, http.MethodPost, "/api/boards/", gin.H{"name": "B"}))
	project := decode[map[string]any](t, doJSON(t, router, http.MethodPost, "/api/projects/", gin.H{
		"name":     "P",
		"board_id": board["id"],
	}))

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/boards/%v", board["id"]), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/projects/%v", project["id"]), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected project gone with its board, got %d", w.Code)
	}
}
