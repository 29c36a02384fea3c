package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tempo/internal/config"
	"tempo/internal/domain"
	"tempo/internal/http/middleware"
	"tempo/internal/parse"
	"tempo/internal/service"
	"tempo/internal/ws"

	"github.com/gin-gonic/gin"
)

func newTestHandler() *Handler {
	return &Handler{
		Cfg:    &config.Config{DevMode: true},
		Tasks:  newFakeTaskStore(),
		Users:  newFakeUserStore(),
		Parser: parse.NewParser("", "gemini-1.5-flash"),
		Hub:    ws.NewHub(),
	}
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	api.GET("/me", middleware.JWT(), h.Me)
	api.GET("/categories", middleware.JWT(), h.GetCategories)

	tasks := api.Group("/tasks")
	tasks.Use(middleware.JWT())
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.POST("/parse", h.ParseTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.POST("/:id/toggle", h.ToggleTask)
	}
	return r
}

func authToken(t *testing.T, userID int64) string {
	t.Helper()
	t.Setenv("JWT_SECRET", "handler-test-secret")
	service.InitJWT()
	token, err := service.GenerateJWT(userID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) domain.TaskView {
	t.Helper()
	var v domain.TaskView
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode task: %v (body %s)", err, w.Body.String())
	}
	return v
}

func TestTaskEndpointsRequireAuth(t *testing.T) {
	r := newTestRouter(newTestHandler())
	authToken(t, 1) // initializes the JWT secret

	paths := []struct{ method, path string }{
		{"GET", "/api/tasks?date=2024-06-10"},
		{"POST", "/api/tasks"},
		{"POST", "/api/tasks/parse"},
		{"PUT", "/api/tasks/1"},
		{"DELETE", "/api/tasks/1"},
		{"POST", "/api/tasks/1/toggle"},
	}
	for _, p := range paths {
		w := doJSON(t, r, p.method, p.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestCreateTaskAppliesDefaults(t *testing.T) {
	h := newTestHandler()
	r := newTestRouter(h)
	token := authToken(t, 1)

	w := doJSON(t, r, "POST", "/api/tasks", token, gin.H{
		"title": "Ship release",
		"date":  "2024-06-10",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	v := decodeTask(t, w)
	if v.ID == 0 {
		t.Error("expected an assigned id")
	}
	if v.Duration != 60 || v.Priority != "medium" || v.Category != "other" {
		t.Errorf("defaults not applied: %+v", v)
	}
	if v.TimeSlot != nil {
		t.Errorf("expected unscheduled task, got %v", *v.TimeSlot)
	}
	if v.Color == "" || v.CategoryLabel == "" {
		t.Errorf("missing derived category fields: %+v", v)
	}
}

func TestCreateTaskRejectsEmptyTitle(t *testing.T) {
	r := newTestRouter(newTestHandler())
	token := authToken(t, 1)

	w := doJSON(t, r, "POST", "/api/tasks", token, gin.H{"title": "   ", "date": "2024-06-10"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListTasksScopedToOwnerAndDate(t *testing.T) {
	h := newTestHandler()
	r := newTestRouter(h)
	mine := authToken(t, 1)
	theirs := authToken(t, 2)

	for _, req := range []struct {
		token string
		title string
		date  string
		slot  string
	}{
		{mine, "morning run", "2024-06-10", "07:00"},
		{mine, "standup", "2024-06-10", "09:30"},
		{mine, "other day", "2024-06-11", ""},
		{theirs, "not mine", "2024-06-10", "08:00"},
	} {
		body := gin.H{"title": req.title, "date": req.date}
		if req.slot != "" {
			body["time_slot"] = req.slot
		}
		if w := doJSON(t, r, "POST", "/api/tasks", req.token, body); w.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d", w.Code)
		}
	}

	w := doJSON(t, r, "GET", "/api/tasks?date=2024-06-10", mine, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var views []domain.TaskView
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(views))
	}
	for _, v := range views {
		if v.Title == "not mine" || v.Title == "other day" {
			t.Errorf("leaked task %q into the list", v.Title)
		}
	}
	// scheduled tasks in time order
	if *views[0].TimeSlot != "07:00" || *views[1].TimeSlot != "09:30" {
		t.Errorf("unexpected order: %v, %v", *views[0].TimeSlot, *views[1].TimeSlot)
	}
}

func TestUpdateTaskFullReplace(t *testing.T) {
	h := newTestHandler()
	r := newTestRouter(h)
	token := authToken(t, 1)

	w := doJSON(t, r, "POST", "/api/tasks", token, gin.H{
		"title": "draft", "date": "2024-06-10", "time_slot": "09:00",
		"duration": 30, "priority": "low", "category": "work",
		"description": "old",
	})
	created := decodeTask(t, w)

	w = doJSON(t, r, "PUT", fmt.Sprintf("/api/tasks/%d", created.ID), token, gin.H{
		"title": "final", "date": "2024-06-12", "time_slot": "11:15",
		"duration": 45, "priority": "high", "category": "health",
		"description": "new",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	v := decodeTask(t, w)
	if v.Title != "final" || v.Description != "new" || v.Date != "2024-06-12" {
		t.Errorf("fields not replaced: %+v", v)
	}
	if v.TimeSlot == nil || *v.TimeSlot != "11:15" || v.Duration != 45 {
		t.Errorf("schedule not replaced: %+v", v)
	}
	if v.Priority != "high" || v.Category != "health" {
		t.Errorf("priority/category not replaced: %+v", v)
	}
	if v.Completed {
		t.Error("update must not touch completion")
	}
}

func TestUpdateForeignTaskIsNotFound(t *testing.T) {
	h := newTestHandler()
	r := newTestRouter(h)
	owner := authToken(t, 1)
	intruder := authToken(t, 2)

	w := doJSON(t, r, "POST", "/api/tasks", owner, gin.H{"title": "secret", "date": "2024-06-10"})
	created := decodeTask(t, w)

	w = doJSON(t, r, "PUT", fmt.Sprintf("/api/tasks/%d", created.ID), intruder, gin.H{
		"title": "stolen", "date": "2024-06-10",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign task, got %d", w.Code)
	}

	// the row is untouched
	w = doJSON(t, r, "GET", "/api/tasks?date=2024-06-10", owner, nil)
	var views []domain.TaskView
	json.Unmarshal(w.Body.Bytes(), &views)
	if len(views) != 1 || views[0].Title != "secret" {
		t.Fatalf("owner's task was altered: %+v", views)
	}
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	h := newTestHandler()
	r := newTestRouter(h)
	token := authToken(t, 1)

	w := doJSON(t, r, "POST", "/api/tasks", token, gin.H{"title": "flip me", "date": "2024-06-10"})
	created := decodeTask(t, w)
	if created.Completed {
		t.Fatal("new task must start incomplete")
	}

	path := fmt.Sprintf("/api/tasks/%d/toggle", created.ID)

	w = doJSON(t, r, "POST", path, token, nil)
	if v := decodeTask(t, w); !v.Completed {
		t.Fatal("first toggle must complete the task")
	}
	w = doJSON(t, r, "POST", path, token, nil)
	if v := decodeTask(t, w); v.Completed {
		t.Fatal("second toggle must return to incomplete")
	}
}

func TestToggleMissingTaskIsNotFound(t *testing.T) {
	r := newTestRouter(newTestHandler())
	token := authToken(t, 1)

	w := doJSON(t, r, "POST", "/api/tasks/999/toggle", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteIsIdempotentAndScoped(t *testing.T) {
	h := newTestHandler()
	r := newTestRouter(h)
	owner := authToken(t, 1)
	intruder := authToken(t, 2)

	w := doJSON(t, r, "POST", "/api/tasks", owner, gin.H{"title": "keep me", "date": "2024-06-10"})
	created := decodeTask(t, w)

	// someone else deleting my task: 204, but nothing happens
	w = doJSON(t, r, "DELETE", fmt.Sprintf("/api/tasks/%d", created.ID), intruder, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = doJSON(t, r, "GET", "/api/tasks?date=2024-06-10", owner, nil)
	var views []domain.TaskView
	json.Unmarshal(w.Body.Bytes(), &views)
	if len(views) != 1 {
		t.Fatal("foreign delete removed the owner's task")
	}

	// owner delete, twice
	for i := 0; i < 2; i++ {
		w = doJSON(t, r, "DELETE", fmt.Sprintf("/api/tasks/%d", created.ID), owner, nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("delete %d: expected 204, got %d", i+1, w.Code)
		}
	}
}

func TestParseEndpointReturnsDraftWithoutPersisting(t *testing.T) {
	h := newTestHandler()
	r := newTestRouter(h)
	token := authToken(t, 1)

	w := doJSON(t, r, "POST", "/api/tasks/parse", token, gin.H{
		"input":          "meeting tomorrow at 2pm",
		"reference_date": "2024-06-10",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var draft parse.Draft
	if err := json.Unmarshal(w.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft.Date != "2024-06-11" {
		t.Errorf("date: expected 2024-06-11, got %s", draft.Date)
	}
	if draft.TimeSlot == nil || *draft.TimeSlot != "14:00" {
		t.Errorf("time_slot: got %v", draft.TimeSlot)
	}

	// parse never persists
	w = doJSON(t, r, "GET", "/api/tasks?date=2024-06-11", token, nil)
	var views []domain.TaskView
	json.Unmarshal(w.Body.Bytes(), &views)
	if len(views) != 0 {
		t.Fatalf("parse persisted a task: %+v", views)
	}
}

func TestParseEndpointRejectsEmptyInput(t *testing.T) {
	r := newTestRouter(newTestHandler())
	token := authToken(t, 1)

	w := doJSON(t, r, "POST", "/api/tasks/parse", token, gin.H{"input": "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetCategories(t *testing.T) {
	r := newTestRouter(newTestHandler())
	token := authToken(t, 1)

	w := doJSON(t, r, "GET", "/api/categories", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var cats []domain.Category
	if err := json.Unmarshal(w.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(cats) != 9 {
		t.Fatalf("expected 9 categories, got %d", len(cats))
	}
}
