package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tempo/internal/domain"
	"tempo/internal/repository"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// midnight drops the time-of-day part; the date column only cares about
// the calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type taskRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
	TimeSlot      *string `json:"time_slot"`
	Duration      int     `json:"duration"`
	Priority      string  `json:"priority"`
	Category      string  `json:"category"`
	OriginalInput string  `json:"original_input"`
}

// toTask builds a domain task from the request, defaulting the date to
// today when absent or malformed.
func (req *taskRequest) toTask(userID int64) *domain.Task {
	date := time.Now()
	if req.Date != "" {
		if d, err := time.Parse(dateLayout, req.Date); err == nil {
			date = d
		}
	}
	date = midnight(date)

	timeSlot := req.TimeSlot
	if timeSlot != nil {
		slot := strings.TrimSpace(*timeSlot)
		if slot == "" {
			timeSlot = nil
		} else {
			timeSlot = &slot
		}
	}

	t := &domain.Task{
		UserID:        userID,
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Date:          date,
		TimeSlot:      timeSlot,
		Duration:      req.Duration,
		Priority:      req.Priority,
		Category:      req.Category,
		OriginalInput: req.OriginalInput,
	}
	t.ApplyDefaults()
	return t
}

// ListTasks returns the owner's tasks for one date (?date=YYYY-MM-DD,
// today when absent or malformed).
func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	date := time.Now()
	if v := c.Query("date"); v != "" {
		if d, err := time.Parse(dateLayout, v); err == nil {
			date = d
		}
	}

	tasks, err := h.Tasks.List(c.Request.Context(), userID, midnight(date))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	views := make([]domain.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, t.View())
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req taskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	task := req.toTask(userID)
	if err := h.Tasks.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	h.notifyTasksChanged(userID, task.Date.Format(dateLayout))
	c.JSON(http.StatusCreated, task.View())
}

// UpdateTask replaces every editable field; the completed flag is only
// ever written through ToggleTask.
func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req taskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	ctx := c.Request.Context()

	// read the row first so a date move can refresh both day views
	existing, err := h.Tasks.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	updated, err := h.Tasks.Update(ctx, userID, id, req.toTask(userID))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	h.notifyTasksChanged(userID, existing.Date.Format(dateLayout), updated.Date.Format(dateLayout))
	c.JSON(http.StatusOK, updated.View())
}

func (h *Handler) ToggleTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, err := h.Tasks.Toggle(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle task"})
		return
	}

	h.notifyTasksChanged(userID, task.Date.Format(dateLayout))
	c.JSON(http.StatusOK, task.View())
}

// DeleteTask is idempotent: deleting an absent or foreign id still
// answers 204.
func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx := c.Request.Context()

	// best-effort read so the owner's other tabs know which date changed
	existing, _ := h.Tasks.Get(ctx, userID, id)

	if err := h.Tasks.Delete(ctx, userID, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	if existing != nil {
		h.notifyTasksChanged(userID, existing.Date.Format(dateLayout))
	}
	c.Status(http.StatusNoContent)
}

type parseRequest struct {
	Input         string `json:"input"`
	ReferenceDate string `json:"reference_date"`
}

// ParseTask turns free text into a task draft. Nothing is persisted here;
// the client follows up with CreateTask once the draft is accepted.
func (h *Handler) ParseTask(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req parseRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input is required"})
		return
	}

	ref := time.Now()
	if req.ReferenceDate != "" {
		if d, err := time.Parse(dateLayout, req.ReferenceDate); err == nil {
			ref = d
		}
	}

	draft, err := h.Parser.Parse(c.Request.Context(), req.Input, ref)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to parse input"})
		return
	}

	c.JSON(http.StatusOK, draft)
}
