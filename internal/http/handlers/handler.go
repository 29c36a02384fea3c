package handlers

import (
	"context"
	"time"

	"tempo/internal/config"
	"tempo/internal/domain"
	"tempo/internal/parse"
	"tempo/internal/repository"
	"tempo/internal/service"
	"tempo/internal/ws"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskStore is the persistence contract the task handlers depend on.
// Satisfied by repository.TaskRepository; tests substitute a fake.
type TaskStore interface {
	List(ctx context.Context, userID int64, date time.Time) ([]*domain.Task, error)
	Get(ctx context.Context, userID, id int64) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, userID, id int64, t *domain.Task) (*domain.Task, error)
	Toggle(ctx context.Context, userID, id int64) (*domain.Task, error)
	Delete(ctx context.Context, userID, id int64) error
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	UpdateProfile(ctx context.Context, id int64, name, picture string) error
}

type Handler struct {
	DB     *pgxpool.Pool
	Cfg    *config.Config
	Tasks  TaskStore
	Users  UserStore
	Parser parse.Parser
	Google *service.GoogleAuth
	Hub    *ws.Hub
}

func NewHandler(db *pgxpool.Pool, cfg *config.Config, hub *ws.Hub) *Handler {
	return &Handler{
		DB:     db,
		Cfg:    cfg,
		Tasks:  repository.NewTaskRepository(db),
		Users:  repository.NewUserRepository(db),
		Parser: parse.NewParser(cfg.GeminiAPIKey, cfg.GeminiModel),
		Google: service.NewGoogleAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL),
		Hub:    hub,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// notifyTasksChanged pushes a change event to the owner's other tabs.
func (h *Handler) notifyTasksChanged(userID int64, dates ...string) {
	if h.Hub == nil {
		return
	}
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		h.Hub.NotifyTasksChanged(userID, d)
	}
}
