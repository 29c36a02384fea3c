package repository

import (
	"context"
	"errors"
	"time"

	"tempo/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTaskNotFound covers both a missing row and a row owned by someone
// else; callers must not be able to tell the two apart.
var ErrTaskNotFound = errors.New("task not found")

const taskColumns = `id, user_id, title, COALESCE(description, ''), date, time_slot, duration, completed, priority, category, COALESCE(original_input, ''), created_at, updated_at`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Date, &t.TimeSlot,
		&t.Duration, &t.Completed, &t.Priority, &t.Category, &t.OriginalInput,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns the owner's tasks for one calendar date. Scheduled tasks
// come first in time order; unscheduled ones follow in id order.
func (r *TaskRepository) List(ctx context.Context, userID int64, date time.Time) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = $1 AND date = $2
		 ORDER BY time_slot NULLS LAST, id`,
		userID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.Date, &t.TimeSlot,
			&t.Duration, &t.Completed, &t.Priority, &t.Category, &t.OriginalInput,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) Get(ctx context.Context, userID, id int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanTask(row)
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, date, time_slot, duration, priority, category, original_input)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, completed, created_at, updated_at`,
		t.UserID, t.Title, t.Description, t.Date, t.TimeSlot, t.Duration,
		t.Priority, t.Category, t.OriginalInput,
	).Scan(&t.ID, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
}

// Update replaces every editable field. Completion is deliberately left
// alone; Toggle is the only writer of that flag.
func (r *TaskRepository) Update(ctx context.Context, userID, id int64, t *domain.Task) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, date = $3, time_slot = $4,
		     duration = $5, priority = $6, category = $7, updated_at = now()
		 WHERE id = $8 AND user_id = $9
		 RETURNING `+taskColumns,
		t.Title, t.Description, t.Date, t.TimeSlot, t.Duration, t.Priority,
		t.Category, id, userID,
	)
	return scanTask(row)
}

func (r *TaskRepository) Toggle(ctx context.Context, userID, id int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tasks SET completed = NOT completed, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		id, userID,
	)
	return scanTask(row)
}

// Delete is idempotent: removing an absent or foreign id is not an error,
// and the owner filter guarantees no other user's row can be touched.
func (r *TaskRepository) Delete(ctx context.Context, userID, id int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return err
}
