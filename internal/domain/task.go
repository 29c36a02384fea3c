package domain

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const DefaultDuration = 60

type Task struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	Date          time.Time `db:"date"`
	TimeSlot      *string   `db:"time_slot"`
	Duration      int       `db:"duration"`
	Completed     bool      `db:"completed"`
	Priority      string    `db:"priority"`
	Category      string    `db:"category"`
	OriginalInput string    `db:"original_input"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ApplyDefaults fills the fields the caller may omit. The same rules apply
// to manual creates and to drafts coming back from the parser. The category
// key is stored as given; keys outside the registry resolve to the fallback
// display attributes at render time, in View.
func (t *Task) ApplyDefaults() {
	if t.Category == "" {
		t.Category = CategoryOther
	}
	if !ValidPriority(t.Priority) {
		t.Priority = PriorityMedium
	}
	if t.Duration <= 0 {
		t.Duration = DefaultDuration
	}
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// TaskView is the JSON shape returned by the API. It carries the display
// attributes derived from the category registry.
type TaskView struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
	TimeSlot      *string `json:"time_slot"`
	Duration      int     `json:"duration"`
	Completed     bool    `json:"completed"`
	Priority      string  `json:"priority"`
	Category      string  `json:"category"`
	CategoryLabel string  `json:"category_label"`
	CategoryIcon  string  `json:"category_icon"`
	Color         string  `json:"color"`
	OriginalInput string  `json:"original_input,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func (t *Task) View() TaskView {
	cat := CategoryInfo(t.Category)
	return TaskView{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Date:          t.Date.Format("2006-01-02"),
		TimeSlot:      t.TimeSlot,
		Duration:      t.Duration,
		Completed:     t.Completed,
		Priority:      t.Priority,
		Category:      t.Category,
		CategoryLabel: cat.Label,
		CategoryIcon:  cat.Icon,
		Color:         cat.Color,
		OriginalInput: t.OriginalInput,
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
