package parse

import (
	"strings"
	"time"

	"tempo/internal/domain"
)

// Draft is an unpersisted task proposal extracted from free text.
type Draft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	TimeSlot    *string `json:"time_slot"`
	Duration    int     `json:"duration"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
}

// Normalize applies the defaulting policy in one place: values present and
// valid win, everything else falls back to the hardcoded defaults. The
// reference date fills in a missing or malformed date.
func (d *Draft) Normalize(ref time.Time) {
	d.Title = strings.TrimSpace(d.Title)

	if d.Date == "" {
		d.Date = ref.Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		d.Date = ref.Format("2006-01-02")
	}

	if d.TimeSlot != nil {
		slot := strings.TrimSpace(*d.TimeSlot)
		if _, err := time.Parse("15:04", slot); err != nil {
			d.TimeSlot = nil
		} else {
			d.TimeSlot = &slot
		}
	}

	if d.Duration <= 0 {
		d.Duration = domain.DefaultDuration
	}
	if !domain.ValidPriority(d.Priority) {
		d.Priority = domain.PriorityMedium
	}
	if !domain.ValidCategory(d.Category) {
		d.Category = domain.CategoryOther
	}
}
