package parse

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"tempo/internal/domain"
)

// Heuristic is the deterministic local parser used when the AI call is
// unavailable or fails. It never returns an error.
type Heuristic struct{}

// Ordered from most to least specific so "at 3:30pm" is not half-eaten by
// the bare "3pm" pattern.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)at\s+(\d{1,2}):(\d{2})\s*(am|pm)?`),
	regexp.MustCompile(`(?i)at\s+(\d{1,2})\s*(am|pm)`),
	regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(am|pm)?`),
	regexp.MustCompile(`(?i)(\d{1,2})\s*(am|pm)`),
}

var durationRe = regexp.MustCompile(`(?i)for\s+(\d+)\s*(hour|hr|minute|min)s?`)

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// categoryKeywords is checked in order; the first category with any keyword
// present in the text wins.
var categoryKeywords = []struct {
	key   string
	words []string
}{
	{"work", []string{"meeting", "work", "office", "email", "project", "deadline", "client", "report"}},
	{"health", []string{"gym", "workout", "exercise", "doctor", "medicine", "run", "yoga", "dentist"}},
	{"errands", []string{"buy", "shop", "return", "pick up", "pickup", "drop off", "amazon", "store", "grocery"}},
	{"finance", []string{"pay", "bill", "bank", "tax", "budget", "invoice", "rent", "insurance"}},
	{"social", []string{"call", "meet", "lunch", "dinner", "party", "friend", "family", "mom", "dad"}},
	{"learning", []string{"study", "learn", "read", "course", "class", "practice", "tutorial"}},
	{"home", []string{"clean", "cook", "laundry", "repair", "organize", "dishes", "vacuum"}},
	{"personal", []string{"appointment", "haircut", "spa", "self-care"}},
}

type span struct{ start, end int }

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// extractTime finds the first clock expression. Returned indices refer to
// the searched string so the expression can be cut from the title later.
func extractTime(text string) (slot string, cut span, ok bool) {
	for _, re := range timePatterns {
		idx := re.FindStringSubmatchIndex(text)
		if idx == nil {
			continue
		}
		sub := re.FindStringSubmatch(text)

		hour, _ := strconv.Atoi(sub[1])
		minute := 0
		ampm := ""
		if len(sub) > 2 && isDigits(sub[2]) {
			minute, _ = strconv.Atoi(sub[2])
			if len(sub) > 3 {
				ampm = strings.ToLower(sub[3])
			}
		} else if len(sub) > 2 {
			ampm = strings.ToLower(sub[2])
		}

		if ampm == "pm" && hour < 12 {
			hour += 12
		} else if ampm == "am" && hour == 12 {
			hour = 0
		}
		if hour > 23 || minute > 59 {
			continue
		}

		return fmt.Sprintf("%02d:%02d", hour, minute), span{idx[0], idx[1]}, true
	}
	return "", span{}, false
}

// resolveDate matches "today", "tomorrow" or a weekday name against the
// reference date. A weekday matching the reference's own day means next
// week, never the reference day itself.
func resolveDate(text string, ref time.Time) (time.Time, span, bool) {
	if idx := regexp.MustCompile(`(?i)\btomorrow\b`).FindStringIndex(text); idx != nil {
		return ref.AddDate(0, 0, 1), span{idx[0], idx[1]}, true
	}
	if idx := regexp.MustCompile(`(?i)\btoday\b`).FindStringIndex(text); idx != nil {
		return ref, span{idx[0], idx[1]}, true
	}

	// Monday-based index to line up with weekdayNames
	current := (int(ref.Weekday()) + 6) % 7
	for i, day := range weekdayNames {
		idx := regexp.MustCompile(`(?i)\b` + day + `\b`).FindStringIndex(text)
		if idx == nil {
			continue
		}
		ahead := (i - current + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return ref.AddDate(0, 0, ahead), span{idx[0], idx[1]}, true
	}
	return ref, span{}, false
}

func extractDuration(text string) (minutes int, cut span, ok bool) {
	idx := durationRe.FindStringSubmatchIndex(text)
	if idx == nil {
		return 0, span{}, false
	}
	sub := durationRe.FindStringSubmatch(text)
	n, _ := strconv.Atoi(sub[1])
	unit := strings.ToLower(sub[2])
	if strings.HasPrefix(unit, "hour") || strings.HasPrefix(unit, "hr") {
		n *= 60
	}
	return n, span{idx[0], idx[1]}, true
}

func matchCategory(text string) string {
	for _, c := range categoryKeywords {
		for _, kw := range c.words {
			if strings.Contains(text, kw) {
				return c.key
			}
		}
	}
	return domain.CategoryOther
}

// cutSpans removes the given (disjoint) ranges from s.
func cutSpans(s string, cuts []span) string {
	if len(cuts) == 0 {
		return s
	}
	keep := make([]bool, len(s))
	for i := range keep {
		keep[i] = true
	}
	for _, c := range cuts {
		for i := c.start; i < c.end && i < len(keep); i++ {
			keep[i] = false
		}
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if keep[i] {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

var (
	multiSpaceRe  = regexp.MustCompile(`\s+`)
	leadingPrepRe = regexp.MustCompile(`(?i)^(at|for|on)\s+`)
)

func cleanTitle(s string) string {
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = leadingPrepRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func (h *Heuristic) Parse(_ context.Context, input string, ref time.Time) (Draft, error) {
	trimmed := strings.TrimSpace(input)

	// The extraction regexes are case-insensitive, so spans come straight
	// from the original text. Lowering it first would shift byte offsets on
	// characters whose case pair has a different UTF-8 length.
	var cuts []span

	var timeSlot *string
	if slot, cut, ok := extractTime(trimmed); ok {
		timeSlot = &slot
		cuts = append(cuts, cut)
	}

	date := ref
	if d, cut, ok := resolveDate(trimmed, ref); ok {
		date = d
		cuts = append(cuts, cut)
	}

	duration := domain.DefaultDuration
	if n, cut, ok := extractDuration(trimmed); ok && n > 0 {
		duration = n
		cuts = append(cuts, cut)
	}

	title := cleanTitle(cutSpans(trimmed, cuts))
	if title == "" {
		title = titleCaseWords(trimmed)
	}
	if title == "" {
		title = "Untitled task"
	}

	return Draft{
		Title:       title,
		Description: "",
		Date:        date.Format("2006-01-02"),
		TimeSlot:    timeSlot,
		Duration:    duration,
		Priority:    domain.PriorityMedium,
		Category:    matchCategory(strings.ToLower(trimmed)),
	}, nil
}
