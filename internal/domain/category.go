package domain

// CategoryOther is the catch-all bucket every unknown key resolves to.
const CategoryOther = "other"

type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// categories is the fixed registry. It is never mutated after init;
// callers only ever read from it.
var categories = map[string]Category{
	"work":     {Key: "work", Label: "Work", Color: "#6366f1", Icon: "💼"},
	"personal": {Key: "personal", Label: "Personal", Color: "#ec4899", Icon: "👤"},
	"health":   {Key: "health", Label: "Health & Fitness", Color: "#10b981", Icon: "🏃"},
	"errands":  {Key: "errands", Label: "Errands", Color: "#f59e0b", Icon: "🛒"},
	"finance":  {Key: "finance", Label: "Finance", Color: "#06b6d4", Icon: "💰"},
	"social":   {Key: "social", Label: "Social", Color: "#8b5cf6", Icon: "👥"},
	"learning": {Key: "learning", Label: "Learning", Color: "#f43f5e", Icon: "📚"},
	"home":     {Key: "home", Label: "Home", Color: "#84cc16", Icon: "🏠"},
	"other":    {Key: "other", Label: "Other", Color: "#71717a", Icon: "📌"},
}

// categoryOrder keeps the registry listing stable for the API and the UI.
var categoryOrder = []string{
	"work", "personal", "health", "errands", "finance",
	"social", "learning", "home", "other",
}

// CategoryInfo returns the registry entry for key, falling back to "other"
// for unknown or empty keys.
func CategoryInfo(key string) Category {
	if c, ok := categories[key]; ok {
		return c
	}
	return categories[CategoryOther]
}

func ValidCategory(key string) bool {
	_, ok := categories[key]
	return ok
}

// Categories returns all registry entries in display order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryOrder))
	for _, key := range categoryOrder {
		out = append(out, categories[key])
	}
	return out
}
