package parse

import (
	"context"
	"time"

	"tempo/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var fallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "task_parse_fallback_total",
	Help: "Parses served by the local heuristic after the AI call failed",
})

func init() {
	prometheus.MustRegister(fallbackTotal)
}

// Parser turns free text plus a reference date into a task draft.
type Parser interface {
	Parse(ctx context.Context, input string, ref time.Time) (Draft, error)
}

// Composite tries the primary parser and silently falls back to the local
// heuristic on any failure. The fallback is total, so Parse never errors.
type Composite struct {
	Primary  Parser
	Fallback Parser
}

// NewParser wires the default strategy: Gemini when an API key is
// configured, heuristic-only otherwise.
func NewParser(apiKey, model string) *Composite {
	c := &Composite{Fallback: &Heuristic{}}
	if apiKey != "" {
		c.Primary = NewGeminiParser(apiKey, model)
	}
	return c
}

func (c *Composite) Parse(ctx context.Context, input string, ref time.Time) (Draft, error) {
	if c.Primary != nil {
		draft, err := c.Primary.Parse(ctx, input, ref)
		if err == nil {
			draft.Normalize(ref)
			return draft, nil
		}
		fallbackTotal.Inc()
		logger.Warn("ai parse failed, using fallback", "error", err)
	}

	draft, err := c.Fallback.Parse(ctx, input, ref)
	if err != nil {
		return Draft{}, err
	}
	draft.Normalize(ref)
	return draft, nil
}
