package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiParser extracts task drafts with the Gemini generateContent API.
type GeminiParser struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiParser(apiKey, model string) *GeminiParser {
	return &GeminiParser{
		baseURL: geminiBaseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func buildPrompt(input string, ref time.Time) string {
	today := ref.Format("2006-01-02")
	tomorrow := ref.AddDate(0, 0, 1).Format("2006-01-02")

	daysAhead := make(map[string]string, 7)
	for i := 0; i < 7; i++ {
		d := ref.AddDate(0, 0, i)
		daysAhead[strings.ToLower(d.Weekday().String())] = d.Format("2006-01-02")
	}
	weekJSON, _ := json.Marshal(daysAhead)

	return fmt.Sprintf(`You are a task parser. Extract task details from the user's input and return ONLY a JSON object.

Today: %s (%s)
Tomorrow: %s
This week's dates: %s

User input: %q

Return a JSON object with:
- "title": Professional, clear task title (properly capitalized)
- "description": Brief helpful description (1-2 sentences) or empty string
- "date": YYYY-MM-DD format. Use %s if not specified. Use the dates above for day names.
- "time_slot": Time in HH:MM 24-hour format (e.g., "14:30") or null if not specified
- "duration": Minutes (15, 30, 45, 60, 90, 120, 180). Estimate based on task type.
- "priority": "low", "medium", or "high"
- "category": One of: work, personal, health, errands, finance, social, learning, home, other

Category guide:
- work: job tasks, meetings, projects, emails, deadlines
- personal: self-care, hobbies, appointments
- health: gym, doctor, exercise, medicine, wellness
- errands: shopping, returns, pickups, deliveries, packages
- finance: bills, banking, taxes, payments
- social: calls, meetups, events with friends/family
- learning: study, courses, reading, practice
- home: cleaning, cooking, repairs, organizing
- other: anything else

Return ONLY valid JSON, no markdown or explanation:`,
		today, ref.Weekday(), tomorrow, weekJSON, input, today)
}

var (
	fenceRe      = regexp.MustCompile("```(?:json)?\\s*")
	jsonObjectRe = regexp.MustCompile(`(?s)\{[^{}]*\}`)
)

// extractDraft pulls the first JSON object out of the model's text, which
// may arrive wrapped in markdown fences despite the prompt.
func extractDraft(text string) (Draft, error) {
	text = fenceRe.ReplaceAllString(strings.TrimSpace(text), "")

	raw := jsonObjectRe.FindString(text)
	if raw == "" {
		return Draft{}, fmt.Errorf("no JSON object in model response")
	}

	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Draft{}, fmt.Errorf("decode model JSON: %w", err)
	}
	if strings.TrimSpace(d.Title) == "" {
		return Draft{}, fmt.Errorf("model response missing title")
	}
	return d, nil
}

func (g *GeminiParser) Parse(ctx context.Context, input string, ref time.Time) (Draft, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: buildPrompt(input, ref)}}}},
	})
	if err != nil {
		return Draft{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return Draft{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Draft{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return Draft{}, fmt.Errorf("gemini API error: %s - %s", resp.Status, string(b))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return Draft{}, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return Draft{}, fmt.Errorf("empty gemini response")
	}

	return extractDraft(gr.Candidates[0].Content.Parts[0].Text)
}
