package mapping

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"shitsetl/internal/logger"
)

// Suggestion is an AI-suggested mapping of a source header to an order
// field, with the model's confidence.
type Suggestion struct {
	SourceColumn string
	Field        string
	Confidence   float64
}

// Suggester asks Gemini to map source headers onto the canonical order
// fields before the interactive mapper opens.
type Suggester struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewSuggester creates a Gemini-backed mapping suggester.
func NewSuggester(ctx context.Context, apiKey, modelName string) (*Suggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		logger.Error("Failed to create Gemini client", "error", err)
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	model := client.GenerativeModel(modelName)
	// Low temperature for consistent results
	model.SetTemperature(0.1)

	logger.Info("Mapping suggester initialized", "model", modelName)

	return &Suggester{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the suggester resources.
func (s *Suggester) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Suggest returns field suggestions for the given source headers.
// Only suggestions at confidence 0.7 or above are returned.
func (s *Suggester) Suggest(ctx context.Context, headers []string) ([]Suggestion, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("no source headers to map")
	}

	prompt := buildSuggestionPrompt(headers)
	logger.Info("Requesting mapping suggestions",
		"header_count", len(headers), "prompt_length", len(prompt))

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logger.Error("Gemini request failed", "error", err, "duration", time.Since(start))
		return nil, fmt.Errorf("failed to generate AI response: %v", err)
	}
	logger.Info("Received Gemini response", "duration", time.Since(start))

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	suggestions := parseSuggestions(text)
	logger.Info("Parsed mapping suggestions", "count", len(suggestions))
	return suggestions, nil
}

// ToConfig converts suggestions into a mapping config seed.
func ToConfig(suggestions []Suggestion) *Config {
	config := &Config{}
	for _, sug := range suggestions {
		config.Mappings = append(config.Mappings, ColumnMapping{
			SourceColumn: sug.SourceColumn,
			Field:        sug.Field,
		})
	}
	return config
}

func buildSuggestionPrompt(headers []string) string {
	var b strings.Builder

	b.WriteString(`You are helping to map column headers from a Chinese school textbook
order spreadsheet onto a standardized set of fields.

TASK: Map each source header to the most appropriate field, or "NO_MATCH" if uncertain.

SOURCE HEADERS:
`)
	for _, h := range headers {
		fmt.Fprintf(&b, "- %s\n", h)
	}

	b.WriteString(`
FIELDS:
`)
	for _, f := range Fields() {
		fmt.Fprintf(&b, "- %s\n", f)
	}

	b.WriteString(`
INSTRUCTIONS:
1. Only suggest mappings you are confident about
2. Consider semantic meaning, not just text similarity
3. Map each source header to AT MOST ONE field
4. If uncertain or no clear match exists, use "NO_MATCH"

OUTPUT FORMAT (one line per source header):
SourceHeader|Field|Confidence

EXAMPLES:
产品名称|书名|0.95
定价|单价|0.90
备注|NO_MATCH|0.00

Now provide mappings for the source headers:`)

	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response generated from AI")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			text += string(textPart)
		}
	}
	return text, nil
}

func parseSuggestions(response string) []Suggestion {
	fields := make(map[string]bool)
	for _, f := range Fields() {
		fields[f] = true
	}

	var suggestions []Suggestion
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "SourceHeader|") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			logger.Debug("Skipping malformed suggestion line", "content", line)
			continue
		}

		header := strings.TrimSpace(parts[0])
		field := strings.TrimSpace(parts[1])

		var confidence float64
		if _, err := fmt.Sscanf(strings.TrimSpace(parts[2]), "%f", &confidence); err != nil {
			confidence = 0.0
		}

		if field == "NO_MATCH" || confidence < 0.7 {
			continue
		}
		if !fields[field] {
			logger.Debug("Skipping suggestion with unknown field", "field", field)
			continue
		}

		suggestions = append(suggestions, Suggestion{
			SourceColumn: header,
			Field:        field,
			Confidence:   confidence,
		})
	}

	return suggestions
}

// GetGeminiAPIKey gets the API key from the environment.
func GetGeminiAPIKey() string {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY environment variable not set")
	}
	return apiKey
}
