package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campusflow/api/registry"
)

const (
	// BaseURL is the Google Generative Language API base URL
	BaseURL = "https://generativelanguage.googleapis.com"
	// DefaultModel is the model used for theme generation
	DefaultModel = "gemini-2.5-flash"
	// DefaultTimeout bounds a single generation request
	DefaultTimeout = 30 * time.Second
)

// Client errors
var (
	ErrNotConfigured   = errors.New("gemini api key not configured")
	ErrMalformedOutput = errors.New("model returned a malformed theme")
)

// Client calls the Gemini generateContent endpoint to produce event themes
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Config holds configuration for the Gemini client
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewClient creates a Gemini client. A client with an empty API key is
// valid but every call returns ErrNotConfigured.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ThemeAnswers are the five questionnaire answers driving generation
type ThemeAnswers struct {
	Mood        string `json:"mood" validate:"required"`
	Brightness  string `json:"brightness" validate:"required"`
	ColorFamily string `json:"color_family" validate:"required"`
	FontStyle   string `json:"font_style" validate:"required"`
	Intensity   string `json:"intensity" validate:"required"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateTheme asks the model for a complete theme matching the answers.
// The output is validated against the theme contract before being returned,
// so callers always receive a usable snapshot.
func (c *Client) GenerateTheme(ctx context.Context, answers ThemeAnswers) (*registry.Theme, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(answers)}}}},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("gemini response decode failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return nil, fmt.Errorf("gemini api error %d: %s", parsed.Error.Code, parsed.Error.Message)
		}
		return nil, fmt.Errorf("gemini api returned status %d", resp.StatusCode)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, ErrMalformedOutput
	}

	text := StripCodeFences(parsed.Candidates[0].Content.Parts[0].Text)
	theme, err := registry.ParseTheme([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return &theme, nil
}

// StripCodeFences removes a surrounding markdown code fence, if present
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func buildPrompt(a ThemeAnswers) string {
	var b strings.Builder
	b.WriteString("You are a design assistant for a campus event platform. ")
	b.WriteString("Generate a visual theme as a single JSON object with exactly this shape:\n")
	b.WriteString(`{"name": string, "colors": {"primary", "secondary", "accent", "background", "surface", "text", "textSecondary", "border", "success", "error": hex strings}, "fonts": {"heading", "body": font family names}, "layout": "classic"|"modern"|"minimal", "border_radius": string}`)
	b.WriteString("\n\nDesign preferences:\n")
	fmt.Fprintf(&b, "- Mood: %s\n", a.Mood)
	fmt.Fprintf(&b, "- Brightness: %s\n", a.Brightness)
	fmt.Fprintf(&b, "- Color family: %s\n", a.ColorFamily)
	fmt.Fprintf(&b, "- Font style: %s\n", a.FontStyle)
	fmt.Fprintf(&b, "- Intensity: %s\n", a.Intensity)
	b.WriteString("\nEvery color must be a 6-digit hex value with a leading #. ")
	b.WriteString("Ensure sufficient contrast between text and background. ")
	b.WriteString("Respond with ONLY the JSON object, no markdown, no commentary.")
	return b.String()
}
