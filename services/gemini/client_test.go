package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusflow/api/registry"
)

var testAnswers = ThemeAnswers{
	Mood:        "energetic",
	Brightness:  "dark",
	ColorFamily: "neon",
	FontStyle:   "modern",
	Intensity:   "bold",
}

func validThemeJSON(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(registry.DefaultThemes()["hackathon"])
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func newTestServer(t *testing.T, modelOutput string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("got method %s, want POST", r.Method)
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": modelOutput}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerateThemeParsesValidOutput(t *testing.T) {
	server := newTestServer(t, validThemeJSON(t))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	theme, err := client.GenerateTheme(context.Background(), testAnswers)
	if err != nil {
		t.Fatalf("GenerateTheme failed: %v", err)
	}
	if theme.Colors.Primary == "" {
		t.Error("parsed theme has no primary color")
	}
}

func TestGenerateThemeStripsMarkdownFences(t *testing.T) {
	server := newTestServer(t, "```json\n"+validThemeJSON(t)+"\n```")
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.GenerateTheme(context.Background(), testAnswers); err != nil {
		t.Fatalf("fenced output should still parse: %v", err)
	}
}

func TestGenerateThemeRejectsIncompleteTheme(t *testing.T) {
	server := newTestServer(t, `{"name": "half a theme"}`)
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.GenerateTheme(context.Background(), testAnswers)
	if err == nil {
		t.Fatal("expected an error for an incomplete theme")
	}
}

func TestGenerateThemeWithoutKey(t *testing.T) {
	client := NewClient(Config{})
	if client.Configured() {
		t.Error("client without a key reports configured")
	}
	if _, err := client.GenerateTheme(context.Background(), testAnswers); err != ErrNotConfigured {
		t.Errorf("got %v, want ErrNotConfigured", err)
	}
}

func TestGenerateThemeSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 429, "message": "quota exceeded"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.GenerateTheme(context.Background(), testAnswers); err == nil {
		t.Fatal("expected an error for a 429 response")
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tt := range tests {
		if got := StripCodeFences(tt.in); got != tt.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
