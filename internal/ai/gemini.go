package ai

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
)

// GeminiClient calls the Gemini generateContent API directly over HTTP.
// It implements both Extractor and Suggester.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var (
	_ Extractor = (*GeminiClient)(nil)
	_ Suggester = (*GeminiClient)(nil)
)

// GeminiOption configures a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) GeminiOption {
	return func(g *GeminiClient) { g.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(g *GeminiClient) { g.httpClient = client }
}

// NewGeminiClient creates a client for the given API key and model.
func NewGeminiClient(apiKey, model string, opts ...GeminiOption) *GeminiClient {
	g := &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// ExtractItems sends the bill photo with the extraction prompt and parses
// the model's JSON answer.
func (g *GeminiClient) ExtractItems(ctx context.Context, imageDataURI string) (ExtractResult, error) {
	mimeType, data, err := splitDataURI(imageDataURI)
	if err != nil {
		return ExtractResult{}, err
	}

	text, err := g.generate(ctx, []geminiPart{
		{Text: extractPrompt},
		{InlineData: &geminiInlineData{MimeType: mimeType, Data: data}},
	})
	if err != nil {
		return ExtractResult{}, err
	}
	return parseExtractResult(text)
}

// SuggestAssignments asks the model to map item names to people names.
func (g *GeminiClient) SuggestAssignments(ctx context.Context, itemNames, peopleNames []string) (map[string]string, error) {
	if len(itemNames) == 0 {
		return nil, errors.New("no items to suggest assignments for")
	}
	if len(peopleNames) == 0 {
		return nil, errors.New("no people to assign items to")
	}

	text, err := g.generate(ctx, []geminiPart{
		{Text: buildSuggestPrompt(itemNames, peopleNames)},
	})
	if err != nil {
		return nil, err
	}
	return parseSuggestions(text)
}

// generate performs one generateContent call and returns the first
// candidate's text.
func (g *GeminiClient) generate(ctx context.Context, parts []geminiPart) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("missing Gemini API key")
	}
	if g.model == "" {
		return "", errors.New("missing Gemini model")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 2048,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api error: status %d", resp.StatusCode)
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty gemini response")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

// splitDataURI breaks a "data:<mime>;base64,<data>" URI into its mime type
// and base64 payload.
func splitDataURI(uri string) (mimeType, data string, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", "", errors.New("image must be a data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")
	meta, data, found := strings.Cut(rest, ",")
	if !found {
		return "", "", errors.New("malformed data URI")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	if mimeType == "" || !strings.HasSuffix(meta, ";base64") {
		return "", "", errors.New("image data URI must be base64 encoded with a MIME type")
	}
	return mimeType, data, nil
}
