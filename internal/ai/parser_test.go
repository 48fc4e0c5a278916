package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtractResult(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		result, err := parseExtractResult(`{
			"items": [{"name": "Fries", "price": 5.5, "quantity": 2}],
			"subtotal": 11, "vat": 1.54, "serviceCharge": 1.1, "delivery": 0
		}`)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Fries", result.Items[0].Name)
		assert.Equal(t, 5.5, result.Items[0].Price)
		assert.Equal(t, 2, result.Items[0].Quantity)
		assert.Equal(t, 1.54, result.VAT)
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		result, err := parseExtractResult("```json\n{\"items\": [{\"name\": \"Cola\", \"price\": 3}]}\n```")
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Cola", result.Items[0].Name)
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		result, err := parseExtractResult(`{"items": [{"name": "Soup", "price": 4}]}`)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Items[0].Quantity)
	})

	t.Run("nameless items dropped", func(t *testing.T) {
		result, err := parseExtractResult(`{"items": [
			{"name": "  ", "price": 4},
			{"name": "Kept", "price": 2}
		]}`)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Kept", result.Items[0].Name)
	})

	t.Run("missing charges default to zero", func(t *testing.T) {
		result, err := parseExtractResult(`{"items": []}`)
		require.NoError(t, err)
		assert.Zero(t, result.Subtotal)
		assert.Zero(t, result.VAT)
		assert.Zero(t, result.ServiceCharge)
		assert.Zero(t, result.Delivery)
	})

	t.Run("prose instead of JSON", func(t *testing.T) {
		_, err := parseExtractResult("I could not find a bill in this image.")
		require.Error(t, err)
	})
}

func TestParseSuggestions(t *testing.T) {
	t.Run("drops empty keys and values", func(t *testing.T) {
		mapping, err := parseSuggestions(`{"Fries": "Alice", "": "Bob", "Cola": "  "}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Fries": "Alice"}, mapping)
	})

	t.Run("fenced response", func(t *testing.T) {
		mapping, err := parseSuggestions("```\n{\"Cake\": \"Bob\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Cake": "Bob"}, mapping)
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := parseSuggestions(`["Fries", "Alice"]`)
		require.Error(t, err)
	})
}

func TestSplitDataURI(t *testing.T) {
	mime, data, err := splitDataURI("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, "aGVsbG8=", data)

	_, _, err = splitDataURI("https://example.com/bill.jpg")
	require.Error(t, err)

	_, _, err = splitDataURI("data:image/jpeg,rawdata")
	require.Error(t, err, "non-base64 data URIs rejected")
}

func TestGeminiClientExtractItems(t *testing.T) {
	answer := `{"items": [{"name": "Pizza", "price": 12, "quantity": 1}], "vat": 1.2}`
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var payload struct {
			Contents []struct {
				Parts []json.RawMessage `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Contents, 1)
		assert.Len(t, payload.Contents[0].Parts, 2, "prompt text plus inline image")

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": answer}}}},
			},
		})
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", "test-model", WithBaseURL(srv.URL))
	result, err := client.ExtractItems(context.Background(), "data:image/png;base64,aW1n")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Pizza", result.Items[0].Name)
	assert.Equal(t, 1.2, result.VAT)
	assert.Equal(t, "/models/test-model:generateContent", gotPath)
}

func TestGeminiClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", "test-model", WithBaseURL(srv.URL))
	_, err := client.SuggestAssignments(context.Background(), []string{"Fries"}, []string{"Alice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiClientRequiresInput(t *testing.T) {
	client := NewGeminiClient("key", "model")
	_, err := client.SuggestAssignments(context.Background(), nil, []string{"Alice"})
	require.Error(t, err)
	_, err = client.SuggestAssignments(context.Background(), []string{"Fries"}, nil)
	require.Error(t, err)
}
