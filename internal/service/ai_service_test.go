package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafcikJ/10x-memo/internal/models"
)

func TestParseWordLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			"plain lines",
			"Cat\nDog\nBird",
			[]string{"Cat", "Dog", "Bird"},
		},
		{
			"numbered and bulleted",
			"1. Cat\n2) Dog\n- Bird\n* Fish",
			[]string{"Cat", "Dog", "Bird", "Fish"},
		},
		{
			"blank lines and whitespace",
			"\n  Cat  \n\n\tDog\n",
			[]string{"Cat", "Dog"},
		},
		{
			"case-insensitive dedupe keeps first",
			"Cat\ncat\nCAT\nDog",
			[]string{"Cat", "Dog"},
		},
		{
			"empty content",
			"",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseWordLines(tt.content))
		})
	}
}

func TestGenerateValidation(t *testing.T) {
	svc := NewAIService("key", "test-model", time.Second, 10, 50)

	_, err := svc.Generate(context.Background(), "verbs", 10)
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "category", vErr.Field)

	_, err = svc.Generate(context.Background(), models.CategoryAnimals, 5)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "count", vErr.Field)

	_, err = svc.Generate(context.Background(), models.CategoryAnimals, 51)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "count", vErr.Field)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	svc := NewAIService("", "test-model", time.Second, 10, 50)

	_, err := svc.Generate(context.Background(), models.CategoryAnimals, 10)
	assert.ErrorIs(t, err, ErrAINotConfigured)
}

func chatCompletion(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
}

func TestGenerateParsesProviderResponse(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "10")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("1. Cat\n2. Dog\n3. Bird\n4. Fish\n5. Lion\n6. Wolf\n7. Bear\n8. Fox\n9. Deer\n10. Hare\n11. Extra"))
	}))
	defer server.Close()

	svc := NewAIService("test-key", "test-model", time.Second, 10, 50)
	svc.client.SetBaseURL(server.URL)

	items, err := svc.Generate(context.Background(), models.CategoryAnimals, 10)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	require.Len(t, items, 10, "surplus words are trimmed to the requested count")
	assert.Equal(t, GeneratedItem{Position: 1, Display: "Cat"}, items[0])
	assert.Equal(t, GeneratedItem{Position: 10, Display: "Hare"}, items[9])
}

func TestGenerateRetriesShortResponseOnce(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			json.NewEncoder(w).Encode(chatCompletion("Cat\nDog"))
			return
		}
		json.NewEncoder(w).Encode(chatCompletion("Cat\nDog\nBird\nFish\nLion\nWolf\nBear\nFox\nDeer\nHare"))
	}))
	defer server.Close()

	svc := NewAIService("test-key", "test-model", time.Second, 10, 50)
	svc.client.SetBaseURL(server.URL)

	items, err := svc.Generate(context.Background(), models.CategoryAnimals, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, items, 10)
}

func TestGenerateGivesUpAfterRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewAIService("test-key", "test-model", time.Second, 10, 50)
	svc.client.SetBaseURL(server.URL)

	_, err := svc.Generate(context.Background(), models.CategoryAnimals, 10)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "failed to generate word list")
}

func TestGenerateSurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "model overloaded"},
		})
	}))
	defer server.Close()

	svc := NewAIService("test-key", "test-model", time.Second, 10, 50)
	svc.client.SetBaseURL(server.URL)

	_, err := svc.Generate(context.Background(), models.CategoryAnimals, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}
