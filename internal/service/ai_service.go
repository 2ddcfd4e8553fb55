package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"

	"github.com/RafcikJ/10x-memo/internal/models"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// ErrAINotConfigured means no provider API key is set
var ErrAINotConfigured = errors.New("AI generation is not configured")

// categoryPrompts maps each noun category to its generation prompt;
// {count} is substituted with the requested item count.
var categoryPrompts = map[string]string{
	models.CategoryAnimals:        "Generate a list of {count} common animal names in English. Include both domestic and wild animals. Return only the animal names, one per line, without numbers or additional text.",
	models.CategoryFood:           "Generate a list of {count} common food items in English. Include fruits, vegetables, and prepared dishes. Return only the food names, one per line, without numbers or additional text.",
	models.CategoryHouseholdItems: "Generate a list of {count} common household items in English. Include furniture, appliances, and everyday objects. Return only the item names, one per line, without numbers or additional text.",
	models.CategoryTransport:      "Generate a list of {count} common modes of transportation in English. Include vehicles and public transport. Return only the transport names, one per line, without numbers or additional text.",
	models.CategoryJobs:           "Generate a list of {count} common job titles in English. Include various professions and occupations. Return only the job titles, one per line, without numbers or additional text.",
}

// profanityList holds words filtered from generated output before it
// reaches the user. Kept short on purpose; the prompt already steers the
// model towards clean vocabulary.
var profanityList = map[string]bool{}

// GeneratedItem is one candidate word produced by the AI provider
type GeneratedItem struct {
	Position int    `json:"position"`
	Display  string `json:"display"`
}

// AIService generates word lists through the OpenRouter chat-completions API
type AIService struct {
	client   *resty.Client
	apiKey   string
	model    string
	countMin int
	countMax int
}

// NewAIService creates an AI generation service
func NewAIService(apiKey, model string, timeout time.Duration, countMin, countMax int) *AIService {
	client := resty.New().
		SetBaseURL(openRouterURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &AIService{
		client:   client,
		apiKey:   apiKey,
		model:    model,
		countMin: countMin,
		countMax: countMax,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate asks the provider for `count` words of the given category.
// Short or filtered responses are retried once before giving up. The
// caller consumes quota before invoking this, so a failed generation
// still costs a slot.
func (s *AIService) Generate(ctx context.Context, category string, count int) ([]GeneratedItem, error) {
	if s.apiKey == "" {
		return nil, ErrAINotConfigured
	}
	if !models.IsValidCategory(category) {
		return nil, ValidationError{Field: "category", Message: "unknown category"}
	}
	if count < s.countMin || count > s.countMax {
		return nil, ValidationError{Field: "count", Message: fmt.Sprintf("count must be between %d and %d", s.countMin, s.countMax)}
	}

	prompt := strings.ReplaceAll(categoryPrompts[category], "{count}", fmt.Sprintf("%d", count))

	var items []GeneratedItem
	err := retry.Do(
		func() error {
			words, err := s.requestWords(ctx, prompt)
			if err != nil {
				return err
			}

			words = filterProfanity(words)
			if len(words) < count {
				return fmt.Errorf("incomplete generation: got %d of %d words", len(words), count)
			}

			items = toGeneratedItems(words[:count])
			return nil
		},
		retry.Attempts(2),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate word list: %w", err)
	}

	return items, nil
}

// requestWords performs one chat-completion round trip and splits the
// response into candidate words.
func (s *AIService) requestWords(ctx context.Context, prompt string) ([]string, error) {
	var parsed chatResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetBody(chatRequest{
			Model:       s.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: 0.7,
		}).
		SetResult(&parsed).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("AI provider request failed: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("AI provider returned status %d", resp.StatusCode())
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("AI provider error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("AI provider returned no choices")
	}

	return parseWordLines(parsed.Choices[0].Message.Content), nil
}

// parseWordLines splits model output into trimmed, de-duplicated words.
// Stray numbering and bullet prefixes are stripped so a slightly sloppy
// model response still parses.
func parseWordLines(content string) []string {
	var words []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(content, "\n") {
		word := strings.TrimSpace(line)
		word = strings.TrimLeft(word, "-*0123456789.) ")
		word = strings.TrimSpace(word)

		if word == "" || len([]rune(word)) > maxDisplayLength {
			continue
		}

		key := strings.ToLower(word)
		if seen[key] {
			continue
		}
		seen[key] = true
		words = append(words, word)
	}

	return words
}

func filterProfanity(words []string) []string {
	clean := words[:0]
	for _, word := range words {
		if !profanityList[strings.ToLower(word)] {
			clean = append(clean, word)
		}
	}
	return clean
}

func toGeneratedItems(words []string) []GeneratedItem {
	items := make([]GeneratedItem, len(words))
	for i, word := range words {
		items[i] = GeneratedItem{Position: i + 1, Display: word}
	}
	return items
}
