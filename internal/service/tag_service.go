package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"skillshare/internal/cache"
	"skillshare/internal/config"
)

// TagService suggests tags for a session via the Gemini API. Suggestion is
// best-effort: any transport or parse failure yields an empty list and
// never an error, so the form flow is never blocked.
type TagService struct {
	config      *config.AIConfig
	client      *http.Client
	suggestions cache.SuggestionCache
}

// NewTagService creates a new tag suggestion service
func NewTagService(cfg *config.AIConfig, suggestions cache.SuggestionCache) *TagService {
	return &TagService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		suggestions: suggestions,
	}
}

// Suggest returns short tags for the given title and description, or an
// empty list when the API is unconfigured, unreachable or returns garbage.
func (s *TagService) Suggest(ctx context.Context, title, description string) []string {
	if s.suggestions != nil {
		if tags, err := s.suggestions.Get(ctx, title, description); err == nil && tags != nil {
			return tags
		}
	}

	if !s.config.IsEnabled() {
		return []string{}
	}

	prompt := fmt.Sprintf("Suggest 5 relevant, short, comma-separated tags for a skill-sharing session with the following details:\nTitle: %s\nDescription: %s\nTags:", title, description)

	text, err := s.callGemini(ctx, prompt)
	if err != nil {
		log.Printf("Gemini tag suggestion error: %v", err)
		return []string{}
	}

	tags := SplitTags(strings.ReplaceAll(text, "\n", ""))

	if s.suggestions != nil && len(tags) > 0 {
		if err := s.suggestions.Set(ctx, title, description, tags); err != nil {
			log.Printf("failed to cache tag suggestions: %v", err)
		}
	}
	return tags
}

// callGemini makes a request to the Gemini API
func (s *TagService) callGemini(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}
