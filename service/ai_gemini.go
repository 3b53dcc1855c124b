package services

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

	model "github.com/darksagae/pulse/models"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel   = "gemini-2.5-flash"
)

// GeminiExtractor calls the Google Gemini API for document analysis.
type GeminiExtractor struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGeminiExtractor builds an extractor against the public Gemini endpoint.
func NewGeminiExtractor(apiKey string) *GeminiExtractor {
	return &GeminiExtractor{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GeminiExtractor) Name() string { return geminiModel }

// geminiPayload mirrors the generateContent request body.
type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Extract sends the images and a structured prompt to Gemini and parses the
// JSON answer into an ExtractionResult.
func (g *GeminiExtractor) Extract(ctx context.Context, images []string, documentType string) (*model.ExtractionResult, error) {
	prompt := fmt.Sprintf(`
Analyze this document image and extract its information.

Document Type: %s

Please extract the full name, document number, date of birth, place of birth,
gender, address, issue date, expiry date and any other relevant fields. Also
assess confidence (0-1), quality (0-1) and fraud risk (0-1), and list any
issues or recommendations.

Return JSON with this structure:
{
    "document_type": "detected type",
    "extracted_fields": {"full_name": "...", "document_number": "..."},
    "confidence": 0.85,
    "quality_score": 0.90,
    "fraud_risk": 0.15,
    "recommendations": ["..."],
    "issues": ["..."]
}
`, documentType)

	parts := []geminiPart{{Text: prompt}}
	for _, img := range images {
		mimeType, data := splitDataURL(img)
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{MimeType: mimeType, Data: data}})
	}

	reqBody, err := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.1,
			"topK":            32,
			"topP":            1,
			"maxOutputTokens": 2048,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, geminiModel, g.apiKey)

	// Retry transient failures and rate limiting with backoff.
	const maxRetries = 3
	var resp *http.Response
	for attempt := 0; attempt < maxRetries; attempt++ {
		req, reqErr := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
		if reqErr != nil {
			return nil, fmt.Errorf("failed to create Gemini request: %w", reqErr)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = g.client.Do(req)
		if err == nil && resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		if err != nil {
			log.Printf("Gemini request attempt %d failed: %v", attempt+1, err)
		} else {
			log.Printf("Gemini rate limit hit (attempt %d), status: %s", attempt+1, resp.Status)
			resp.Body.Close()
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("gemini request canceled: %w", ctx.Err())
		}
		if attempt < maxRetries-1 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("gemini request failed after %d attempts: %w", maxRetries, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned non-200 status %d: %s", resp.StatusCode, string(body))
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
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response structure: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no candidates in Gemini response")
	}

	content := stripCodeFences(result.Candidates[0].Content.Parts[0].Text)

	var extraction model.ExtractionResult
	if err := json.Unmarshal([]byte(content), &extraction); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON from Gemini content: %w", err)
	}
	if extraction.ExtractedFields == nil {
		extraction.ExtractedFields = map[string]string{}
	}
	return &extraction, nil
}

// splitDataURL separates a data URL into mime type and raw base64 payload.
// Plain base64 strings pass through with a jpeg default.
func splitDataURL(img string) (string, string) {
	if !strings.HasPrefix(img, "data:") {
		return "image/jpeg", img
	}
	mimeType := "image/jpeg"
	rest := strings.TrimPrefix(img, "data:")
	if idx := strings.Index(rest, ";"); idx > 0 {
		mimeType = rest[:idx]
	}
	if idx := strings.Index(img, ","); idx >= 0 {
		return mimeType, img[idx+1:]
	}
	return mimeType, img
}

// stripCodeFences removes markdown ```json fences Gemini tends to wrap answers in.
func stripCodeFences(content string) string {
	if strings.Contains(content, "```json") {
		parts := strings.SplitN(content, "```json", 2)
		content = strings.SplitN(parts[1], "```", 2)[0]
	} else if strings.Contains(content, "```") {
		parts := strings.SplitN(content, "```", 3)
		if len(parts) > 1 {
			content = parts[1]
		}
	}
	return strings.TrimSpace(content)
}
