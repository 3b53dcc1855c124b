package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	model "github.com/darksagae/pulse/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiTestExtractor(srv *httptest.Server) *GeminiExtractor {
	return &GeminiExtractor{
		apiKey:  "test-key",
		baseURL: srv.URL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func geminiResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\\':
			out += `\\`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func TestGeminiExtractor_ParsesFencedJSON(t *testing.T) {
	answer := "```json\n{\"document_type\":\"passport\",\"extracted_fields\":{\"full_name\":\"Jane Doe\"},\"confidence\":0.82,\"quality_score\":0.9,\"fraud_risk\":0.2,\"recommendations\":[\"ok\"],\"issues\":[]}\n```"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.RawQuery, "key=test-key")
		w.Write([]byte(geminiResponse(answer)))
	}))
	defer srv.Close()

	g := newGeminiTestExtractor(srv)
	result, err := g.Extract(context.Background(), []string{"data:image/png;base64,aGVsbG8="}, model.TypePassport)
	require.NoError(t, err)

	assert.Equal(t, model.TypePassport, result.DocumentType)
	assert.Equal(t, "Jane Doe", result.ExtractedFields["full_name"])
	assert.Equal(t, 0.82, result.Confidence)
	assert.Equal(t, 0.2, result.FraudRisk)
}

func TestGeminiExtractor_RetriesOnRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(geminiResponse(`{"document_type":"national_id","extracted_fields":{},"confidence":0.8,"quality_score":0.8,"fraud_risk":0.1}`)))
	}))
	defer srv.Close()

	g := newGeminiTestExtractor(srv)
	result, err := g.Extract(context.Background(), []string{"aGVsbG8="}, model.TypeNationalID)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NotNil(t, result.ExtractedFields)
}

func TestGeminiExtractor_Non200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	g := newGeminiTestExtractor(srv)
	_, err := g.Extract(context.Background(), []string{"aGVsbG8="}, model.TypeNationalID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSplitDataURL(t *testing.T) {
	mime, data := splitDataURL("data:image/png;base64,AAAA")
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, "AAAA", data)

	mime, data = splitDataURL("AAAA")
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, "AAAA", data)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
