package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	model "github.com/darksagae/pulse/models"
)

// indexDocument mirrors a document into Elasticsearch. Indexing is best-effort:
// a missing client or a failed request is logged and swallowed so the review
// pipeline never stalls on the search mirror.
func (s *ReviewService) indexDocument(doc *model.Document) {
	if s.esClient == nil {
		return
	}

	// The memory store bypasses the GORM hook that fills SearchContent.
	searchContent := doc.SearchContent
	if searchContent == "" {
		searchContent = doc.DocumentType + " " + doc.Description
	}

	entry := map[string]interface{}{
		"citizen_id":     doc.CitizenID,
		"document_type":  doc.DocumentType,
		"department_id":  doc.DepartmentID,
		"status":         doc.Status,
		"description":    doc.Description,
		"search_content": searchContent,
		"timestamp":      time.Now().UTC(),
	}

	body, err := json.Marshal(entry)
	if err != nil {
		log.Printf("[indexDocument] Error marshaling document %s: %v", doc.ID, err)
		return
	}

	res, err := s.esClient.Index(
		"documents",
		bytes.NewReader(body),
		s.esClient.Index.WithDocumentID(doc.ID),
		s.esClient.Index.WithContext(context.Background()),
	)
	if err != nil {
		log.Printf("[indexDocument] Elasticsearch indexing error for %s: %v", doc.ID, err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("[indexDocument] Elasticsearch indexing failed for %s: %s", doc.ID, res.String())
		return
	}
	log.Printf("Document %s indexed successfully", doc.ID)
}

// SearchDocuments runs a full-text query against the Elasticsearch mirror.
func (s *ReviewService) SearchDocuments(query string) ([]map[string]interface{}, error) {
	if s.esClient == nil {
		return nil, fmt.Errorf("elasticsearch client is not initialized")
	}

	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"description", "document_type", "search_content"},
			},
		},
	}
	body, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(context.Background()),
		s.esClient.Search.WithIndex("documents"),
		s.esClient.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search failed: %s", res.String())
	}

	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hitsMap, ok := result["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid hits structure in search response")
	}
	hitsArray, ok := hitsMap["hits"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid hits array in search response")
	}

	var documents []map[string]interface{}
	for _, hit := range hitsArray {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}
		documents = append(documents, source)
	}

	return documents, nil
}
