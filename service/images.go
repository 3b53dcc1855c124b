package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"gorm.io/datatypes"
)

// storeImages uploads base64 image payloads to object storage and returns the
// resulting keys. Without an S3 client, or on any upload error, the original
// reference is kept so a submission never fails on storage.
func (s *ReviewService) storeImages(ctx context.Context, documentID string, images []string) datatypes.JSONSlice[string] {
	refs := make(datatypes.JSONSlice[string], 0, len(images))
	for i, image := range images {
		if s.s3Client == nil {
			refs = append(refs, image)
			continue
		}

		payload, err := decodeImagePayload(image)
		if err != nil {
			log.Printf("[storeImages] Skipping upload for image %d of document %s: %v", i, documentID, err)
			refs = append(refs, image)
			continue
		}

		key := fmt.Sprintf("documents/%s/%d", documentID, i)
		_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(payload),
		})
		if err != nil {
			log.Printf("[storeImages] Upload failed for image %d of document %s: %v", i, documentID, err)
			refs = append(refs, image)
			continue
		}
		refs = append(refs, key)
	}
	return refs
}

// loadImagePayloads resolves stored references back into base64 payloads for
// the AI extractor. Inline payloads pass through untouched; fetch failures keep
// the reference so the extractor sees the same number of images.
func (s *ReviewService) loadImagePayloads(ctx context.Context, refs []string) []string {
	payloads := make([]string, 0, len(refs))
	for _, ref := range refs {
		if s.s3Client == nil || strings.HasPrefix(ref, "data:") || strings.Contains(ref, ",") {
			payloads = append(payloads, ref)
			continue
		}

		out, err := s.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(ref),
		})
		if err != nil {
			log.Printf("[loadImagePayloads] Fetch failed for %s: %v", ref, err)
			payloads = append(payloads, ref)
			continue
		}
		raw, err := io.ReadAll(out.Body)
		out.Body.Close()
		if err != nil {
			log.Printf("[loadImagePayloads] Read failed for %s: %v", ref, err)
			payloads = append(payloads, ref)
			continue
		}
		payloads = append(payloads, base64.StdEncoding.EncodeToString(raw))
	}
	return payloads
}

// decodeImagePayload strips an optional data-URL prefix and decodes base64.
func decodeImagePayload(image string) ([]byte, error) {
	encoded := image
	if idx := strings.Index(image, ","); idx >= 0 {
		encoded = image[idx+1:]
	}
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image payload: %w", err)
	}
	return payload, nil
}
