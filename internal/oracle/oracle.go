// Package oracle calls the external AI classifier services and degrades
// to clearly-flagged simulated estimates when they are unreachable.
package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single classifier call.
const DefaultTimeout = 30 * time.Second

// OriginalityThreshold is the match percentage below which media counts
// as original. This is a display-facing business rule owned by the
// originality client, shared by convention with the trust engine's
// duplication tiers.
const OriginalityThreshold = 20.0

// postMedia uploads media bytes as a multipart form to the classifier and
// returns the response body. Any transport or HTTP-level failure returns
// an error; callers translate that into a simulated estimate.
func postMedia(ctx context.Context, client *http.Client, url, apiKey string, media []byte) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("media", "capture")
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(media); err != nil {
		return nil, fmt.Errorf("writing media bytes: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading classifier response: %w", err)
	}
	return body, nil
}

// smallScore returns a small random score biased toward "genuine",
// uniformly drawn from [0, max). Used for simulated estimates only; real
// scoring never uses local randomness.
func smallScore(max float64) float64 {
	return rand.Float64() * max
}
