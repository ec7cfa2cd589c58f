package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"poc-go/internal/config"
	"poc-go/internal/poc"
)

// OriginalityHTTPClient implements poc.OriginalityClient against the
// similarity-search classifier service.
type OriginalityHTTPClient struct {
	url    string
	apiKey string
	client *http.Client
	logger poc.Logger
}

var _ poc.OriginalityClient = (*OriginalityHTTPClient)(nil)

// NewOriginalityClient creates a client for the given classifier URL.
// An empty URL means every call returns a simulated estimate.
func NewOriginalityClient(url, apiKey string, timeout time.Duration, logger poc.Logger) *OriginalityHTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OriginalityHTTPClient{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// NewOriginalityClientFromConfig creates an originality client from configuration.
func NewOriginalityClientFromConfig(cfg config.OracleConfig, logger poc.Logger) *OriginalityHTTPClient {
	return NewOriginalityClient(cfg.OriginalityURL, cfg.APIKey, time.Duration(cfg.TimeoutSeconds)*time.Second, logger)
}

// originalityResponse mirrors the classifier's nested JSON payload.
type originalityResponse struct {
	Result struct {
		MatchPercentage float64  `json:"matchPercentage"`
		Sources         []string `json:"sources"`
	} `json:"result"`
}

// CheckOriginality sends the media to the similarity-search classifier.
// Same timeout and degrade-to-simulated discipline as the authenticity
// client.
func (c *OriginalityHTTPClient) CheckOriginality(ctx context.Context, media []byte) (*poc.OriginalityResult, error) {
	if c.url == "" || len(media) == 0 {
		return c.simulated(), nil
	}

	body, err := postMedia(ctx, c.client, c.url, c.apiKey, media)
	if err != nil {
		c.logger.Warn("originality classifier unavailable", "error", err)
		return c.simulated(), nil
	}

	var parsed originalityResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("originality response unreadable", "error", err)
		return c.simulated(), nil
	}

	match := parsed.Result.MatchPercentage
	if match < 0 {
		match = 0
	}
	if match > 100 {
		match = 100
	}

	return &poc.OriginalityResult{
		MatchPercentage: match,
		IsOriginal:      match < OriginalityThreshold,
		Sources:         parsed.Result.Sources,
	}, nil
}

func (c *OriginalityHTTPClient) simulated() *poc.OriginalityResult {
	match := smallScore(10)
	return &poc.OriginalityResult{
		MatchPercentage: match,
		IsOriginal:      match < OriginalityThreshold,
		Simulated:       true,
	}
}
