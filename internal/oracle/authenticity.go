package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"poc-go/internal/config"
	"poc-go/internal/poc"
)

// AuthenticityHTTPClient implements poc.AuthenticityClient against the
// synthetic-media classifier service.
type AuthenticityHTTPClient struct {
	url    string
	apiKey string
	client *http.Client
	logger poc.Logger
}

var _ poc.AuthenticityClient = (*AuthenticityHTTPClient)(nil)

// NewAuthenticityClient creates a client for the given classifier URL.
// An empty URL means no credentials are configured: every call returns a
// simulated estimate.
func NewAuthenticityClient(url, apiKey string, timeout time.Duration, logger poc.Logger) *AuthenticityHTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AuthenticityHTTPClient{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// NewAuthenticityClientFromConfig creates an authenticity client from configuration.
func NewAuthenticityClientFromConfig(cfg config.OracleConfig, logger poc.Logger) *AuthenticityHTTPClient {
	return NewAuthenticityClient(cfg.AuthenticityURL, cfg.APIKey, time.Duration(cfg.TimeoutSeconds)*time.Second, logger)
}

// authenticityResponse mirrors the classifier's nested JSON payload.
type authenticityResponse struct {
	Result struct {
		SyntheticFace    float64 `json:"syntheticFace"`
		GenerativeOrigin float64 `json:"generativeOrigin"`
	} `json:"result"`
}

// DetectSynthetic sends the media to the classifier. On timeout, transport
// error, or empty input it returns a simulated estimate with small scores
// biased toward "genuine" and Simulated set — never an error for service
// unavailability.
func (c *AuthenticityHTTPClient) DetectSynthetic(ctx context.Context, media []byte) (*poc.AuthenticityResult, error) {
	if c.url == "" || len(media) == 0 {
		return c.simulated(), nil
	}

	body, err := postMedia(ctx, c.client, c.url, c.apiKey, media)
	if err != nil {
		c.logger.Warn("authenticity classifier unavailable", "error", err)
		return c.simulated(), nil
	}

	var parsed authenticityResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("authenticity response unreadable", "error", err)
		return c.simulated(), nil
	}

	return &poc.AuthenticityResult{
		SyntheticScore:  clamp01(parsed.Result.SyntheticFace),
		GenerativeScore: clamp01(parsed.Result.GenerativeOrigin),
	}, nil
}

func (c *AuthenticityHTTPClient) simulated() *poc.AuthenticityResult {
	return &poc.AuthenticityResult{
		SyntheticScore:  smallScore(0.15),
		GenerativeScore: smallScore(0.10),
		Simulated:       true,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
