// Package anchor submits capture proofs to the ledger anchor gateway.
package anchor

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"poc-go/internal/config"
	"poc-go/internal/poc"
)

// DefaultTimeout bounds a single anchor attempt.
const DefaultTimeout = 30 * time.Second

// HTTPClient implements poc.AnchorClient against the anchor gateway, a
// thin HTTP front for the proof ledger contract. The gateway call is
// equivalent to anchorProof(bytes32 digest, string signature, string
// publicKey): it returns a transaction hash and block number, or rejects
// if a proof for the digest already exists.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

var _ poc.AnchorClient = (*HTTPClient)(nil)

// NewHTTPClient creates an anchor client for the given gateway base URL.
// An empty endpoint disables anchoring: every call reports
// AnchorUnavailable without touching the network.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// NewClientFromConfig creates an anchor client from configuration.
func NewClientFromConfig(cfg config.AnchorConfig) *HTTPClient {
	return NewHTTPClient(cfg.Endpoint, time.Duration(cfg.TimeoutSeconds)*time.Second)
}

type anchorRequest struct {
	Digest    string `json:"digest"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

type anchorResponse struct {
	TxHash      string `json:"txHash"`
	BlockNumber int64  `json:"blockNumber"`
	Message     string `json:"message"`
}

// Anchor submits the proof triple and classifies the gateway response.
// Network errors, timeouts, and 5xx responses classify as unavailable;
// 402 as insufficient funds; 409 as already-exists with the existing
// transaction reference. An error is returned only for malformed input.
func (c *HTTPClient) Anchor(ctx context.Context, digestHex, signatureHex, publicKeyHex string) (*poc.AnchorResult, error) {
	if raw, err := hex.DecodeString(digestHex); err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes of hex, got %q", digestHex)
	}

	if c.endpoint == "" {
		return &poc.AnchorResult{
			Outcome: poc.AnchorUnavailable,
			Detail:  "Anchoring disabled — no gateway endpoint configured",
		}, nil
	}

	body, err := json.Marshal(anchorRequest{
		Digest:    digestHex,
		Signature: signatureHex,
		PublicKey: publicKeyHex,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding anchor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/anchor", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building anchor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &poc.AnchorResult{
			Outcome: poc.AnchorUnavailable,
			Detail:  "Anchor gateway unreachable — proof not recorded on ledger",
		}, nil
	}
	defer resp.Body.Close()

	var parsed anchorResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if decodeErr != nil || parsed.TxHash == "" {
			return &poc.AnchorResult{
				Outcome: poc.AnchorUnavailable,
				Detail:  "Anchor gateway returned an unreadable response",
			}, nil
		}
		return &poc.AnchorResult{
			Outcome:  poc.Anchored,
			TxRef:    parsed.TxHash,
			BlockRef: parsed.BlockNumber,
		}, nil

	case http.StatusConflict:
		// The ledger enforces one proof per digest. Surface the existing
		// transaction so the caller can reuse it.
		return &poc.AnchorResult{
			Outcome: poc.AnchorAlreadyExists,
			TxRef:   parsed.TxHash,
			Detail:  "A proof for this digest already exists on the ledger",
		}, nil

	case http.StatusPaymentRequired:
		return &poc.AnchorResult{
			Outcome: poc.AnchorInsufficientFunds,
			Detail:  "Insufficient funds for the anchor fee — obtain test funds from a faucet and retry",
		}, nil

	default:
		detail := fmt.Sprintf("Anchor gateway rejected the proof (HTTP %d)", resp.StatusCode)
		if parsed.Message != "" {
			detail = fmt.Sprintf("%s: %s", detail, parsed.Message)
		}
		return &poc.AnchorResult{Outcome: poc.AnchorUnavailable, Detail: detail}, nil
	}
}
