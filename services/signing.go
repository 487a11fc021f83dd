package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SignatureResult is what the signing collaborator returns for a
// content hash.
type SignatureResult struct {
	SignedAt time.Time `json:"signed_at"`
	Receipt  string    `json:"receipt,omitempty"`
}

// SigningClient delegates the cryptographic signature step to an
// external service. The core only records the resulting timestamp.
type SigningClient interface {
	Sign(ctx context.Context, contentHash, signerName, signerTaxID string) (*SignatureResult, error)
}

// Signer is the global signing client, set during startup
var Signer SigningClient = &LocalSigner{}

// LocalSigner simulates the signing service in-process. Used when no
// SIGNING_SERVICE_URL is configured and in tests.
type LocalSigner struct{}

// Sign returns a signature record with the current timestamp
func (s *LocalSigner) Sign(ctx context.Context, contentHash, signerName, signerTaxID string) (*SignatureResult, error) {
	return &SignatureResult{SignedAt: time.Now()}, nil
}

// RemoteSigner calls an external signing service over HTTP
type RemoteSigner struct {
	URL     string
	Timeout time.Duration
	client  *http.Client
}

// NewRemoteSigner creates a signing client for the given service URL
func NewRemoteSigner(url string, timeout time.Duration) *RemoteSigner {
	return &RemoteSigner{
		URL:     url,
		Timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Sign submits the content hash to the signing service
func (s *RemoteSigner) Sign(ctx context.Context, contentHash, signerName, signerTaxID string) (*SignatureResult, error) {
	payload, err := json.Marshal(map[string]string{
		"content_hash":  contentHash,
		"signer_name":   signerName,
		"signer_tax_id": signerTaxID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode signing request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build signing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signing service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("signing service returned status %d", resp.StatusCode)
	}

	var result SignatureResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode signing response: %w", err)
	}
	if result.SignedAt.IsZero() {
		result.SignedAt = time.Now()
	}
	return &result, nil
}

// signWithRetry calls the signing client, retrying exactly once on
// failure before surfacing a RetryableError.
func signWithRetry(ctx context.Context, contentHash, signerName, signerTaxID string) (*SignatureResult, error) {
	result, err := Signer.Sign(ctx, contentHash, signerName, signerTaxID)
	if err == nil {
		return result, nil
	}

	result, retryErr := Signer.Sign(ctx, contentHash, signerName, signerTaxID)
	if retryErr == nil {
		return result, nil
	}
	return nil, &RetryableError{Op: "sign", Err: retryErr}
}
