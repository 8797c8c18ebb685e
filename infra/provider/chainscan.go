// Package provider contains infrastructure implementations of the external
// collaborator interfaces.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/investra/platform/pkg/config"
	"github.com/investra/platform/pkg/money"
	"github.com/investra/platform/pkg/provider"
)

var refPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{16,64}$`)

// ChainScanVerifier verifies on-chain transfers against a block-explorer
// style HTTP API.
type ChainScanVerifier struct {
	baseURL          string
	apiKey           string
	minConfirmations int
	httpClient       *http.Client
	logger           *slog.Logger
}

// NewChainScanVerifier builds a verifier from config.
func NewChainScanVerifier(cfg *config.ChainScan, logger *slog.Logger) *ChainScanVerifier {
	return &ChainScanVerifier{
		baseURL:          strings.TrimRight(cfg.ApiUrl, "/"),
		apiKey:           cfg.ApiKey,
		minConfirmations: cfg.MinConfirmations,
		httpClient:       &http.Client{Timeout: cfg.HTTPTimeout},
		logger:           logger,
	}
}

type txLookupResponse struct {
	To            string  `json:"to"`
	Amount        float64 `json:"amount"`
	Confirmations int     `json:"confirmations"`
	Status        string  `json:"status"`
}

// Verify implements provider.PaymentVerifier.
func (v *ChainScanVerifier) Verify(ctx context.Context, txRef, expectedRecipient string, minAmount money.Money) (*provider.Verification, error) {
	if !refPattern.MatchString(txRef) {
		return &provider.Verification{Valid: false, Reason: "malformed transaction reference"}, nil
	}

	url := fmt.Sprintf("%s/tx/%s?apikey=%s", v.baseURL, txRef, v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chainscan lookup: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return &provider.Verification{Valid: false, Reason: "transaction not found"}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chainscan lookup: unexpected status %d", resp.StatusCode)
	}

	var lookup txLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}

	amount := money.FromFloat(lookup.Amount)
	switch {
	case lookup.Status != "success":
		return &provider.Verification{Valid: false, Amount: amount, Reason: "transaction not successful"}, nil
	case !strings.EqualFold(lookup.To, expectedRecipient):
		return &provider.Verification{Valid: false, Amount: amount, Reason: "recipient mismatch"}, nil
	case lookup.Confirmations < v.minConfirmations:
		return &provider.Verification{Valid: false, Amount: amount, Reason: "insufficient confirmations"}, nil
	case amount.LessThan(minAmount):
		return &provider.Verification{Valid: false, Amount: amount, Reason: "amount below expected"}, nil
	}

	v.logger.Info("payment verified", "ref", txRef, "amount", amount, "confirmations", lookup.Confirmations)
	return &provider.Verification{Valid: true, Amount: amount}, nil
}
