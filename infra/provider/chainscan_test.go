package provider_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/investra/platform/infra/provider"
	"github.com/investra/platform/pkg/config"
	"github.com/investra/platform/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRef = "0xabcdef0123456789"

func newVerifier(t *testing.T, handler http.HandlerFunc) *provider.ChainScanVerifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return provider.NewChainScanVerifier(&config.ChainScan{
		ApiUrl:           srv.URL,
		ApiKey:           "test-key",
		HTTPTimeout:      2 * time.Second,
		MinConfirmations: 3,
	}, slog.Default())
}

func TestVerify_Success(t *testing.T) {
	v := newVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tx/"+validRef, r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{"to":"0xAdmin","amount":500.00,"confirmations":12,"status":"success"}`)
	})

	got, err := v.Verify(context.Background(), validRef, "0xadmin", money.FromCents(50_000))
	require.NoError(t, err)
	assert.True(t, got.Valid)
	assert.Equal(t, int64(50_000), got.Amount.Cents())
}

func TestVerify_MalformedReference(t *testing.T) {
	v := newVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("malformed references must not reach the API")
	})

	got, err := v.Verify(context.Background(), "not-a-ref", "0xadmin", money.Zero)
	require.NoError(t, err)
	assert.False(t, got.Valid)
	assert.Equal(t, "malformed transaction reference", got.Reason)
}

func TestVerify_InvalidOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{"failed transaction", `{"to":"0xadmin","amount":500,"confirmations":12,"status":"failed"}`, "transaction not successful"},
		{"wrong recipient", `{"to":"0xother","amount":500,"confirmations":12,"status":"success"}`, "recipient mismatch"},
		{"too few confirmations", `{"to":"0xadmin","amount":500,"confirmations":1,"status":"success"}`, "insufficient confirmations"},
		{"underpaid", `{"to":"0xadmin","amount":400,"confirmations":12,"status":"success"}`, "amount below expected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newVerifier(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			got, err := v.Verify(context.Background(), validRef, "0xadmin", money.FromCents(50_000))
			require.NoError(t, err)
			assert.False(t, got.Valid)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestVerify_NotFoundIsInvalidNotError(t *testing.T) {
	v := newVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	got, err := v.Verify(context.Background(), validRef, "0xadmin", money.Zero)
	require.NoError(t, err)
	assert.False(t, got.Valid)
}

func TestVerify_ServerErrorIsError(t *testing.T) {
	v := newVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := v.Verify(context.Background(), validRef, "0xadmin", money.Zero)
	require.Error(t, err)
}
