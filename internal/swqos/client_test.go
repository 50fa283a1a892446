package swqos

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/config"
)

const testRPCURL = "https://rpc.example.com"

func TestCredentialValidation(t *testing.T) {
	tests := []struct {
		name    string
		spec    config.RelaySpec
		wantErr error
	}{
		{"jito requires uuid", config.RelaySpec{Kind: "jito", Credential: "not-a-uuid"}, ErrInvalidJitoUUID},
		{"jito empty credential", config.RelaySpec{Kind: "jito"}, ErrMissingCredential},
		{"jito valid uuid", config.RelaySpec{Kind: "jito", Credential: "3f2a6c1e-9a6f-4c2b-8b51-0f63c2a41d27"}, nil},
		{"bloxroute needs token", config.RelaySpec{Kind: "bloxroute"}, ErrMissingCredential},
		{"bloxroute with token", config.RelaySpec{Kind: "bloxroute", Credential: "tok"}, nil},
		{"helius empty allowed", config.RelaySpec{Kind: "helius"}, nil},
		{"default empty allowed", config.RelaySpec{Kind: "default"}, nil},
		{"astralane needs token", config.RelaySpec{Kind: "astralane"}, ErrMissingCredential},
		{"astralane with token", config.RelaySpec{Kind: "astralane", Credential: "tok"}, nil},
		{"stellium needs token", config.RelaySpec{Kind: "stellium"}, ErrMissingCredential},
		{"blockrazor needs token", config.RelaySpec{Kind: "blockrazor"}, ErrMissingCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.spec, testRPCURL)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUnknownKindAndRegion(t *testing.T) {
	_, err := NewClient(config.RelaySpec{Kind: "warpspeed"}, testRPCURL)
	assert.Error(t, err)

	_, err = NewClient(config.RelaySpec{Kind: "helius", Region: "atlantis"}, testRPCURL)
	assert.Error(t, err)
}

func TestEndpointResolution(t *testing.T) {
	// Explicit override wins over the kind+region table.
	c, err := NewClient(config.RelaySpec{Kind: "helius", Endpoint: "https://custom.example.com/fast"}, testRPCURL)
	require.NoError(t, err)
	assert.Equal(t, "https://custom.example.com/fast", c.Endpoint())

	c, err = NewClient(config.RelaySpec{Kind: "jito", Region: "frankfurt", Credential: "3f2a6c1e-9a6f-4c2b-8b51-0f63c2a41d27"}, testRPCURL)
	require.NoError(t, err)
	assert.Contains(t, c.Endpoint(), "frankfurt.mainnet.block-engine.jito.wtf")
	assert.Contains(t, c.Endpoint(), "uuid=3f2a6c1e")

	// Region the vendor does not serve falls back to its default.
	c, err = NewClient(config.RelaySpec{Kind: "nextblock", Region: "tokyo", Credential: "tok"}, testRPCURL)
	require.NoError(t, err)
	assert.Contains(t, c.Endpoint(), "fra.nextblock.io")
	assert.Contains(t, c.Endpoint(), "/api/v2/submit")

	// Default kind is plain RPC.
	c, err = NewClient(config.RelaySpec{Kind: "default"}, testRPCURL)
	require.NoError(t, err)
	assert.Equal(t, testRPCURL, c.Endpoint())

	_, err = NewClient(config.RelaySpec{Kind: "default"}, "")
	assert.Error(t, err)
}

func TestSubmitJSONRPCSuccess(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"5sig"}`))
	}))
	defer srv.Close()

	c, err := NewClient(config.RelaySpec{Kind: "default", Endpoint: srv.URL}, testRPCURL)
	require.NoError(t, err)

	subErr := c.Submit(context.Background(), "dGVzdA==")
	require.Nil(t, subErr)

	var req jsonRPCRequest
	require.NoError(t, sonic.Unmarshal(gotBody, &req))
	assert.Equal(t, "sendTransaction", req.Method)
	require.Len(t, req.Params, 2)
	assert.Equal(t, "dGVzdA==", req.Params[0])
}

func TestSubmitEnvelopeBody(t *testing.T) {
	var gotBody []byte
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"signature":"5sig"}`))
	}))
	defer srv.Close()

	c, err := NewClient(config.RelaySpec{Kind: "bloxroute", Credential: "tok", Endpoint: srv.URL}, testRPCURL)
	require.NoError(t, err)

	subErr := c.Submit(context.Background(), "dGVzdA==")
	require.Nil(t, subErr)
	assert.Equal(t, "tok", gotAuth)

	var env envelopeRequest
	require.NoError(t, sonic.Unmarshal(gotBody, &env))
	assert.Equal(t, "dGVzdA==", env.Transaction.Content)
	assert.True(t, env.UseStakedRPCs)
}

func TestSubmitAstralaneBinaryBody(t *testing.T) {
	var gotBody []byte
	var gotContentType, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := NewClient(config.RelaySpec{Kind: "astralane", Credential: "tok", Endpoint: srv.URL}, testRPCURL)
	require.NoError(t, err)

	subErr := c.Submit(context.Background(), "dGVzdA==")
	require.Nil(t, subErr)

	assert.Equal(t, []byte("test"), gotBody)
	assert.Equal(t, "application/octet-stream", gotContentType)
	assert.Contains(t, gotQuery, "api-key=tok")
	assert.Contains(t, gotQuery, "method=sendTransaction")
}

func TestSubmitBlockRazorPlainTextBody(t *testing.T) {
	var gotBody []byte
	var gotContentType, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"signature":"5sig"}`))
	}))
	defer srv.Close()

	c, err := NewClient(config.RelaySpec{Kind: "blockrazor", Credential: "tok", Endpoint: srv.URL}, testRPCURL)
	require.NoError(t, err)

	subErr := c.Submit(context.Background(), "dGVzdA==")
	require.Nil(t, subErr)

	assert.Equal(t, []byte("dGVzdA=="), gotBody)
	assert.Equal(t, "text/plain", gotContentType)
	assert.Contains(t, gotQuery, "auth=tok")
}

func TestSubmitStelliumCredentialInPath(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"5sig"}`))
	}))
	defer srv.Close()

	c, err := NewClient(config.RelaySpec{Kind: "stellium", Credential: "tok", Endpoint: srv.URL}, testRPCURL)
	require.NoError(t, err)

	subErr := c.Submit(context.Background(), "dGVzdA==")
	require.Nil(t, subErr)
	assert.Equal(t, "/tok", gotPath)

	var req jsonRPCRequest
	require.NoError(t, sonic.Unmarshal(gotBody, &req))
	assert.Equal(t, "sendTransaction", req.Method)
}

func TestSubmitClassifiesRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32002,"message":"blockhash not found"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(config.RelaySpec{Kind: "default", Endpoint: srv.URL}, testRPCURL)
	require.NoError(t, err)

	subErr := c.Submit(context.Background(), "dGVzdA==")
	require.NotNil(t, subErr)
	assert.Equal(t, common.SubmitRejected, subErr.Kind)
	assert.Equal(t, "blockhash not found", subErr.Reason)
}

func TestSubmitClassifiesHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient(config.RelaySpec{Kind: "default", Endpoint: srv.URL}, testRPCURL)
	require.NoError(t, err)

	subErr := c.Submit(context.Background(), "dGVzdA==")
	require.NotNil(t, subErr)
	assert.Equal(t, common.SubmitRejected, subErr.Kind)
	assert.Contains(t, subErr.Reason, "429")
}

func TestSubmitClassifiesConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listening anymore

	c, err := NewClient(config.RelaySpec{Kind: "default", Endpoint: url}, testRPCURL)
	require.NoError(t, err)

	subErr := c.Submit(context.Background(), "dGVzdA==")
	require.NotNil(t, subErr)
	assert.Equal(t, common.SubmitConnectionFailure, subErr.Kind)
}

func TestSubmitClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewClient(config.RelaySpec{Kind: "default", Endpoint: srv.URL}, testRPCURL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	subErr := c.Submit(ctx, "dGVzdA==")
	require.NotNil(t, subErr)
	assert.Equal(t, common.SubmitTimeout, subErr.Kind)
}

func TestTipAccount(t *testing.T) {
	c, err := NewClient(config.RelaySpec{Kind: "jito", Credential: "3f2a6c1e-9a6f-4c2b-8b51-0f63c2a41d27"}, testRPCURL)
	require.NoError(t, err)

	tip, ok := c.TipAccount()
	require.True(t, ok)
	assert.Contains(t, tipAccounts[KindJito], tip)

	c, err = NewClient(config.RelaySpec{Kind: "default"}, testRPCURL)
	require.NoError(t, err)
	_, ok = c.TipAccount()
	assert.False(t, ok)
}
