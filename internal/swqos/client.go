package swqos

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/config"
)

// Pooled connection tuning shared by all relay clients.
const (
	httpConnectTimeout = 2 * time.Second
	httpRequestTimeout = 3 * time.Second
	httpIdleTimeout    = 300 * time.Second
	httpKeepAlive      = 60 * time.Second
	maxIdlePerHost     = 4
)

var (
	errDefaultNeedsRPCURL = errors.New("default relay kind requires an rpc url")
	ErrMissingCredential  = errors.New("relay credential required")
	ErrInvalidJitoUUID    = errors.New("jito credential must be a uuid")
)

// Client submits signed transactions to one relay. Immutable after
// construction; safe for concurrent use across trades.
type Client struct {
	kind       ServiceKind
	region     Region
	name       string
	submitURL  string
	credential string
	http       *http.Client
}

// NewClient resolves the endpoint and validates the credential for the
// vendor. rpcURL backs the default kind, which is plain RPC sendTransaction.
func NewClient(spec config.RelaySpec, rpcURL string) (*Client, error) {
	kind, err := ParseServiceKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	region, err := ParseRegion(spec.Region)
	if err != nil {
		return nil, err
	}
	if err := validateCredential(kind, spec.Credential); err != nil {
		return nil, err
	}
	endpoint, err := resolveEndpoint(kind, region, spec.Endpoint, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		kind:       kind,
		region:     region,
		name:       fmt.Sprintf("%s-%s", kind, region),
		submitURL:  buildSubmitURL(kind, endpoint, spec.Credential),
		credential: spec.Credential,
		http:       newPooledHTTPClient(),
	}, nil
}

func validateCredential(kind ServiceKind, credential string) error {
	switch kind {
	case KindDefault, KindHelius:
		return nil // credential optional
	case KindJito:
		if credential == "" {
			return ErrMissingCredential
		}
		if _, err := uuid.Parse(credential); err != nil {
			return ErrInvalidJitoUUID
		}
		return nil
	case KindBloxroute, KindNextBlock, KindZeroSlot, KindNode1,
		KindAstralane, KindStellium, KindBlockRazor:
		if credential == "" {
			return ErrMissingCredential
		}
		return nil
	default:
		return fmt.Errorf("unhandled service kind %v", kind)
	}
}

// buildSubmitURL bakes query-string credentials and vendor path suffixes in
// once so Submit allocates nothing for the URL.
func buildSubmitURL(kind ServiceKind, endpoint, credential string) string {
	switch kind {
	case KindJito:
		return appendQuery(endpoint, "uuid", credential)
	case KindZeroSlot:
		return appendQuery(endpoint, "api-key", credential)
	case KindHelius:
		if credential != "" {
			return appendQuery(endpoint, "api-key", credential)
		}
		return endpoint
	case KindBloxroute, KindNextBlock, KindNode1:
		if strings.HasSuffix(endpoint, "/api/v2/submit") {
			return endpoint
		}
		return strings.TrimRight(endpoint, "/") + "/api/v2/submit"
	case KindAstralane:
		return appendQuery(appendQuery(endpoint, "api-key", credential), "method", "sendTransaction")
	case KindStellium:
		// Stellium authenticates by path segment.
		return strings.TrimRight(endpoint, "/") + "/" + url.PathEscape(credential)
	case KindBlockRazor:
		return appendQuery(endpoint, "auth", credential)
	default:
		return endpoint
	}
}

func appendQuery(endpoint, key, value string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + key + "=" + url.QueryEscape(value)
}

func newPooledHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   httpConnectTimeout,
		KeepAlive: httpKeepAlive,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConnsPerHost: maxIdlePerHost,
		IdleConnTimeout:     httpIdleTimeout,
		ForceAttemptHTTP2:   true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   httpRequestTimeout,
	}
}

func (c *Client) Name() string      { return c.name }
func (c *Client) Kind() ServiceKind { return c.kind }
func (c *Client) Endpoint() string  { return c.submitURL }

// TipAccount picks one of the vendor's tip accounts at random. The second
// return is false for vendors that take no tip.
func (c *Client) TipAccount() (solana.PublicKey, bool) {
	accounts := tipAccounts[c.kind]
	if len(accounts) == 0 {
		return solana.PublicKey{}, false
	}
	return accounts[rand.IntN(len(accounts))], true
}

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type sendOptions struct {
	Encoding      string `json:"encoding"`
	SkipPreflight bool   `json:"skipPreflight"`
	MaxRetries    int    `json:"maxRetries"`
}

type envelopeRequest struct {
	Transaction            envelopeTx `json:"transaction"`
	FrontRunningProtection bool       `json:"frontRunningProtection"`
	UseStakedRPCs          bool       `json:"useStakedRPCs,omitempty"`
}

type envelopeTx struct {
	Content string `json:"content"`
}

type relayResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Reason    string `json:"reason"`
	Signature string `json:"signature"`
}

func (c *Client) buildBody(encodedTx string) ([]byte, string, error) {
	switch c.kind {
	case KindBloxroute:
		body, err := sonic.Marshal(envelopeRequest{
			Transaction:   envelopeTx{Content: encodedTx},
			UseStakedRPCs: true,
		})
		return body, "application/json", err
	case KindNextBlock, KindNode1:
		body, err := sonic.Marshal(envelopeRequest{
			Transaction: envelopeTx{Content: encodedTx},
		})
		return body, "application/json", err
	case KindAstralane:
		// Astralane takes the raw signed bytes, not base64.
		raw, err := base64.StdEncoding.DecodeString(encodedTx)
		return raw, "application/octet-stream", err
	case KindBlockRazor:
		return []byte(encodedTx), "text/plain", nil
	default:
		body, err := sonic.Marshal(jsonRPCRequest{
			JSONRPC: "2.0",
			ID:      1,
			Method:  "sendTransaction",
			Params: []any{encodedTx, sendOptions{
				Encoding:      "base64",
				SkipPreflight: true,
				MaxRetries:    0,
			}},
		})
		return body, "application/json", err
	}
}

// Submit posts the base64-encoded signed transaction. A nil return means the
// relay accepted it; the executor keeps the signature it computed at signing
// time, every relay broadcasts the same bytes.
func (c *Client) Submit(ctx context.Context, encodedTx string) *common.SubmitError {
	body, contentType, err := c.buildBody(encodedTx)
	if err != nil {
		return &common.SubmitError{Relay: c.name, Kind: common.SubmitRejected, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.submitURL, bytes.NewReader(body))
	if err != nil {
		return &common.SubmitError{Relay: c.name, Kind: common.SubmitRejected, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	if c.credential != "" {
		switch c.kind {
		case KindBloxroute, KindNextBlock, KindNode1:
			req.Header.Set("Authorization", c.credential)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &common.SubmitError{Relay: c.name, Kind: common.SubmitConnectionFailure, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &common.SubmitError{
			Relay:  c.name,
			Kind:   common.SubmitRejected,
			Reason: fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(raw, 256)),
		}
	}

	var parsed relayResponse
	if err := sonic.Unmarshal(raw, &parsed); err != nil {
		// Accepted at HTTP level; an unparsable body is not a rejection.
		return nil
	}
	if parsed.Error != nil {
		return &common.SubmitError{Relay: c.name, Kind: common.SubmitRejected, Reason: parsed.Error.Message}
	}
	if parsed.Reason != "" {
		return &common.SubmitError{Relay: c.name, Kind: common.SubmitRejected, Reason: parsed.Reason}
	}
	return nil
}

func (c *Client) classifyTransportError(err error) *common.SubmitError {
	kind := common.SubmitConnectionFailure
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = common.SubmitTimeout
	}
	return &common.SubmitError{Relay: c.name, Kind: kind, Err: err}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
