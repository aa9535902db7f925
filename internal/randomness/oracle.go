package randomness

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// OracleConfig configures the production oracle adapter
type OracleConfig struct {
	URL            string
	APIKey         string
	CallbackSecret string
	CallbackURL    string
	HTTPClient     *http.Client
}

// OracleProvider requests words from an external VRF oracle over HTTP and
// accepts only callbacks signed with the shared callback secret.
type OracleProvider struct {
	url         string
	apiKey      string
	secret      []byte
	callbackURL string
	client      *http.Client
}

type oracleRequest struct {
	NumWords    int         `json:"numWords"`
	CallbackURL string      `json:"callbackUrl,omitempty"`
	Meta        RequestMeta `json:"meta"`
}

type oracleResponse struct {
	RequestID string `json:"requestId"`
}

// NewOracleProvider creates the production adapter
func NewOracleProvider(cfg OracleConfig) (*OracleProvider, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("oracle URL must be set")
	}
	if cfg.CallbackSecret == "" {
		return nil, fmt.Errorf("oracle callback secret must be set")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultOracleTimeout}
	}
	return &OracleProvider{
		url:         strings.TrimRight(cfg.URL, "/"),
		apiKey:      cfg.APIKey,
		secret:      []byte(cfg.CallbackSecret),
		callbackURL: cfg.CallbackURL,
		client:      client,
	}, nil
}

// Name implements Provider
func (p *OracleProvider) Name() string {
	return ProviderOracle
}

// Request implements Provider
func (p *OracleProvider) Request(ctx context.Context, meta RequestMeta) (domain.RequestID, error) {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(oracleRequest{NumWords: WordsPerSpin, CallbackURL: p.callbackURL, Meta: meta})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRandomnessRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+OracleRequestPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRandomnessRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set(HeaderAPIKey, p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Error(LogMsgOracleRequestFailed, "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrRandomnessRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error(LogMsgOracleRequestFailed, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: oracle returned status %d", domain.ErrRandomnessRequest, resp.StatusCode)
	}

	var out oracleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrRandomnessRequest, err)
	}
	id, err := ParseRequestID(out.RequestID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRandomnessRequest, err)
	}

	log.Debug(LogMsgRandomnessRequested, "request_id", id, "provider", ProviderOracle)
	return id, nil
}

// AuthenticateCallback implements Provider. The signature header carries the
// hex HMAC-SHA256 of the raw body.
func (p *OracleProvider) AuthenticateCallback(r *http.Request, body []byte) error {
	sig := r.Header.Get(HeaderOracleSignature)
	if sig == "" {
		return fmt.Errorf("%w: missing signature", domain.ErrUnauthorizedFulfiller)
	}
	got, err := hex.DecodeString(strings.TrimPrefix(sig, "sha256="))
	if err != nil {
		return fmt.Errorf("%w: malformed signature", domain.ErrUnauthorizedFulfiller)
	}
	if !hmac.Equal(got, Sign(p.secret, body)) {
		return fmt.Errorf("%w: bad signature", domain.ErrUnauthorizedFulfiller)
	}
	return nil
}

// Sign returns HMAC-SHA256(secret, body)
func Sign(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}
