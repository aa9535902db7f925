// Package randomness abstracts the verifiable randomness oracle behind a
// request/callback provider.
package randomness

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

// RequestMeta describes the spin a randomness request is issued for
type RequestMeta struct {
	Player    string `json:"player"`
	ReelCount int    `json:"reelCount"`
}

// Provider issues randomness requests and decides who may deliver their
// fulfilment. Settlement logic is shared by every provider.
type Provider interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// Request asks for one random word and returns immediately with its id
	Request(ctx context.Context, meta RequestMeta) (domain.RequestID, error)

	// AuthenticateCallback rejects fulfilment callbacks not originating from
	// an allowed caller. body is the raw request body.
	AuthenticateCallback(r *http.Request, body []byte) error
}

// Fulfiller settles a request once its random words arrive
type Fulfiller interface {
	Fulfill(ctx context.Context, requestID domain.RequestID, words []*big.Int) error
}

// Word is a 256-bit random word that decodes from a JSON number, a decimal
// string or a 0x-prefixed hex string.
type Word struct {
	*big.Int
}

// UnmarshalJSON implements json.Unmarshaler
func (w *Word) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := ParseWord(s)
	if err != nil {
		return err
	}
	w.Int = v
	return nil
}

// MarshalJSON encodes the word as a decimal string
func (w Word) MarshalJSON() ([]byte, error) {
	if w.Int == nil {
		return []byte(`"0"`), nil
	}
	return json.Marshal(w.Int.String())
}

// ParseWord parses a decimal or 0x-prefixed hex word
func ParseWord(s string) (*big.Int, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRandomness, s)
	}
	return v, nil
}

// ParseRequestID checks that id is an unsigned decimal integer
func ParseRequestID(id string) (domain.RequestID, error) {
	v, ok := new(big.Int).SetString(id, 10)
	if !ok || v.Sign() < 0 {
		return "", fmt.Errorf("%w: malformed request id %q", domain.ErrUnknownRequest, id)
	}
	return domain.RequestID(v.String()), nil
}

// Callback is the fulfilment message delivered to the callback endpoint
type Callback struct {
	RequestID   string `json:"requestId" validate:"required"`
	RandomWords []Word `json:"randomWords" validate:"required,min=1"`
}

// Words returns the decoded words
func (c Callback) Words() []*big.Int {
	words := make([]*big.Int, len(c.RandomWords))
	for i, w := range c.RandomWords {
		words[i] = w.Int
	}
	return words
}
