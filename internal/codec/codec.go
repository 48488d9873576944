// Package codec converts a budget State to and from its two external forms:
// the JSON blob kept in the key-value store and the base64url token carried
// in a shareable link.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/theirongolddev/iceplan/internal/budget"
)

const (
	// StoreKey is the namespaced key the store representation lives under.
	StoreKey = "iceplan:state"
	// LinkParam is the query parameter carrying a shared plan.
	LinkParam = "plan"
)

var (
	// ErrNoState means the sink holds nothing to load.
	ErrNoState = errors.New("no state available")
	// ErrMalformedState means content was present but could not be decoded.
	ErrMalformedState = errors.New("malformed persisted state")
)

// EncodeStore renders a State for the key-value store.
func EncodeStore(s budget.State) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding state: %w", err)
	}
	return string(data), nil
}

// DecodeStore parses a stored blob. Empty input yields ErrNoState.
func DecodeStore(data string) (budget.State, error) {
	if strings.TrimSpace(data) == "" {
		return nil, ErrNoState
	}
	return decodeJSON([]byte(data))
}

// EncodeLink renders a State as an unpadded base64url token.
func EncodeLink(s budget.State) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeLink parses a link token. Padded and standard-alphabet tokens are
// accepted since links get retyped and re-encoded by messaging apps.
func DecodeLink(token string) (budget.State, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoState
	}
	token = strings.TrimRight(token, "=")
	// A standard-alphabet '+' arrives as a space once the query is unescaped.
	token = strings.ReplaceAll(token, " ", "+")

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(token)
		if err != nil {
			return nil, fmt.Errorf("%w: bad base64: %v", ErrMalformedState, err)
		}
	}
	return decodeJSON(data)
}

// ShareURL sets the plan parameter on base, keeping any other query values.
func ShareURL(base string, s budget.State) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing share base url: %w", err)
	}
	token, err := EncodeLink(s)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(LinkParam, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// StateFromURL extracts and decodes the plan parameter from a full URL.
// A bare token (no scheme, no query) is decoded directly.
func StateFromURL(raw string) (budget.State, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoState
	}
	if !strings.Contains(raw, "?") && !strings.Contains(raw, "://") {
		return DecodeLink(raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: bad url: %v", ErrMalformedState, err)
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: bad query: %v", ErrMalformedState, err)
	}
	if !values.Has(LinkParam) {
		return nil, ErrNoState
	}
	return DecodeLink(values.Get(LinkParam))
}

func decodeJSON(data []byte) (budget.State, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var s budget.State
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedState)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedState)
	}
	return s, nil
}
