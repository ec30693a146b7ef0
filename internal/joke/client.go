// Package joke fetches programming jokes from an external provider.
package joke

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/piadas/piadas/internal/model"
)

const (
	// DefaultBaseURL is the public Official Joke API.
	DefaultBaseURL = "https://official-joke-api.appspot.com"
	// RandomProgrammingPath returns a one-element array with a random programming joke.
	RandomProgrammingPath = "/jokes/programming/random"

	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 5 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 3 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 3 * time.Second

	maxResponseBytes = 64 << 10
)

// Provider errors.
var (
	ErrProviderUnavailable = errors.New("joke provider unavailable")
	ErrMalformedResponse   = errors.New("malformed joke provider response")
)

// Provider returns a random joke.
type Provider interface {
	Fetch(ctx context.Context) (*model.Joke, error)
}

// upstreamJoke is the provider's wire format.
type upstreamJoke struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// Client calls the Official Joke API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewHTTPClient creates an HTTP client with conservative timeouts for the
// joke provider. Redirects are not followed.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: DefaultTimeout,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// NewClient creates a Client. An empty baseURL uses DefaultBaseURL, a nil
// httpClient uses NewHTTPClient and a non-positive timeout uses DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
	}
}

// Fetch retrieves one random programming joke.
// Transport failures, timeouts and non-200 responses wrap ErrProviderUnavailable;
// undecodable or empty bodies wrap ErrMalformedResponse.
func (c *Client) Fetch(ctx context.Context) (*model.Joke, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+RandomProgrammingPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build joke request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Piadas/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: unexpected status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	upstream, err := decodeJoke(body)
	if err != nil {
		return nil, err
	}

	return &model.Joke{
		ID:       upstream.ID,
		Pergunta: upstream.Setup,
		Resposta: upstream.Punchline,
	}, nil
}

// decodeJoke accepts either the array form returned by /jokes/{type}/random
// or a single joke object.
func decodeJoke(body []byte) (*upstreamJoke, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	var jokes []upstreamJoke
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &jokes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	} else {
		var single upstreamJoke
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		jokes = append(jokes, single)
	}

	if len(jokes) == 0 {
		return nil, fmt.Errorf("%w: no jokes returned", ErrMalformedResponse)
	}
	if jokes[0].Setup == "" && jokes[0].Punchline == "" {
		return nil, fmt.Errorf("%w: joke has no content", ErrMalformedResponse)
	}

	return &jokes[0], nil
}
