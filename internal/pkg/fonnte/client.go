// Package fonnte is a thin client over the Fonnte WhatsApp gateway REST API.
//
// Every call returns a Result instead of an error so that a failing
// notification can be logged by the caller without aborting its own work.
package fonnte

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/silani/discipline/internal/pkg/apperrors"
)

// Default client settings
const (
	DefaultBaseURL      = "https://api.fonnte.com"
	DefaultCountryCode  = "62"
	DefaultTimeout      = 10 * time.Second
	DefaultRetryBackoff = 500 * time.Millisecond

	maxResponseBytes = 1 << 20
)

// API paths
const (
	pathSend         = "/send"
	pathGetDevices   = "/get-devices"
	pathQR           = "/qr"
	pathDisconnect   = "/disconnect"
	pathFetchProfile = "/fetch-profile"
	pathStatus       = "/status"
	pathValidate     = "/validate"
	pathDeleteDevice = "/delete-device"
)

// Reason strings reported when the gateway gives none
const (
	reasonConnection   = "API connection failed"
	reasonTokenMissing = "API token or device token is required."
)

// Config holds configuration for the gateway client
type Config struct {
	BaseURL      string
	AccountToken string
	// DeviceToken authorizes outgoing messages. Falls back to AccountToken.
	DeviceToken  string
	CountryCode  string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the Fonnte API. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	config Config
	http   *http.Client
	logger zerolog.Logger
}

// NewClient creates a gateway client. A missing account token is a
// configuration error reported here, once, rather than on every call.
func NewClient(config Config, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(config.AccountToken) == "" {
		return nil, fmt.Errorf("%w: fonnte account token", apperrors.ErrNotConfigured)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.CountryCode == "" {
		config.CountryCode = DefaultCountryCode
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = DefaultRetryBackoff
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config: config,
		http:   httpClient,
		logger: logger.With().Str("component", "fonnte").Logger(),
	}, nil
}

// call describes one outbound request
type call struct {
	op       string
	path     string
	token    string
	form     url.Values
	json     interface{}
	fallback string
	// unwrap returns the envelope's data field instead of the whole body
	unwrap bool
	// project rewrites the successful body into the payload handed to callers
	project func(body []byte) (json.RawMessage, error)
}

// do executes a call with a bounded retry for transient failures
func (c *Client) do(ctx context.Context, cl call) Result {
	if cl.token == "" {
		return Failed(reasonTokenMissing)
	}

	attempts := 1 + c.config.MaxRetries
	var res Result
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return Failed(reasonConnection)
			case <-time.After(c.config.RetryBackoff):
			}
		}

		var transient bool
		res, transient = c.attempt(ctx, cl)
		if res.Success || !transient {
			return res
		}
		c.logger.Warn().Str("op", cl.op).Int("attempt", i+1).Str("reason", res.Reason).Msg("Transient gateway failure")
	}
	return res
}

// attempt performs a single HTTP round trip. The bool reports whether a
// failure is worth retrying.
func (c *Client) attempt(ctx context.Context, cl call) (Result, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var body io.Reader
	contentType := ""
	switch {
	case cl.form != nil:
		body = strings.NewReader(cl.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case cl.json != nil:
		payload, err := json.Marshal(cl.json)
		if err != nil {
			c.logger.Error().Err(err).Str("op", cl.op).Msg("Failed to encode gateway request")
			return Failed(cl.fallback), false
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+cl.path, body)
	if err != nil {
		c.logger.Error().Err(err).Str("op", cl.op).Msg("Failed to build gateway request")
		return Failed(reasonConnection), false
	}
	req.Header.Set("Authorization", cl.token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("op", cl.op).Msg("Gateway request failed")
		return Failed(reasonConnection), true
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Error().Err(err).Str("op", cl.op).Msg("Failed to read gateway response")
		return Failed(reasonConnection), true
	}

	c.logger.Info().Str("op", cl.op).Int("httpStatus", resp.StatusCode).Msg("Fonnte API response")

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := cl.fallback
		if decodeErr == nil && env.Reason != "" {
			reason = env.Reason
		}
		transient := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return Failed(reason), transient
	}

	if decodeErr != nil {
		c.logger.Warn().Err(decodeErr).Str("op", cl.op).Msg("Gateway returned a non-JSON body")
		return Failed(cl.fallback), false
	}
	if !env.Status {
		reason := env.Reason
		if reason == "" {
			reason = cl.fallback
		}
		return Failed(reason), false
	}

	switch {
	case cl.project != nil:
		data, err := cl.project(raw)
		if err != nil {
			return Failed(cl.fallback), false
		}
		return Succeeded(data), false
	case cl.unwrap:
		data := env.Data
		if len(data) == 0 || string(data) == "null" {
			data = json.RawMessage("[]")
		}
		return Succeeded(data), false
	default:
		return Succeeded(json.RawMessage(raw)), false
	}
}

func (c *Client) senderToken() string {
	if c.config.DeviceToken != "" {
		return c.config.DeviceToken
	}
	return c.config.AccountToken
}

// SendMessage sends a WhatsApp text message to a normalized phone number.
func (c *Client) SendMessage(ctx context.Context, target, message string) Result {
	return c.do(ctx, call{
		op:    "send_message",
		path:  pathSend,
		token: c.senderToken(),
		form: url.Values{
			"target":      {target},
			"message":     {message},
			"countryCode": {c.config.CountryCode},
		},
		fallback: "Failed to send message",
	})
}
