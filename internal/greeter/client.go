//go:generate stringer -type=Kind
package greeter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/hello-form/internal/api"
	"github.com/airenas/hello-form/internal/utils"
)

// DefaultURL is the greeting endpoint
const DefaultURL = "https://michaelfcollins3.herokuapp.com/sayhello"

// ErrMalformedResponse is returned when the endpoint answers 2xx with an unusable body
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for non 2xx answers
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %v", e.Code, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Kind of a submission outcome
type Kind int

const (
	Success Kind = iota
	Failure
)

// Outcome is the result of one submission
type Outcome struct {
	Kind     Kind
	Greeting string
	Detail   string
}

// Client invokes the greeting endpoint
type Client struct {
	httpclient *http.Client
	url        string
	timeout    time.Duration
	strict     bool
}

// Option configures Client
type Option func(*Client)

// WithTimeout bounds each request, zero means no timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithStrict makes a missing greeting field an ErrMalformedResponse.
// When off, a missing field yields an empty greeting.
func WithStrict(strict bool) Option {
	return func(c *Client) {
		c.strict = strict
	}
}

// WithHTTPClient overrides the http client
func WithHTTPClient(httpclient *http.Client) Option {
	return func(c *Client) {
		c.httpclient = httpclient
	}
}

// NewClient creates a greeting endpoint client
func NewClient(url string, opts ...Option) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("no url")
	}
	res := &Client{url: url, strict: true}
	for _, o := range opts {
		o(res)
	}
	if res.httpclient == nil {
		res.httpclient = newHTTPClient()
	}
	goapp.Log.Info().Str("url", url).Dur("timeout", res.timeout).Bool("strict", res.strict).Msg("Greeter")
	return res, nil
}

// URL returns the endpoint url
func (c *Client) URL() string {
	return c.url
}

// SayHello posts data to the endpoint and decodes the greeting
func (c *Client) SayHello(ctx context.Context, data *api.UserData) (*api.GreetingResponse, error) {
	defer utils.MeasureTime("greeter", time.Now())
	if c.timeout > 0 {
		var cancelF context.CancelFunc
		ctx, cancelF = context.WithTimeout(ctx, c.timeout)
		defer cancelF()
	}

	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("can't encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't invoke '%s': %w", c.url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1000))
		_ = resp.Body.Close()
	}()
	if err := goapp.ValidateHTTPResp(resp, 100); err != nil {
		return nil, &StatusError{Code: resp.StatusCode, Err: fmt.Errorf("can't invoke '%s': %w", c.url, err)}
	}
	res := &api.GreetingResponse{}
	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if c.strict && res.Greeting == nil {
		return nil, fmt.Errorf("%w: no greeting", ErrMalformedResponse)
	}
	return res, nil
}

// Do invokes the endpoint and collapses the result into an Outcome
func (c *Client) Do(ctx context.Context, data *api.UserData) Outcome {
	res, err := c.SayHello(ctx, data)
	if err != nil {
		return Outcome{Kind: Failure, Detail: err.Error()}
	}
	return Outcome{Kind: Success, Greeting: res.Text()}
}

func newHTTPClient() *http.Client {
	return &http.Client{Transport: newTransport()}
}

func newTransport() http.RoundTripper {
	res := http.DefaultTransport.(*http.Transport).Clone()
	res.MaxConnsPerHost = 5
	res.MaxIdleConns = 2
	res.MaxIdleConnsPerHost = 2
	res.IdleConnTimeout = 90 * time.Second
	return res
}
