// Package zabbix implements a client for the Zabbix JSON-RPC API. The
// package centers on a small call pipeline: keyword-style arguments are
// normalized into a parameter object, wrapped in the JSON-RPC 2.0 envelope,
// POSTed in a single blocking round-trip, and the response is unwrapped to
// a caller-selected content level. The per-endpoint methods in endpoints.go
// are thin feeders into that pipeline.
package zabbix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultAPIPath is where a stock Zabbix frontend serves the JSON-RPC API.
const DefaultAPIPath = "/api_jsonrpc.php"

// Each call is a single synchronous round-trip, so responses never need to
// be correlated by id and a fixed constant suffices. Anything issuing
// pipelined requests over one connection must not rely on this id.
const defaultRequestID = 1

// ContentLevel selects how far a response is unwrapped before it reaches
// the caller.
type ContentLevel string

const (
	// LevelRaw returns the transport response untouched: status, headers,
	// body bytes.
	LevelRaw ContentLevel = "raw"
	// LevelBody returns the parsed JSON-RPC body. Error envelopes are
	// returned as ordinary values, not raised.
	LevelBody ContentLevel = "body"
	// LevelData returns the body's result field. On an error envelope the
	// field is absent and the caller receives nil.
	LevelData ContentLevel = "data"
	// LevelBest returns LevelData, additionally reshaping time-series
	// results into a mapping keyed by instant. This is the default.
	LevelBest ContentLevel = "best"
)

// Config holds connection settings for a Zabbix API endpoint.
type Config struct {
	BaseURL  string        `yaml:"base_url"`
	APIPath  string        `yaml:"api_path"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Level    ContentLevel  `yaml:"content_level"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		APIPath: DefaultAPIPath,
		Level:   LevelBest,
		Timeout: 30 * time.Second,
	}
}

// Client talks to a single Zabbix API endpoint. The configured content
// level is fixed at construction; concurrent calls never share mutable
// configuration.
type Client struct {
	baseURL    string
	apiPath    string
	username   string
	password   string
	level      ContentLevel
	httpClient *http.Client
}

// NewClient creates a client from the given configuration.
func NewClient(cfg Config) *Client {
	apiPath := cfg.APIPath
	if apiPath == "" {
		apiPath = DefaultAPIPath
	}
	level := cfg.Level
	if level == "" {
		level = LevelBest
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		apiPath:  apiPath,
		username: cfg.Username,
		password: cfg.Password,
		level:    level,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Level returns the client's configured content level.
func (c *Client) Level() ContentLevel {
	return c.level
}

// envelope is the fixed JSON-RPC 2.0 request shape. Auth carries no
// omitempty: the field is emitted as null when no token is supplied. The
// null-stripping pass applies to params contents, not envelope fields.
type envelope struct {
	JSONRPC string  `json:"jsonrpc"`
	Method  string  `json:"method"`
	ID      int     `json:"id"`
	Auth    *string `json:"auth"`
	Params  Params  `json:"params"`
}

// buildEnvelope assembles the request envelope, running the final
// null-strip pass over params. A zero id falls back to the fixed default.
func buildEnvelope(method string, params Params, auth *string, id int) envelope {
	if id == 0 {
		id = defaultRequestID
	}
	if params == nil {
		params = Params{}
	}
	return envelope{
		JSONRPC: "2.0",
		Method:  method,
		ID:      id,
		Auth:    auth,
		Params:  stripNulls(params),
	}
}

// Response is the transport-level result of one API round-trip.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// APIError is the error object of a JSON-RPC error envelope.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *APIError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("zabbix: api error %d: %s: %s", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("zabbix: api error %d: %s", e.Code, e.Message)
}

// Err extracts the JSON-RPC error from the response body, or nil when the
// body is a success envelope or not parseable. Callers below LevelBody see
// error envelopes only as an absent result; this accessor is for those who
// need the detail.
func (r *Response) Err() *APIError {
	var body struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return nil
	}
	return body.Error
}

// Call sends one method call and resolves the response at the client's
// configured content level.
func (c *Client) Call(ctx context.Context, method string, params Params, auth *string) (any, error) {
	return c.CallLevel(ctx, c.level, method, params, auth)
}

// CallLevel sends one method call and resolves the response at an explicit
// content level, independent of the client's configuration.
func (c *Client) CallLevel(ctx context.Context, level ContentLevel, method string, params Params, auth *string) (any, error) {
	resp, err := c.send(ctx, buildEnvelope(method, params, auth, 0))
	if err != nil {
		return nil, err
	}
	return Resolve(resp, level)
}

// send serializes the envelope and performs the single blocking POST.
// Network failures propagate to the caller unmodified; there is no retry.
func (c *Client) send(ctx context.Context, env envelope) (*Response, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("zabbix: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.apiPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("zabbix: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Resolve unwraps a transport response to the requested content level. An
// unknown level is a programmer mistake and fails immediately.
func Resolve(resp *Response, level ContentLevel) (any, error) {
	switch level {
	case LevelRaw:
		return resp, nil
	case LevelBody:
		return parseBody(resp)
	case LevelData:
		return resultField(resp)
	case LevelBest:
		data, err := resultField(resp)
		if err != nil {
			return nil, err
		}
		if isSeries(data) {
			return NormalizeSeries(data.([]any))
		}
		return data, nil
	default:
		return nil, fmt.Errorf("zabbix: unknown content level %q", level)
	}
}

func parseBody(resp *Response) (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("zabbix: parse response body: %w", err)
	}
	return body, nil
}

// resultField returns the body's result value. An error envelope has no
// result; the caller receives nil, not an error, at this level.
func resultField(resp *Response) (any, error) {
	body, err := parseBody(resp)
	if err != nil {
		return nil, err
	}
	return body["result"], nil
}
