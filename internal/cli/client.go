package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// StatusResponse — состояние relay из API.
type StatusResponse struct {
	RelayID           string         `json:"relay_id"`
	StartedAt         string         `json:"started_at"`
	UptimeSeconds     int64          `json:"uptime_seconds"`
	MessagesProcessed int64          `json:"messages_processed"`
	Pending           int            `json:"pending"`
	Dropped           int64          `json:"dropped"`
	Rejected          int64          `json:"rejected"`
	Source            SourceResponse `json:"source"`
	Sink              SinkResponse   `json:"sink"`
}

// SourceResponse — сторона SQS.
type SourceResponse struct {
	Connected      bool   `json:"connected"`
	StartedAt      string `json:"started_at"`
	LastReceivedAt string `json:"last_received_at,omitempty"`
	Received       int64  `json:"received"`
	Acknowledged   int64  `json:"acknowledged"`
	AckFailures    int64  `json:"ack_failures"`
	ReceiveErrors  int64  `json:"receive_errors"`
}

// SinkResponse — сторона RabbitMQ.
type SinkResponse struct {
	Connected       bool   `json:"connected"`
	State           string `json:"state"`
	StartedAt       string `json:"started_at,omitempty"`
	LastSentAt      string `json:"last_sent_at,omitempty"`
	Published       int64  `json:"published"`
	PublishFailures int64  `json:"publish_failures"`
	Reconnects      int64  `json:"reconnects"`
}

// HealthResponse — результат проверок liveness и readiness.
type HealthResponse struct {
	Live   bool   `json:"live"`
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// ErrNotReady — relay жив, но не подключён к брокеру.
var ErrNotReady = errors.New("relay is not ready")

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для API статуса relay.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Status возвращает снимок счётчиков relay.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var status StatusResponse
	err := c.get(ctx, "/status", &status)
	return &status, err
}

// Health проверяет /healthz и /readyz.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/healthz")
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	health := &HealthResponse{Live: resp.StatusCode == http.StatusOK}
	if !health.Live {
		health.Reason = fmt.Sprintf("healthz: HTTP %d", resp.StatusCode)
		return health, nil
	}

	resp, err = c.do(ctx, http.MethodGet, "/readyz")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		health.Reason = err.Error()
		return health, nil
	}

	health.Ready = true
	return health, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(dr.Data, result)
}

func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error.Code == "" {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
