package netmaker

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"

	"github.com/oriolrius/nmctl/pkg/log"
	"github.com/oriolrius/nmctl/pkg/metrics"
	"github.com/oriolrius/nmctl/pkg/types"
)

// DefaultTimeout bounds every API call unless Config.Timeout is set
const DefaultTimeout = 30 * time.Second

// Config holds the connection and credential parameters for one
// invocation. Constructed once, immutable, discarded after use.
type Config struct {
	// BaseURL is the Netmaker API server, e.g. https://api.netmaker.example.com
	BaseURL string

	// MasterKey is a static privileged bearer credential. When set it is
	// used directly and no login exchange happens.
	MasterKey string

	// Username and Password drive the login exchange when no master key
	// is supplied. Both must be present together.
	Username string
	Password string

	// ValidateCerts controls certificate chain verification. Disabling it
	// keeps TLS on the wire but skips verification; insecure, never the
	// default.
	ValidateCerts bool

	Timeout time.Duration
}

// Validate checks that the config is complete before any network I/O
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return &types.ValidationError{Reason: "base_url is required"}
	}
	if c.MasterKey == "" && (c.Username == "" || c.Password == "") {
		return &types.ValidationError{Reason: "either master_key or username and password must be provided"}
	}
	return nil
}

// Client executes authenticated HTTP calls against the Netmaker API.
// It holds no state beyond the resolved bearer token and is discarded
// after the invocation; nothing is cached across runs.
type Client struct {
	cfg        Config
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client from the given config. Credentials are not
// resolved yet; call Authenticate before issuing resource operations.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cleanhttp.DefaultClient()
	httpClient.Timeout = timeout

	if !cfg.ValidateCerts {
		transport := cleanhttp.DefaultTransport()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		httpClient.Transport = transport
	}

	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     log.WithComponent("netmaker"),
	}, nil
}

// do executes one API request and maps the response onto the error
// taxonomy: transport failures become ConnectivityError, 404 (and the
// legacy 500 "no result found" body) become ErrNotFound, any other
// non-2xx becomes APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.APIRequestDuration.WithLabelValues(method))

	url := c.baseURL + "/api" + path

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, "error").Inc()
		return &ConnectivityError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectivityError{URL: url, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusInternalServerError && serverMessage(data) == "no result found":
		// Older Netmaker servers report absence this way
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}

// serverMessage extracts the Message field Netmaker puts in error
// bodies, falling back to the raw body
func serverMessage(data []byte) string {
	var parsed struct {
		Message string `json:"Message"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(data))
}

// GetNetwork fetches a network by ID. Absence is reported as ErrNotFound.
func (c *Client) GetNetwork(ctx context.Context, netID string) (*types.Network, error) {
	var network types.Network
	if err := c.do(ctx, http.MethodGet, "/networks/"+netID, nil, &network); err != nil {
		return nil, err
	}
	return &network, nil
}

// ListNetworks lists all networks
func (c *Client) ListNetworks(ctx context.Context) ([]types.Network, error) {
	var networks []types.Network
	if err := c.do(ctx, http.MethodGet, "/networks", nil, &networks); err != nil {
		return nil, err
	}
	return networks, nil
}

// CreateNetwork creates a network and returns the server's canonical
// representation
func (c *Client) CreateNetwork(ctx context.Context, network *types.Network) (*types.Network, error) {
	var created types.Network
	if err := c.do(ctx, http.MethodPost, "/networks", network, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateNetwork replaces a network with the given representation
func (c *Client) UpdateNetwork(ctx context.Context, netID string, network *types.Network) (*types.Network, error) {
	var updated types.Network
	if err := c.do(ctx, http.MethodPut, "/networks/"+netID, network, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteNetwork deletes a network by ID
func (c *Client) DeleteNetwork(ctx context.Context, netID string) error {
	return c.do(ctx, http.MethodDelete, "/networks/"+netID, nil, nil)
}

// ListNodes lists the nodes belonging to a network
func (c *Client) ListNodes(ctx context.Context, netID string) ([]types.Node, error) {
	var nodes []types.Node
	if err := c.do(ctx, http.MethodGet, "/nodes/"+netID, nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// ListExtClients lists the external clients of a network. An absent or
// empty collection yields an empty slice, not an error.
func (c *Client) ListExtClients(ctx context.Context, netID string) ([]types.ExtClient, error) {
	var clients []types.ExtClient
	if err := c.do(ctx, http.MethodGet, "/extclients/"+netID, nil, &clients); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return clients, nil
}

// GetExtClient fetches one external client by ID. The API has no
// per-client endpoint, so this scans the network's client list.
// Absence is reported as ErrNotFound.
func (c *Client) GetExtClient(ctx context.Context, netID, clientID string) (*types.ExtClient, error) {
	clients, err := c.ListExtClients(ctx, netID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ClientID == clientID {
			return &clients[i], nil
		}
	}
	return nil, ErrNotFound
}

// CreateExtClient creates an external client behind the given ingress
// gateway. Some server versions return an empty body on creation, in
// which case nil is returned and the caller should re-fetch.
func (c *Client) CreateExtClient(ctx context.Context, netID, gatewayID string, client *types.ExtClient) (*types.ExtClient, error) {
	var created types.ExtClient
	if err := c.do(ctx, http.MethodPost, "/extclients/"+netID+"/"+gatewayID, client, &created); err != nil {
		return nil, err
	}
	if created.ClientID == "" {
		return nil, nil
	}
	return &created, nil
}

// UpdateExtClient replaces an external client with the given representation
func (c *Client) UpdateExtClient(ctx context.Context, netID, clientID string, client *types.ExtClient) (*types.ExtClient, error) {
	var updated types.ExtClient
	if err := c.do(ctx, http.MethodPut, "/extclients/"+netID+"/"+clientID, client, &updated); err != nil {
		return nil, err
	}
	if updated.ClientID == "" {
		return nil, nil
	}
	return &updated, nil
}

// DeleteExtClient deletes an external client
func (c *Client) DeleteExtClient(ctx context.Context, netID, clientID string) error {
	return c.do(ctx, http.MethodDelete, "/extclients/"+netID+"/"+clientID, nil, nil)
}
