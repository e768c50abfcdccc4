package ado

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

	"qemcp/internal/api"
	"qemcp/pkg/logging"
)

const (
	// DefaultAPIVersion is sent when Options leaves APIVersion empty.
	DefaultAPIVersion = "7.1"

	defaultTimeout = 30 * time.Second

	contentTypeJSON      = "application/json"
	contentTypeJSONPatch = "application/json-patch+json"

	continuationHeader = "x-ms-continuationtoken"
)

// Options configures a Client.
type Options struct {
	OrganizationURL string
	Project         string
	APIVersion      string
	AuthType        AuthType
	Token           string
	Timeout         time.Duration

	// Transport replaces http.DefaultTransport under the auth layer.
	Transport http.RoundTripper
}

// Client talks to the Azure DevOps REST API of one project.
type Client struct {
	httpClient *http.Client
	orgURL     string
	project    string
	apiVersion string
}

var _ api.Backend = (*Client)(nil)
var _ api.ProjectScoper = (*Client)(nil)

// NewClient creates a client from opts.
func NewClient(opts Options) (*Client, error) {
	orgURL := strings.TrimSuffix(strings.TrimSpace(opts.OrganizationURL), "/")
	if orgURL == "" {
		return nil, fmt.Errorf("organization URL is required")
	}
	if _, err := url.ParseRequestURI(orgURL); err != nil {
		return nil, fmt.Errorf("invalid organization URL: %w", err)
	}
	if strings.TrimSpace(opts.Project) == "" {
		return nil, fmt.Errorf("project is required")
	}

	transport, err := authTransport(opts.AuthType, opts.Token, opts.Transport)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		orgURL:     orgURL,
		project:    opts.Project,
		apiVersion: apiVersion,
	}, nil
}

// Project returns the project the client is scoped to.
func (c *Client) Project() string {
	return c.project
}

// ForProject returns a client for another project of the same
// organization, sharing the HTTP client.
func (c *Client) ForProject(project string) api.Backend {
	if project == "" || project == c.project {
		return c
	}
	scoped := *c
	scoped.project = project
	return &scoped
}

// endpoint builds the URL of a project-level API path.
func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", c.apiVersion)
	return fmt.Sprintf("%s/%s/_apis/%s?%s", c.orgURL, url.PathEscape(c.project), path, query.Encode())
}

// errorBody is the error document Azure DevOps returns.
type errorBody struct {
	Message string `json:"message"`
	TypeKey string `json:"typeKey"`
}

// do sends a request and decodes a JSON response into out when out is not
// nil. It returns the response headers.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, in, out interface{}) (http.Header, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if in != nil {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	logging.Debug("ADO", "%s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp.StatusCode, method, path, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
		}
	}
	return resp.Header, nil
}

func responseError(status int, method, path string, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		return api.NewServiceError(status, eb.Message)
	}
	return api.NewServiceError(status, fmt.Sprintf("%s %s returned %d %s", method, path, status, http.StatusText(status)))
}
