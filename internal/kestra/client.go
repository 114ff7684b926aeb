// Package kestra provides a read-only client for the Kestra REST API.
package kestra

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/codebypatrickleung/kestraform-cli/internal/logger"
)

// ErrConnection indicates the Kestra instance could not be reached or
// rejected the configured credentials.
var ErrConnection = errors.New("kestra instance unreachable")

// searchPageSize is the page size used for paginated search endpoints.
const searchPageSize = 100

// Credentials holds the authentication material for a Kestra instance.
// APIToken takes precedence over Username/Password when both are set.
type Credentials struct {
	Username string
	Password string
	APIToken string
}

// Client is a read-only HTTP client for a single Kestra tenant.
type Client struct {
	baseURL    string
	tenant     string
	creds      Credentials
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new Kestra API client.
func NewClient(baseURL, tenant string, creds Credentials, insecureSkipVerify bool, log *logger.Logger) *Client {
	httpClient := &http.Client{}
	if insecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tenant:     tenant,
		creds:      creds,
		httpClient: httpClient,
		logger:     log,
	}
}

// get performs a GET request against /api/v1/{tenant}{path} and returns the
// response body. Non-2xx responses are returned as errors with a body snippet.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := fmt.Sprintf("%s/api/v1/%s%s", c.baseURL, url.PathEscape(c.tenant), path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	if c.creds.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.creds.APIToken)
	} else if c.creds.Username != "" {
		req.SetBasicAuth(c.creds.Username, c.creds.Password)
	}

	c.logger.Debugf("GET %s", u)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, u, bodySnippet(body))
	}
	return body, nil
}

// bodySnippet truncates an error response body for log-friendly messages.
func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		s = "(empty body)"
	}
	return s
}

// Ping checks that the instance is reachable and the credentials are
// accepted. Any failure is wrapped in ErrConnection.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.searchNamespacesPage(ctx, 1, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

func (c *Client) searchNamespacesPage(ctx context.Context, page, size int) (*namespacePage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	query.Set("existing", "false")

	body, err := c.get(ctx, "/namespaces/search", query)
	if err != nil {
		return nil, err
	}

	var result namespacePage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unexpected namespace search response: %w", err)
	}
	return &result, nil
}

// SearchNamespaces returns all namespaces of the tenant in the order the API
// returns them, paging until a short page is received.
func (c *Client) SearchNamespaces(ctx context.Context) ([]Namespace, error) {
	var namespaces []Namespace
	page := 1
	for {
		result, err := c.searchNamespacesPage(ctx, page, searchPageSize)
		if err != nil {
			return nil, err
		}
		if len(result.Results) == 0 {
			break
		}
		for _, ns := range result.Results {
			if ns.ID == "" {
				return nil, fmt.Errorf("unexpected namespace search response: entry without id on page %d", page)
			}
			namespaces = append(namespaces, ns)
		}
		if len(result.Results) < searchPageSize {
			break
		}
		page++
	}
	return namespaces, nil
}

// ListFlows returns the flows of a namespace in API order.
func (c *Client) ListFlows(ctx context.Context, namespace string) ([]Flow, error) {
	body, err := c.get(ctx, "/flows/"+url.PathEscape(namespace), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows for namespace '%s': %w", namespace, err)
	}

	var flows []Flow
	if err := json.Unmarshal(body, &flows); err != nil {
		return nil, fmt.Errorf("unexpected flow listing response for namespace '%s': %w", namespace, err)
	}
	return flows, nil
}

// ListNamespaceFiles returns the file paths stored for a namespace, walking
// directory entries recursively. Paths are relative to the namespace root.
func (c *Client) ListNamespaceFiles(ctx context.Context, namespace string) ([]string, error) {
	return c.walkNamespaceFiles(ctx, namespace, "")
}

func (c *Client) walkNamespaceFiles(ctx context.Context, namespace, dir string) ([]string, error) {
	query := url.Values{}
	if dir != "" {
		query.Set("path", dir)
	}

	body, err := c.get(ctx, fmt.Sprintf("/namespaces/%s/files/directory", url.PathEscape(namespace)), query)
	if err != nil {
		return nil, fmt.Errorf("failed to list files for namespace '%s': %w", namespace, err)
	}

	var entries []FileEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("unexpected file listing response for namespace '%s': %w", namespace, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.FileName == "" {
			continue
		}
		path := entry.FileName
		if dir != "" {
			path = dir + "/" + entry.FileName
		}
		if entry.Type == FileTypeDirectory {
			children, err := c.walkNamespaceFiles(ctx, namespace, path)
			if err != nil {
				return nil, err
			}
			paths = append(paths, children...)
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// GetNamespaceFile returns the raw content of a namespace file.
func (c *Client) GetNamespaceFile(ctx context.Context, namespace, path string) ([]byte, error) {
	query := url.Values{}
	query.Set("path", path)

	body, err := c.get(ctx, fmt.Sprintf("/namespaces/%s/files", url.PathEscape(namespace)), query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file '%s' in namespace '%s': %w", path, namespace, err)
	}
	return body, nil
}

// ExportFlowsZip returns a ZIP archive of all flow sources in the tenant.
func (c *Client) ExportFlowsZip(ctx context.Context) ([]byte, error) {
	body, err := c.get(ctx, "/flows/export/by-query", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to export flow sources: %w", err)
	}
	return body, nil
}
