package analytics

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

	"github.com/google/uuid"

	"excesoluz/pkg/config"
	"excesoluz/pkg/errors"
	"excesoluz/pkg/logger"
)

// DefaultBaseURL is the public Firestore REST endpoint
const DefaultBaseURL = "https://firestore.googleapis.com/v1"

// Client creates documents through the Firestore REST API
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	projectID  string
	apiKey     string
	logger     logger.Logger
	newID      func() string
}

// NewClient creates a client for the project in cfg
func NewClient(cfg config.AnalyticsConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		projectID: cfg.ProjectID,
		apiKey:    cfg.APIKey,
		logger:    log,
		newID:     uuid.NewString,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// documentsURL builds the collection URL for a new document
func (c *Client) documentsURL(collection, documentID string) string {
	u := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/%s",
		c.baseURL, url.PathEscape(c.projectID), url.PathEscape(collection))

	q := url.Values{}
	if documentID != "" {
		q.Set("documentId", documentID)
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"path":   req.URL.Path,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"path":     req.URL.Path,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Op:      "firestore",
			Message: "request failed",
			Err:     err,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"path":     req.URL.Path,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// checkResponseStatus maps a non-2xx response to a typed error, using the
// API's error message when the body carries one
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := fmt.Sprintf("unexpected status code: %d", resp.StatusCode)

	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
		if apiErr.Error.Status != "" {
			message = apiErr.Error.Status + ": " + message
		}
	}

	fields := map[string]interface{}{
		"status": resp.StatusCode,
		"path":   resp.Request.URL.Path,
	}
	if resp.StatusCode >= 500 {
		c.logger.ErrorWithFields("server error", fields)
	} else {
		c.logger.WarnWithFields("request rejected", fields)
	}

	return &errors.Error{
		Type:    errors.StatusType(resp.StatusCode),
		Op:      "firestore",
		Message: message,
		Code:    resp.StatusCode,
	}
}

// CreateDocument adds a document with a generated id to collection and
// returns the stored document.
func (c *Client) CreateDocument(ctx context.Context, collection string, fields map[string]Value) (*Document, error) {
	if c.projectID == "" {
		return nil, errors.New(errors.ErrorTypeInvalidInput, "firestore", "project id is required")
	}

	payload, err := json.Marshal(Document{Fields: fields})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeUnknown, "firestore", collection)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.documentsURL(collection, c.newID()), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeUnknown, "firestore", collection)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Op:      "firestore",
			Message: "failed to read response body",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Op:      "firestore",
			Message: "failed to parse JSON",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	return &doc, nil
}
