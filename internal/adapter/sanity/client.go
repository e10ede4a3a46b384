// Package sanity implements the document gateway over the hosted
// content lake HTTP API.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

const (
	defaultAPIVersion = "2023-05-03"
	defaultCDNHost    = "https://cdn.sanity.io"
	defaultTimeout    = 10 * time.Second

	maxErrorBody = 4 << 10
)

var ErrNullResult = errors.New("null query result")

type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	APIHost    string
	CDNHost    string
	Timeout    time.Duration
}

// An APIError is a non-2xx response of the content lake.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sanity: status %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}

type Client struct {
	http    *http.Client
	baseURL string
	dataset string
	token   string
	images  domain.ImageURLBuilder
}

type ClientOpt func(*Client)

func HTTPClientOpt(c *http.Client) ClientOpt {
	return func(cl *Client) {
		cl.http = c
	}
}

func NewClient(cfg Config, opts ...ClientOpt) (*Client, error) {
	const op = "sanity.NewClient"

	if cfg.ProjectID == "" || cfg.Dataset == "" {
		return nil, fmt.Errorf("%s: project id and dataset are required", op)
	}

	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}
	apiHost := cfg.APIHost
	if apiHost == "" {
		apiHost = "https://" + cfg.ProjectID + ".api.sanity.io"
	}
	cdnHost := cfg.CDNHost
	if cdnHost == "" {
		cdnHost = defaultCDNHost
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(apiHost, "/") + "/v" + strings.TrimPrefix(version, "v"),
		dataset: cfg.Dataset,
		token:   cfg.Token,
		images: domain.ImageURLBuilder{
			BaseURL: fmt.Sprintf(
				"%s/images/%s/%s",
				strings.TrimRight(cdnHost, "/"), cfg.ProjectID, cfg.Dataset,
			),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Images returns the builder of CDN image URLs for the dataset.
func (c *Client) Images() domain.ImageURLBuilder {
	return c.images
}

// query runs a GROQ query and decodes the result into out.
// Params are JSON encoded and passed as $name.
func (c *Client) query(
	ctx context.Context, groq string, params map[string]string, out any,
) error {
	const op = "Client.query"

	q := url.Values{}
	q.Set("query", groq)
	for k, v := range params {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		q.Set("$"+k, string(b))
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet,
		c.endpoint("data/query")+"?"+q.Encode(), nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := c.do(req, &resp); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(resp.Result) == 0 || bytes.Equal(resp.Result, []byte("null")) {
		return fmt.Errorf("%s: %w", op, ErrNullResult)
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type (
	mutation struct {
		Create *productWrite `json:"create,omitempty"`
		Patch  *patch        `json:"patch,omitempty"`
		Delete *deleteByID   `json:"delete,omitempty"`
	}

	patch struct {
		ID  string         `json:"id"`
		Set map[string]any `json:"set"`
	}

	deleteByID struct {
		ID string `json:"id"`
	}

	mutateResult struct {
		ID        string          `json:"id"`
		Operation string          `json:"operation"`
		Document  json.RawMessage `json:"document"`
	}
)

func (c *Client) mutate(
	ctx context.Context, mutations ...mutation,
) ([]mutateResult, error) {
	const op = "Client.mutate"

	body, err := json.Marshal(map[string][]mutation{"mutations": mutations})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.endpoint("data/mutate")+"?returnDocuments=true",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		TransactionID string         `json:"transactionId"`
		Results       []mutateResult `json:"results"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Results, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) endpoint(kind string) string {
	return c.baseURL + "/" + kind + "/" + url.PathEscape(c.dataset)
}
