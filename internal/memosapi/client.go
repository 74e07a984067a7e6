// Package memosapi fetches memo records from a live Memos instance.
// Pages are fetched sequentially: the server hands out a cursor token
// per page, and the caller gets incremental progress between pages.
package memosapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/rotehq/notebridge/internal/model"
)

const (
	defaultPageSize = 50
	defaultTimeout  = 30 * time.Second
)

// Distinguishable fetch failures. Any of them aborts the whole fetch;
// there is no partial-page retry.
var (
	ErrAuthFailed = errors.New("memos api: authentication failed, check the access token")
	ErrForbidden  = errors.New("memos api: permission denied, the token may lack scope")
	ErrNotFound   = errors.New("memos api: endpoint not found, check the instance address")
)

// Progress reports fetch state after each page. Total stays nil until
// the last page reveals the final count.
type Progress struct {
	Current int    `json:"current"`
	Total   *int   `json:"total"`
	Message string `json:"message"`
}

type ProgressFunc func(Progress)

type Client struct {
	baseURL  string
	token    string
	client   *http.Client
	pageSize int
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		client:   &http.Client{Timeout: timeout},
		pageSize: defaultPageSize,
	}
}

// FetchAll pages through /api/v1/memos until the server returns an
// empty nextPageToken and concatenates the records in page order.
func (c *Client) FetchAll(ctx context.Context, onProgress ProgressFunc) (*model.MemoSource, error) {
	report := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}
	report(Progress{Message: "connecting to Memos instance"})

	all := make([]model.Memo, 0)
	pageToken := ""
	page := 0
	for {
		page++
		report(Progress{Current: len(all), Message: fmt.Sprintf("fetching page %d", page)})

		pageData, err := c.fetchPage(ctx, pageToken)
		if err != nil {
			return nil, err
		}
		all = append(all, pageData.Memos...)
		pageToken = pageData.NextPageToken

		logutil.GetLogger(ctx).Debug("memos page fetched",
			zap.Int("page", page),
			zap.Int("records", len(all)),
			zap.Bool("more", pageToken != ""),
		)
		report(Progress{Current: len(all), Message: fmt.Sprintf("fetched %d records", len(all))})
		if pageToken == "" {
			break
		}
	}

	total := len(all)
	report(Progress{Current: total, Total: &total, Message: fmt.Sprintf("fetch complete, %d records", total)})
	return &model.MemoSource{Memos: all}, nil
}

// Validate probes the instance with a single-record request and
// reports whether the address and token are usable.
func (c *Client) Validate(ctx context.Context) bool {
	req, err := c.newRequest(ctx, "1", "")
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer drainBody(resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (c *Client) fetchPage(ctx context.Context, pageToken string) (*model.MemoSource, error) {
	req, err := c.newRequest(ctx, strconv.Itoa(c.pageSize), pageToken)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("memos api: request failed: %w", err)
	}
	defer drainBody(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrAuthFailed
	case http.StatusForbidden:
		return nil, ErrForbidden
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("memos api: unexpected status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var pageData model.MemoSource
	if err := json.NewDecoder(resp.Body).Decode(&pageData); err != nil {
		return nil, fmt.Errorf("memos api: decode response: %w", err)
	}
	if pageData.Memos == nil {
		return nil, fmt.Errorf("memos api: response carries no memos list")
	}
	return &pageData, nil
}

func (c *Client) newRequest(ctx context.Context, pageSize, pageToken string) (*http.Request, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/v1/memos")
	if err != nil {
		return nil, fmt.Errorf("memos api: invalid base url: %w", err)
	}
	query := endpoint.Query()
	query.Set("pageSize", pageSize)
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func drainBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
