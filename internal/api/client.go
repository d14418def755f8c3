package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// ErrMalformedResponse is returned when a response body is not the expected JSON.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("request failed: %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("request failed: %s", e.Status)
}

// Client is a thin HTTP client for the Meshview API. Every call is a single
// GET attempt; there are no retries.
type Client struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

// NewClient creates a client for the given base URL (e.g. https://host/api).
func NewClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Nodes lists nodes seen within the last daysActive days.
func (c *Client) Nodes(ctx context.Context, daysActive int) ([]Node, error) {
	var resp NodesResponse
	params := url.Values{}
	if daysActive > 0 {
		params.Set("days_active", strconv.Itoa(daysActive))
	}
	if err := c.GetJSON(ctx, "/nodes", params, &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

// Packets lists packets sent by one node on one port.
func (c *Client) Packets(ctx context.Context, q PacketQuery) ([]Packet, error) {
	var resp PacketsResponse
	params := url.Values{}
	params.Set("port_num", strconv.Itoa(q.PortNum))
	params.Set("from_node_id", strconv.FormatInt(q.FromNodeID, 10))
	params.Set("length", strconv.Itoa(q.Length))
	if err := c.GetJSON(ctx, "/packets", params, &resp); err != nil {
		return nil, err
	}
	return resp.Packets, nil
}

// Stats fetches packet counts bucketed by periodType ("hour", "day").
func (c *Client) Stats(ctx context.Context, periodType string, length int) ([]StatBucket, error) {
	var resp StatsResponse
	params := url.Values{}
	params.Set("period_type", periodType)
	params.Set("length", strconv.Itoa(length))
	if err := c.GetJSON(ctx, "/stats", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetJSON issues one GET to baseURL+path and decodes the body into out.
// A body that does not decode wraps ErrMalformedResponse.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	defer res.Body.Close()

	c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   res.StatusCode,
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Debug("api request")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{
			Code:   res.StatusCode,
			Status: res.Status,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	return Decode(res.Body, out)
}

// Decode reads all of r and unmarshals it into out. A read failure is a
// transport error; only a body that is not a single JSON document of the
// expected shape wraps ErrMalformedResponse.
func Decode(r io.Reader, out any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if err := json.Unmarshal(body, out); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var valueErr *json.UnsupportedValueError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &valueErr) {
			return errors.Wrapf(ErrMalformedResponse, "%v", err)
		}
		return errors.Wrap(err, "decode response")
	}
	return nil
}
