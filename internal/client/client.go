// Package client issues single-attempt SOAP POST requests to a device and
// classifies transport-level outcomes.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pitabwire/sonoctl/model"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// Response is the raw outcome of a request that reached the device. An HTTP
// error status is not a transport failure: the body carries a structured
// fault and is handed to the fault parser by the caller.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client sends enveloped requests over HTTP. Exactly one attempt is made per
// call; retry policy, if any, belongs to the caller.
type Client struct {
	httpClient *http.Client
	log        *zap.Logger
}

// New creates a Client. The context deadline on Send bounds each request;
// the transport only pools connections.
func New(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		log: logger,
	}
}

// Send POSTs an envelope to http://host:port/endpoint with the SOAP content
// type and action header. Connection and DNS failures map to NETWORK_ERROR,
// an elapsed deadline to TIMEOUT.
func (c *Client) Send(ctx context.Context, host string, port int, endpoint, envelope, actionHeader string) (*Response, error) {
	url := fmt.Sprintf("http://%s/%s", net.JoinHostPort(host, fmt.Sprint(port)), strings.TrimPrefix(endpoint, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(envelope))
	if err != nil {
		return nil, model.NewNetworkError(err)
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPACTION", actionHeader)

	c.log.Debug("sending request",
		zap.String("url", url),
		zap.String("soapaction", actionHeader),
		zap.Int("envelope_bytes", len(envelope)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(ctx, host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classify(ctx, host, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// classify distinguishes an elapsed deadline from an unreachable target.
func classify(ctx context.Context, host string, err error) *model.CallError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return model.NewTimeoutError(host)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.NewTimeoutError(host)
	}
	return model.NewNetworkError(err)
}
