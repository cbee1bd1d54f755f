package summarizer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RequestTimeout applies to every upstream call.
const RequestTimeout = 30 * time.Second

type Response struct {
	Status int
	Body   []byte
}

// Transport posts a JSON body and returns whatever status and body came
// back. Only failures below HTTP (DNS, timeouts, resets) are errors.
type Transport interface {
	Post(ctx context.Context, url string, headers map[string]string, body []byte) (*Response, error)
}

type HTTPTransport struct {
	client *http.Client
}

func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{
			Timeout:   RequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (t *HTTPTransport) Post(
	ctx context.Context,
	url string,
	headers map[string]string,
	body []byte,
) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{Status: resp.StatusCode, Body: respBody}, nil
}
