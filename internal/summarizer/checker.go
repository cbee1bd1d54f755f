package summarizer

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Checker verifies an API key and model id against the models endpoint.
type Checker struct {
	baseURL    string
	httpClient *http.Client
}

func NewChecker(baseURL string, httpClient *http.Client) *Checker {
	baseURL = strings.TrimSpace(baseURL)
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: RequestTimeout}
	}

	return &Checker{baseURL: baseURL, httpClient: httpClient}
}

// Check returns the id of the model the API resolved modelID to.
func (c *Checker) Check(ctx context.Context, apiKey, modelID string) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", ErrMissingAPIKey()
	}

	if err := ValidateModelID(modelID); err != nil {
		return "", ErrInvalidInput(err.Error())
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(c.baseURL),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(RequestTimeout),
	)

	model, err := client.Models.Get(ctx, strings.TrimSpace(modelID))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &Error{Kind: KindAPI, HTTPStatus: apiErr.StatusCode, Err: err}
		}

		return "", newError(KindNetwork, "", err)
	}

	return model.ID, nil
}
