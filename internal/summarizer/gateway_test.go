package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"samenvatter/internal/domain"
)

type recordingTransport struct {
	mu      sync.Mutex
	calls   int
	url     string
	headers map[string]string
	body    []byte
	resp    *Response
	err     error
}

func (t *recordingTransport) Post(
	_ context.Context,
	url string,
	headers map[string]string,
	body []byte,
) (*Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	t.url = url
	t.headers = headers
	t.body = body

	return t.resp, t.err
}

func testMessages() []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: "Maximaal 100 woorden."},
		{Role: domain.RoleUser, Content: "Artikeltekst"},
	}
}

func testRequest(modelID string) Request {
	return Request{
		Messages:  testMessages(),
		WordLimit: 100,
		ModelID:   modelID,
		APIKey:    "sk-test",
	}
}

func newTestGateway(transport Transport) *Gateway {
	return NewGateway("https://api.example.com/v1/", transport, slog.New(slog.DiscardHandler))
}

func TestGatewayMissingAPIKeySkipsNetwork(t *testing.T) {
	transport := &recordingTransport{}
	g := newTestGateway(transport)

	req := testRequest("gpt-4.1")
	req.APIKey = "  "

	_, err := g.Send(context.Background(), req)
	if KindOf(err) != KindMissingConfig {
		t.Fatalf("expected missing config error, got %v", err)
	}

	if transport.calls != 0 {
		t.Fatalf("expected no network call, got %d", transport.calls)
	}
}

func TestGatewayChatCompletionsShape(t *testing.T) {
	transport := &recordingTransport{resp: &Response{
		Status: http.StatusOK,
		Body:   []byte(`{"choices":[{"message":{"role":"assistant","content":"  Een samenvatting.  "}}]}`),
	}}
	g := newTestGateway(transport)

	text, err := g.Send(context.Background(), testRequest("ft:gpt-4.1:org:suffix:abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "Een samenvatting." {
		t.Fatalf("expected trimmed text, got %q", text)
	}

	if transport.url != "https://api.example.com/v1/chat/completions" {
		t.Fatalf("unexpected url: %q", transport.url)
	}

	if transport.headers["Authorization"] != "Bearer sk-test" {
		t.Fatalf("unexpected authorization header: %q", transport.headers["Authorization"])
	}

	var body map[string]any
	if err = json.Unmarshal(transport.body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body["model"] != "ft:gpt-4.1:org:suffix:abc" {
		t.Fatalf("unexpected model: %v", body["model"])
	}
	if body["max_tokens"] != float64(2048) {
		t.Fatalf("unexpected max_tokens: %v", body["max_tokens"])
	}
	if body["temperature"] != 0.7 {
		t.Fatalf("unexpected temperature: %v", body["temperature"])
	}

	messages, ok := body["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("unexpected messages: %v", body["messages"])
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" {
		t.Fatalf("expected system message first, got %v", first)
	}
}

func TestGatewayResponsesShape(t *testing.T) {
	transport := &recordingTransport{resp: &Response{
		Status: http.StatusOK,
		Body:   []byte(`{"output_text":"Kort en bondig."}`),
	}}
	g := newTestGateway(transport)

	text, err := g.Send(context.Background(), testRequest("gpt-5.1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "Kort en bondig." {
		t.Fatalf("unexpected text: %q", text)
	}

	if transport.url != "https://api.example.com/v1/responses" {
		t.Fatalf("unexpected url: %q", transport.url)
	}

	var body map[string]any
	if err = json.Unmarshal(transport.body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if _, ok := body["temperature"]; ok {
		t.Fatalf("responses request must not carry temperature")
	}
	if _, ok := body["messages"]; ok {
		t.Fatalf("responses request must use input instead of messages")
	}
	if body["max_output_tokens"] != float64(2048) {
		t.Fatalf("unexpected max_output_tokens: %v", body["max_output_tokens"])
	}
	if body["store"] != false {
		t.Fatalf("expected store=false, got %v", body["store"])
	}

	reasoning, _ := body["reasoning"].(map[string]any)
	if reasoning["effort"] != "low" {
		t.Fatalf("unexpected reasoning: %v", body["reasoning"])
	}

	textParams, _ := body["text"].(map[string]any)
	if textParams["verbosity"] != "medium" {
		t.Fatalf("unexpected text params: %v", body["text"])
	}

	input, ok := body["input"].([]any)
	if !ok || len(input) != 2 {
		t.Fatalf("unexpected input: %v", body["input"])
	}
}

func TestGatewayResponsesScansOutputItems(t *testing.T) {
	body := `{
		"output": [
			{"type": "reasoning", "content": [{"type": "output_text", "text": "niet dit"}]},
			{"type": "message", "content": [
				{"type": "refusal"},
				{"type": "output_text", "text": " Wel dit. "}
			]}
		]
	}`
	g := newTestGateway(&recordingTransport{resp: &Response{Status: http.StatusOK, Body: []byte(body)}})

	text, err := g.Send(context.Background(), testRequest("gpt-5-mini"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "Wel dit." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestGatewayInvalidResponses(t *testing.T) {
	cases := []struct {
		name    string
		modelID string
		body    string
	}{
		{"malformed chat", "gpt-4.1", `{"choices":`},
		{"no choices", "gpt-4.1", `{"choices":[]}`},
		{"null content", "gpt-4.1", `{"choices":[{"message":{"content":null}}]}`},
		{"malformed responses", "gpt-5.1", `not json`},
		{"no output text", "gpt-5.1", `{"output":[{"type":"message","content":[{"type":"refusal"}]}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGateway(&recordingTransport{resp: &Response{Status: http.StatusOK, Body: []byte(tc.body)}})

			_, err := g.Send(context.Background(), testRequest(tc.modelID))
			if KindOf(err) != KindInvalidResponse {
				t.Fatalf("expected invalid response, got %v", err)
			}
		})
	}
}

func TestGatewayNon2xxCarriesStatus(t *testing.T) {
	transport := &recordingTransport{resp: &Response{
		Status: http.StatusUnauthorized,
		Body:   []byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`),
	}}
	g := newTestGateway(transport)

	_, err := g.Send(context.Background(), testRequest("gpt-4.1"))

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}

	if apiErr.Kind != KindAPI || apiErr.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("unexpected error: %+v", apiErr)
	}

	if apiErr.Message != "Incorrect API key provided" {
		t.Fatalf("expected upstream message, got %q", apiErr.Message)
	}

	if UserMessage(err) != "Ongeldige API-sleutel." {
		t.Fatalf("unexpected user message: %q", UserMessage(err))
	}
}

func TestGatewayNetworkError(t *testing.T) {
	transport := &recordingTransport{err: errors.New("dial tcp: lookup api.example.com: no such host")}
	g := newTestGateway(transport)

	_, err := g.Send(context.Background(), testRequest("gpt-4.1"))
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}

	if !errors.Is(err, transport.err) {
		t.Fatalf("expected underlying error to be wrapped")
	}
}

func TestHTTPTransportAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}

		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "bad content type", http.StatusBadRequest)
			return
		}

		body, _ := io.ReadAll(r.Body)
		var req chatCompletionRequest
		if err := json.Unmarshal(body, &req); err != nil || req.Model != "gpt-4.1" {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Tekst van de server."}}]}`))
	}))
	defer srv.Close()

	g := NewGateway(srv.URL+"/v1", NewHTTPTransport(), slog.New(slog.DiscardHandler))

	text, err := g.Send(context.Background(), testRequest("gpt-4.1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "Tekst van de server." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestHTTPTransportConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewGateway(url, NewHTTPTransport(), slog.New(slog.DiscardHandler))

	_, err := g.Send(context.Background(), testRequest("gpt-4.1"))
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}
