package summarizer

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"samenvatter/internal/domain"

	"github.com/tiktoken-go/tokenizer"
)

// Request is one outbound summary call.
type Request struct {
	Messages  []domain.Message
	WordLimit int
	ModelID   string
	APIKey    string
}

// Sender performs a single upstream call and returns the trimmed text.
type Sender interface {
	Send(ctx context.Context, req Request) (string, error)
}

// Gateway speaks both OpenAI dialects over a Transport.
type Gateway struct {
	baseURL   string
	transport Transport
	codec     tokenizer.Codec
	log       *slog.Logger
}

func NewGateway(baseURL string, transport Transport, log *slog.Logger) *Gateway {
	codec, err := tokenizer.Get(tokenizer.O200kBase)
	if err != nil {
		log.Warn("Failed to load tokenizer so prompt token counts are skipped",
			"error", err)
		codec = nil
	}

	return &Gateway{
		baseURL:   strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		transport: transport,
		codec:     codec,
		log:       log,
	}
}

func (g *Gateway) Send(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return "", ErrMissingAPIKey()
	}

	family := DetectFamily(req.ModelID)

	payload, err := buildPayload(family, req)
	if err != nil {
		return "", newError(KindInvalidInput, "encode request", err)
	}

	url := g.baseURL + family.Endpoint()

	g.log.DebugContext(ctx, "Sending summary request",
		"url", url,
		"family", family.String(),
		"modelID", req.ModelID,
		"wordLimit", req.WordLimit,
		"promptTokens", g.promptTokens(req.Messages))

	resp, err := g.transport.Post(ctx, url, map[string]string{
		"Authorization": "Bearer " + strings.TrimSpace(req.APIKey),
	}, payload)
	if err != nil {
		return "", newError(KindNetwork, "", err)
	}

	if resp.Status < 200 || resp.Status > 299 {
		apiErr := &Error{
			Kind:       KindAPI,
			HTTPStatus: resp.Status,
			Message:    upstreamMessage(resp.Body),
		}
		g.log.ErrorContext(ctx, "Summary request was rejected",
			"status", resp.Status,
			"modelID", req.ModelID,
			"message", apiErr.Message)

		return "", apiErr
	}

	text, err := extractText(family, resp.Body)
	if err != nil {
		g.log.ErrorContext(ctx, "Failed to extract summary from response",
			"error", err,
			"family", family.String(),
			"modelID", req.ModelID)

		return "", err
	}

	return strings.TrimSpace(text), nil
}

func (g *Gateway) promptTokens(messages []domain.Message) int {
	if g.codec == nil {
		return 0
	}

	total := 0
	for _, m := range messages {
		ids, _, err := g.codec.Encode(m.Content)
		if err != nil {
			return 0
		}
		total += len(ids)
	}

	return total
}

func buildPayload(family Family, req Request) ([]byte, error) {
	if family == FamilyResponses {
		return json.Marshal(responsesRequest{
			Model:           req.ModelID,
			Input:           req.Messages,
			MaxOutputTokens: maxOutputTokens,
			Reasoning:       reasoningParams{Effort: responsesEffort},
			Text:            textParams{Verbosity: responsesVerbosity},
			Store:           false,
		})
	}

	return json.Marshal(chatCompletionRequest{
		Model:       req.ModelID,
		Messages:    req.Messages,
		MaxTokens:   maxOutputTokens,
		Temperature: chatTemperature,
	})
}

func extractText(family Family, body []byte) (string, error) {
	if family == FamilyResponses {
		return extractResponsesText(body)
	}

	return extractChatText(body)
}

func extractChatText(body []byte) (string, error) {
	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", newError(KindInvalidResponse, "decode chat completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return "", newError(KindInvalidResponse, "choices[0].message.content is missing", nil)
	}

	return *resp.Choices[0].Message.Content, nil
}

func extractResponsesText(body []byte) (string, error) {
	var resp responsesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", newError(KindInvalidResponse, "decode response", err)
	}

	if resp.OutputText != nil && strings.TrimSpace(*resp.OutputText) != "" {
		return *resp.OutputText, nil
	}

	for _, item := range resp.Output {
		if item.Type != responsesMessageType {
			continue
		}

		for _, part := range item.Content {
			if part.Type == responsesOutputText && part.Text != nil {
				return *part.Text, nil
			}
		}
	}

	return "", newError(KindInvalidResponse, "output text is missing", nil)
}

func upstreamMessage(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == nil {
		return ""
	}

	return resp.Error.Message
}

var _ Sender = (*Gateway)(nil)
