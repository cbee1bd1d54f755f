package summarizer

import "samenvatter/internal/domain"

const (
	maxOutputTokens       = 2048
	chatTemperature       = 0.7
	responsesEffort       = "low"
	responsesVerbosity    = "medium"
	responsesMessageType  = "message"
	responsesOutputText   = "output_text"
)

type chatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []domain.Message `json:"messages"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float64          `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message struct {
		Content *string `json:"content"`
	} `json:"message"`
}

type responsesRequest struct {
	Model           string           `json:"model"`
	Input           []domain.Message `json:"input"`
	MaxOutputTokens int              `json:"max_output_tokens"`
	Reasoning       reasoningParams  `json:"reasoning"`
	Text            textParams       `json:"text"`
	Store           bool             `json:"store"`
}

type reasoningParams struct {
	Effort string `json:"effort"`
}

type textParams struct {
	Verbosity string `json:"verbosity"`
}

type responsesResponse struct {
	OutputText *string              `json:"output_text"`
	Output     []responsesOutputItem `json:"output"`
}

type responsesOutputItem struct {
	Type    string                 `json:"type"`
	Content []responsesContentPart `json:"content"`
}

type responsesContentPart struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
