package summarizer

import (
	"errors"
	"strings"
)

// Family is the request/response dialect a model speaks.
type Family int

const (
	FamilyChatCompletions Family = iota
	FamilyResponses
)

const (
	fineTunedPrefix      = "ft:"
	responsesModelPrefix = "gpt-5"
)

func (f Family) String() string {
	if f == FamilyResponses {
		return "responses"
	}

	return "chat_completions"
}

// Endpoint is the path relative to the API base URL.
func (f Family) Endpoint() string {
	if f == FamilyResponses {
		return "/responses"
	}

	return "/chat/completions"
}

func IsFineTuned(modelID string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(modelID)), fineTunedPrefix)
}

// BaseModelID reduces "ft:<base>:<org>:<suffix>:<id>" to "<base>".
func BaseModelID(modelID string) string {
	modelID = strings.TrimSpace(modelID)
	if !IsFineTuned(modelID) {
		return modelID
	}

	rest := modelID[len(fineTunedPrefix):]
	base, _, _ := strings.Cut(rest, ":")

	return base
}

func DetectFamily(modelID string) Family {
	base := strings.ToLower(BaseModelID(modelID))
	if strings.HasPrefix(base, responsesModelPrefix) {
		return FamilyResponses
	}

	return FamilyChatCompletions
}

func ValidateModelID(modelID string) error {
	if strings.TrimSpace(modelID) == "" {
		return errors.New("model id is empty")
	}

	if IsFineTuned(modelID) {
		if BaseModelID(modelID) == "" {
			return errors.New("fine-tuned model id has no base model")
		}
		if DetectFamily(modelID) == FamilyResponses {
			return errors.New("GPT-5 models are not fine-tunable")
		}
	}

	return nil
}
