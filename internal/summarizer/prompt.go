package summarizer

import (
	"errors"
	"fmt"
	"strings"

	"samenvatter/internal/domain"
)

const wordLimitPlaceholder = "%d"

const DefaultSystemPromptTemplate = `Je bent eindredacteur van een nieuwswebsite. Schrijf een beknopte samenvatting van het artikel in het Nederlands.

Regels:
- Gebruik korte, heldere zinnen, maar vermijd telegramstijl.
- Gebruik geen gedachtestreepjes of opsommingstekens.
- Noem alleen de kern en de belangrijkste context (wie, wat, waar, wanneer).
- De samenvatting telt maximaal %d woorden. Dit is een harde grens.`

func ValidateTemplate(template string) error {
	if strings.Count(template, wordLimitPlaceholder) != 1 {
		return errors.New("template must contain exactly one %d placeholder")
	}

	if strings.Count(template, "%") != 1 {
		return errors.New("template must not contain other format verbs")
	}

	return nil
}

type PromptBuilder struct {
	template string
}

func NewPromptBuilder(template string) *PromptBuilder {
	if strings.TrimSpace(template) == "" {
		template = DefaultSystemPromptTemplate
	}

	return &PromptBuilder{template: template}
}

// Build returns the system message followed by the user message. The
// content is passed through untouched.
func (b *PromptBuilder) Build(content string, wordLimit int) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: b.SystemPrompt(wordLimit)},
		{Role: domain.RoleUser, Content: content},
	}
}

func (b *PromptBuilder) SystemPrompt(wordLimit int) string {
	return fmt.Sprintf(b.template, wordLimit)
}
