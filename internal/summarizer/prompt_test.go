package summarizer_test

import (
	"strings"
	"testing"

	"samenvatter/internal/domain"
	"samenvatter/internal/summarizer"
)

func TestPromptBuilderBuild(t *testing.T) {
	builder := summarizer.NewPromptBuilder("Maximaal %d woorden.")
	content := "  Tekst met  spaties blijft gelijk.  "

	messages := builder.Build(content, 120)

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	if messages[0].Role != domain.RoleSystem || messages[0].Content != "Maximaal 120 woorden." {
		t.Fatalf("unexpected system message: %+v", messages[0])
	}

	if messages[1].Role != domain.RoleUser || messages[1].Content != content {
		t.Fatalf("unexpected user message: %+v", messages[1])
	}
}

func TestPromptBuilderDefaultTemplate(t *testing.T) {
	builder := summarizer.NewPromptBuilder("  ")

	system := builder.SystemPrompt(200)
	if !strings.Contains(system, "maximaal 200 woorden") {
		t.Fatalf("expected word limit in default prompt, got %q", system)
	}

	if err := summarizer.ValidateTemplate(summarizer.DefaultSystemPromptTemplate); err != nil {
		t.Fatalf("default template must be valid: %v", err)
	}
}

func TestValidateTemplate(t *testing.T) {
	invalid := []string{"", "geen plaatshouder", "%d en %d", "%d en %s", "100%% en %d"}

	for _, tmpl := range invalid {
		if err := summarizer.ValidateTemplate(tmpl); err == nil {
			t.Fatalf("expected %q to be rejected", tmpl)
		}
	}
}
