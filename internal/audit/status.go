package audit

// Status is the editorial state of a summary.
type Status int

const (
	StatusFullyHuman Status = iota
	StatusAIUnedited
	StatusAIEdited
)

func (s Status) String() string {
	switch s {
	case StatusAIUnedited:
		return "ai_unedited"
	case StatusAIEdited:
		return "ai_edited"
	default:
		return "fully_human"
	}
}

func (s Status) Label() string {
	switch s {
	case StatusAIUnedited:
		return "AI, niet bewerkt"
	case StatusAIEdited:
		return "AI, bewerkt"
	default:
		return "Volledig menselijk"
	}
}

func (s Status) CSSClass() string {
	switch s {
	case StatusAIUnedited:
		return "status-ai-unedited"
	case StatusAIEdited:
		return "status-ai-edited"
	default:
		return "status-human"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
