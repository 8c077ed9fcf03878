package completion

import "unicode/utf8"

// Budget sizes the output of a request so that input plus output stays
// inside the model's context window.
type Budget struct {
	ContextWindow int
	SafetyMargin  int
	Floor         int
	Ceiling       int
	CharsPerToken int
}

func DefaultBudget() Budget {
	return Budget{
		ContextWindow: 4096,
		SafetyMargin:  256,
		Floor:         256,
		Ceiling:       1024,
		CharsPerToken: 4,
	}
}

// EstimateTokens approximates the token count of messages from their
// character count, rounding up.
func (b Budget) EstimateTokens(messages []Message) int {
	perToken := b.CharsPerToken
	if perToken <= 0 {
		perToken = 4
	}

	chars := 0
	for _, m := range messages {
		chars += utf8.RuneCountInString(m.Content)
	}
	return (chars + perToken - 1) / perToken
}

// MaxTokens returns max(Floor, ContextWindow-estimate-SafetyMargin) clamped
// to Ceiling. When the floor alone overflows the window the floor still wins.
func (b Budget) MaxTokens(messages []Message) int {
	out := b.ContextWindow - b.EstimateTokens(messages) - b.SafetyMargin
	if out < b.Floor {
		out = b.Floor
	}
	if b.Ceiling > 0 && out > b.Ceiling {
		out = b.Ceiling
	}
	return out
}
