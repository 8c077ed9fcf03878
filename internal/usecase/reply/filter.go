package reply

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter rewrites replies in which the model defers to outside professional
// help. All patterns are joined into one case-insensitive alternation and
// applied in a single pass over the original text, so the redirect phrase is
// never scanned again. At a given position the earliest listed pattern wins.
//
// A match must end at a word boundary: the next rune, if any, may not be a
// letter, digit, underscore or hyphen. RE2 has no lookahead and its \b is
// ASCII-only, so the boundary rune is captured and written back.
type Filter struct {
	re       *regexp.Regexp
	template string
}

const tailGroup = "filtertail"

const tailPattern = `(?P<` + tailGroup + `>[^\p{L}\p{N}_\-]|$)`

func NewFilter(patterns []string, redirect string) (*Filter, error) {
	alts := make([]string, 0, len(patterns))
	for i, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, err := regexp.Compile(p); err != nil {
			return nil, fmt.Errorf("filter pattern %d: %w", i, err)
		}
		alts = append(alts, "(?:"+p+")")
	}

	f := &Filter{
		template: strings.ReplaceAll(redirect, "$", "$$") + "${" + tailGroup + "}",
	}
	if len(alts) == 0 {
		return f, nil
	}

	re, err := regexp.Compile("(?i)(?:" + strings.Join(alts, "|") + ")" + tailPattern)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	f.re = re
	return f, nil
}

func (f *Filter) Filter(text string) string {
	if f.re == nil {
		return text
	}
	return f.re.ReplaceAllString(text, f.template)
}
