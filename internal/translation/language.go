package translation

import (
	"fmt"
	"strings"
)

// Language is a translation target
type Language int

const (
	Chinese Language = iota
	English
)

// Languages lists the selectable targets in display order
var Languages = []Language{Chinese, English}

// String returns the name used in the prompt and in the language selector
func (l Language) String() string {
	switch l {
	case English:
		return "英文"
	default:
		return "中文"
	}
}

// Code returns the short code used on the command line and in the history
func (l Language) Code() string {
	switch l {
	case English:
		return "en"
	default:
		return "zh"
	}
}

// ParseLanguage accepts a language code, an English name or the display name
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "cn", "chinese", "中文":
		return Chinese, nil
	case "en", "english", "英文":
		return English, nil
	default:
		return Chinese, fmt.Errorf("unknown target language %q (use zh or en)", s)
	}
}

// LanguageNames returns the display names of all targets
func LanguageNames() []string {
	names := make([]string, 0, len(Languages))
	for _, l := range Languages {
		names = append(names, l.String())
	}
	return names
}
