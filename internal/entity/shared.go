package entity

import "strings"

// Language is a natural language known to the application, keyed by its ISO 639-1 code.
type Language struct {
	Code              string `yaml:"code"`
	Name              string `yaml:"name"`
	NativeName        string `yaml:"native_name"`
	LearningAvailable bool   `yaml:"learning_available"`
	SortOrder         int    `yaml:"sort_order"`
}

// LanguageKind separates the languages a user speaks from the ones they learn.
type LanguageKind string

const (
	LanguageNative   LanguageKind = "native"
	LanguageLearning LanguageKind = "learning"
)

// WordType is a part-of-speech style label attached to words (noun, verb, ...).
type WordType struct {
	Name      string `yaml:"name"`
	SortOrder int    `yaml:"sort_order"`
}

// NormalizeText produces the comparison form used by natural keys.
func NormalizeText(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(trimmed)
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
