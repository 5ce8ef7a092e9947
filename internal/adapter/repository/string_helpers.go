package repository

import (
	"strings"

	"github.com/samber/lo"
)

// lowerSet trims and lowercases values for IN filters, dropping blanks and repeats.
func lowerSet(values []string) []string {
	out := lo.Uniq(lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = strings.ToLower(strings.TrimSpace(v))
		return v, v != ""
	}))
	if len(out) == 0 {
		return nil
	}
	return out
}
