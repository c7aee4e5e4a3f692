package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHeaders делает повторяющиеся заголовки уникальными: второй
// "Year 1" становится "Year 1__2", третий "Year 1__3".
func NormalizeHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		seen[h]++
		if n := seen[h]; n > 1 {
			out[i] = fmt.Sprintf("%s__%d", h, n)
			continue
		}
		out[i] = h
	}
	return out
}

var separatorRun = regexp.MustCompile(`[\s\-/_]+`)

// normalizeHeader приводит заголовок к форме для точного сравнения:
// "Bonus / Commission" -> "bonus_commission".
func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(norm.NFKC.String(h)))
	return separatorRun.ReplaceAllString(h, "_")
}
