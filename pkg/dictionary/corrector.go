package dictionary

import (
	"regexp"
	"strings"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

// Correct rewrites every whole-word, case-insensitive occurrence of an
// entry's alternatives to the entry's canonical term. Disabled entries must
// be filtered out by the caller. The original text is returned untouched
// when nothing matches.
func Correct(text string, entries []models.DictionaryEntry) string {
	if text == "" || len(entries) == 0 {
		return text
	}
	corrected := text
	for _, entry := range entries {
		term := strings.TrimSpace(entry.Term)
		if term == "" {
			continue
		}
		for _, alt := range entry.Alternatives {
			alt = strings.TrimSpace(alt)
			if alt == "" || strings.EqualFold(alt, term) {
				continue
			}
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(alt) + `\b`)
			if err != nil {
				continue
			}
			corrected = re.ReplaceAllString(corrected, term)
		}
	}
	return corrected
}
