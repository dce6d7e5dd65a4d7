package notegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

// BuildPrompt assembles the scribe instruction for one generation run:
// dictionary context when present, the template's sections in display order,
// the transcript, and the JSON output contract.
func BuildPrompt(template models.Template, transcript string, dictionary []models.DictionaryEntry) string {
	var dictionaryContext string
	if len(dictionary) > 0 {
		lines := make([]string, 0, len(dictionary))
		for _, entry := range dictionary {
			lines = append(lines, fmt.Sprintf("- %s (alternatives: %s)", entry.Term, strings.Join(entry.Alternatives, ", ")))
		}
		dictionaryContext = "\n\nCustom Medical Dictionary (use these exact spellings):\n" + strings.Join(lines, "\n")
	}

	sections := make([]models.TemplateSection, len(template.Sections))
	copy(sections, template.Sections)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})

	sectionPrompts := make([]string, 0, len(sections))
	for _, s := range sections {
		sectionPrompts = append(sectionPrompts, fmt.Sprintf("### %s (ID: %s)\n%s\nGuidance: %s", s.Title, s.ID, s.Description, s.Placeholder))
	}

	return fmt.Sprintf(`You are an expert medical scribe. Generate a clinical note from the following provider-patient conversation transcript using the specified template format. Be thorough, accurate, and use proper medical terminology. Only include information that was discussed in the conversation. If information for a section was not discussed, write "Not discussed during this encounter."%s

## Template: %s
%s

## Transcript:
%s

Generate the note with each section clearly labeled. Return ONLY a JSON array of objects with "sectionId", "title", and "content" fields matching the template sections above. The content should be professionally written clinical documentation.`,
		dictionaryContext, template.Name, strings.Join(sectionPrompts, "\n\n"), transcript)
}
