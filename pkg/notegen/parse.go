package notegen

import (
	"encoding/json"
	"strings"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

// ParseSections extracts note sections from a model response. The response
// is expected to be a JSON array of {sectionId, title, content} objects, but
// completions often wrap it in prose or code fences, so the outermost
// bracketed substring is tried first. When nothing parses, the raw response
// is carried verbatim into one section per template section so the provider
// can still edit from it.
func ParseSections(content string, template models.Template) []models.NoteSection {
	var raw []struct {
		SectionID string `json:"sectionId"`
		Title     string `json:"title"`
		Content   string `json:"content"`
	}

	candidate := content
	if start := strings.Index(content, "["); start >= 0 {
		if end := strings.LastIndex(content, "]"); end > start {
			candidate = content[start : end+1]
		}
	}

	if err := json.Unmarshal([]byte(candidate), &raw); err == nil && len(raw) > 0 {
		sections := make([]models.NoteSection, 0, len(raw))
		for _, s := range raw {
			sections = append(sections, models.NoteSection{
				SectionID: s.SectionID,
				Title:     s.Title,
				Content:   s.Content,
			})
		}
		return sections
	}

	if content == "" {
		content = "Failed to generate content"
	}
	sections := make([]models.NoteSection, 0, len(template.Sections))
	for _, s := range template.Sections {
		sections = append(sections, models.NoteSection{
			SectionID: s.ID,
			Title:     s.Title,
			Content:   content,
		})
	}
	return sections
}
