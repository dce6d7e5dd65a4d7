package note

import (
	"fmt"
	"strings"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

// RenderFullText flattens note sections into the canonical markdown body:
// a "## <title>" heading per section, sections separated by a blank line.
func RenderFullText(sections []models.NoteSection) string {
	parts := make([]string, 0, len(sections))
	for _, section := range sections {
		parts = append(parts, fmt.Sprintf("## %s\n%s", section.Title, section.Content))
	}
	return strings.Join(parts, "\n\n")
}
