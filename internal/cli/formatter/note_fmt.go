package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// FormatNotes renders topic notes, newest first as given.
func FormatNotes(notes []domain.TopicNote) string {
	if len(notes) == 0 {
		return Dim("Not yok.") + "\n"
	}
	var b strings.Builder
	for i, n := range notes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", SubjectBadge(n.Subject), Bold(n.TopicID), Dim(Timestamp(n.UpdatedAt))))
		for _, line := range strings.Split(strings.TrimRight(n.Content, "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString(Dim("  "+n.ID.String()) + "\n")
	}
	return b.String()
}
