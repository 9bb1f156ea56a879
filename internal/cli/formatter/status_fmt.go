package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/persistence"
)

// FormatSyncStatus renders the persistence mode and outbox counters.
func FormatSyncStatus(st persistence.SyncStatus) string {
	var b strings.Builder
	mode := StyleGreen.Render(string(st.Mode))
	if st.Mode == persistence.ModeRemote {
		mode = StyleBlue.Render(string(st.Mode))
	}
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("mod:"), mode))
	if st.Mode == persistence.ModeRemote {
		b.WriteString(fmt.Sprintf("%s %d\n", Dim("bekleyen:"), st.Pending))
		dropped := fmt.Sprint(st.Dropped)
		if st.Dropped > 0 {
			dropped = StyleRed.Render(dropped)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("düşen:"), dropped))
	}
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("son senkron:"), orDash(st.LastSync)))
	return RenderBox("Durum", strings.TrimRight(b.String(), "\n"))
}

// FormatPushStats renders the result of a full upload.
func FormatPushStats(s persistence.PushStats) string {
	return fmt.Sprintf("%s %d kayıt gönderildi %s\n",
		StyleGreen.Render("✔"),
		s.Total(),
		Dim(fmt.Sprintf("(%d gün, %d görev, %d deneme, %d not)", s.Daily, s.CustomTasks, s.Exams, s.TopicNotes)))
}
