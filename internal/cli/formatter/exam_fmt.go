package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/progress"
)

var examTypeLabels = map[domain.ExamType]string{
	domain.ExamBranch:  "Branş",
	domain.ExamGeneral: "Genel",
	domain.ExamTG:      "TG",
}

// FormatExamList renders exams as a table, one row per exam.
func FormatExamList(exams []domain.Exam, today domain.Day) string {
	if len(exams) == 0 {
		return Dim("Kayıtlı deneme yok.") + "\n"
	}
	headers := []string{"ID", "TARİH", "DENEME", "TÜR", "DURUM", "NET"}
	rows := make([][]string, 0, len(exams))
	for _, e := range exams {
		typ := examTypeLabels[e.Type]
		if e.Subject != nil {
			typ += " " + SubjectBadge(*e.Subject)
		}
		net := Dim("--")
		if total, ok := e.Results.Total(); ok {
			net = Bold(FormatNet(total.Net))
		}
		rows = append(rows, []string{
			Dim(e.ID.String()),
			fmt.Sprintf("%s %s", e.Date, Dim(RelativeDay(e.Date, today))),
			e.Title,
			typ,
			examStatus(e),
			net,
		})
	}
	return RenderTable(headers, rows)
}

func examStatus(e domain.Exam) string {
	if e.Completed {
		return StyleGreen.Render("tamamlandı")
	}
	return StyleYellow.Render("planlandı")
}

// FormatExamDetail renders one exam with its per-subject results.
func FormatExamDetail(e domain.Exam) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(e.Title), examStatus(e)))
	b.WriteString(Dim(fmt.Sprintf("%s · %s · %s", e.ID, e.Date, examTypeLabels[e.Type])) + "\n")
	if len(e.Results) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	headers := []string{"", "D", "Y", "B", "NET"}
	var rows [][]string
	keys := append(append([]domain.ExamKey{}, domain.SubjectResultKeys...), domain.ResultTotal)
	for _, k := range keys {
		r, ok := e.Results[k]
		if !ok {
			continue
		}
		label := string(k)
		if s, ok := domain.SubjectFromSlug(string(k)); ok {
			label = string(s)
		}
		if k == domain.ResultTotal {
			label = "TOPLAM"
		}
		rows = append(rows, []string{
			label,
			fmt.Sprint(r.Correct),
			fmt.Sprint(r.Wrong),
			fmt.Sprint(r.Empty),
			FormatNet(r.Net),
		})
	}
	b.WriteString(Table{
		Headers: headers,
		Rows:    rows,
		Align:   []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}.Render())
	return b.String()
}

// FormatExamStats renders net statistics over scored exams.
func FormatExamStats(s progress.ExamStats) string {
	line := fmt.Sprintf("%d deneme, %d tamamlandı", s.Count, s.Completed)
	if s.Scored == 0 {
		return Bold("Denemeler") + "\n" + Dim(line) + "\n"
	}
	return fmt.Sprintf("%s\n%s\n%s %s   %s %s   %s %s\n",
		Bold("Denemeler"),
		Dim(line),
		Dim("ortalama"), StyleFg.Render(FormatNet(s.AverageNet)),
		Dim("en iyi"), StyleGreen.Render(FormatNet(s.BestNet)),
		Dim("son"), StyleFg.Render(FormatNet(s.LastNet)))
}
