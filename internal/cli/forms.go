package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// studyHuhTheme returns a huh theme using the Gruvbox palette.
func studyHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func subjectOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(domain.Subjects))
	for _, s := range domain.Subjects {
		opts = append(opts, huh.NewOption(string(s), s.Slug()))
	}
	return opts
}

// customTaskFields is the string-typed form state of "task add".
type customTaskFields struct {
	Title       string
	Subject     string
	Date        string
	Description string
	Start       string
	End         string
	Type        string
}

func customTaskForm(f *customTaskFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Başlık").Value(&f.Title).Validate(validateRequired),
			huh.NewSelect[string]().Title("Ders").Options(subjectOptions()...).Value(&f.Subject),
			huh.NewInput().Title("Tarih (YYYY-MM-DD, boş: bugün)").Placeholder("2026-01-14").
				Value(&f.Date).Validate(validateOptionalDate),
			huh.NewSelect[string]().Title("Tür").Options(
				huh.NewOption("Çalışma", string(domain.TaskStudy)),
				huh.NewOption("Hız", string(domain.TaskSpeed)),
				huh.NewOption("Rutin", string(domain.TaskRoutine)),
				huh.NewOption("Deneme", string(domain.TaskExam)),
			).Value(&f.Type),
		),
		huh.NewGroup(
			huh.NewText().Title("Açıklama").Value(&f.Description),
			huh.NewInput().Title("Başlangıç (HH:mm, isteğe bağlı)").Placeholder("09:00").
				Value(&f.Start).Validate(validateOptionalClock),
			huh.NewInput().Title("Bitiş (HH:mm, isteğe bağlı)").Placeholder("10:00").
				Value(&f.End).Validate(validateOptionalClock),
		),
	).WithTheme(studyHuhTheme()).WithShowHelp(false)
}

// examFields is the string-typed form state of "exam add".
type examFields struct {
	Title   string
	Type    string
	Subject string
	Date    string
}

func examForm(f *examFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Deneme türü").Options(
				huh.NewOption("Genel", string(domain.ExamGeneral)),
				huh.NewOption("Branş", string(domain.ExamBranch)),
				huh.NewOption("Türkiye Geneli", string(domain.ExamTG)),
			).Value(&f.Type),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Ders").Options(subjectOptions()...).Value(&f.Subject),
		).WithHideFunc(func() bool { return f.Type != string(domain.ExamBranch) }),
		huh.NewGroup(
			huh.NewInput().Title("Başlık (boş: varsayılan)").Value(&f.Title),
			huh.NewInput().Title("Tarih (YYYY-MM-DD, boş: bugün)").Value(&f.Date).Validate(validateOptionalDate),
		),
	).WithTheme(studyHuhTheme()).WithShowHelp(false)
}

func noteForm(content *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Not").Value(content).Validate(validateRequired),
		),
	).WithTheme(studyHuhTheme()).WithShowHelp(false)
}

// confirmForm creates a huh form for a yes/no confirmation.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Evet").
				Negative("Hayır").
				Value(result),
		),
	).WithTheme(studyHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("boş bırakılamaz")
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateOptionalClock accepts empty or an HH:mm time.
func validateOptionalClock(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("use HH:mm format")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}
