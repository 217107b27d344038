// ABOUTME: Terminal UI formatting for cellar output.
// ABOUTME: Uses glamour for markdown and fatih/color for styling.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/harper/cellar/internal/models"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

func FormatWineListItem(w *models.Wine) string {
	var sb strings.Builder

	idPrefix := w.ID.String()[:6]
	title := w.Name
	if w.Producer != "" {
		title = w.Producer + " " + w.Name
	}
	sb.WriteString(fmt.Sprintf("  %s  %s\n", faint(idPrefix), bold(title)))

	var details []string
	details = append(details, string(w.Type))
	if w.Year > 0 {
		details = append(details, fmt.Sprintf("%d", w.Year))
	}
	if w.Region != "" {
		details = append(details, w.Region)
	}
	sb.WriteString(fmt.Sprintf("         %s\n", cyan(strings.Join(details, " · "))))

	qty := fmt.Sprintf("%d bottle", w.Quantity)
	if w.Quantity != 1 {
		qty += "s"
	}
	sb.WriteString(fmt.Sprintf("         %s %s\n",
		faint(qty),
		faint("· added "+w.AddedAt.Format("2006-01-02"))))

	return sb.String()
}

func FormatArchivedListItem(a *models.ArchivedWine) string {
	var sb strings.Builder

	idPrefix := a.ID.String()[:6]
	title := a.Name
	if a.Producer != "" {
		title = a.Producer + " " + a.Name
	}
	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		faint(idPrefix), bold(title), RatingStars(a.Rating)))

	var details []string
	details = append(details, string(a.Type))
	if a.Year > 0 {
		details = append(details, fmt.Sprintf("%d", a.Year))
	}
	if a.Rebuy != "" {
		details = append(details, "rebuy: "+string(a.Rebuy))
	}
	sb.WriteString(fmt.Sprintf("         %s\n", cyan(strings.Join(details, " · "))))

	sb.WriteString(fmt.Sprintf("         %s %s\n",
		faint("Archived:"),
		faint(a.ArchivedAt.Format("2006-01-02 15:04"))))

	return sb.String()
}

func FormatWineHeader(w *models.Wine) string {
	var sb strings.Builder

	title := w.Name
	if w.Producer != "" {
		title = w.Producer + " " + w.Name
	}
	sb.WriteString(fmt.Sprintf("%s\n", bold(title)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(w.ID.String())))

	var details []string
	details = append(details, string(w.Type))
	if w.Year > 0 {
		details = append(details, fmt.Sprintf("%d", w.Year))
	}
	if w.Region != "" {
		details = append(details, w.Region)
	}
	if w.Grape != "" {
		details = append(details, w.Grape)
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Wine:"), cyan(strings.Join(details, " · "))))

	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Profile:"),
		fmt.Sprintf("boldness %d/5 · tannins %d/5 · acidity %d/5", w.Boldness, w.Tannins, w.Acidity)))

	if w.Price != nil {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Price:"), fmt.Sprintf("%.2f", *w.Price)))
	}
	if w.Store != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Store:"), w.Store))
	}
	sb.WriteString(fmt.Sprintf("%s %d\n", faint("Quantity:"), w.Quantity))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Added:"), faint(w.AddedAt.Format("2006-01-02 15:04"))))

	sb.WriteString(Separator())
	return sb.String()
}

func FormatArchivedHeader(a *models.ArchivedWine) string {
	var sb strings.Builder

	sb.WriteString(FormatWineHeader(&a.Wine))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Rating:"), RatingStars(a.Rating)))
	if a.Rebuy != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Rebuy:"), cyan(string(a.Rebuy))))
	}
	if a.ArchiveNotes != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Tasting notes:"), a.ArchiveNotes))
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Archived:"), faint(a.ArchivedAt.Format("2006-01-02 15:04"))))

	return sb.String()
}

// RatingStars renders a 0-5 rating as filled and empty stars.
func RatingStars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return color.New(color.FgYellow).Sprint(strings.Repeat("★", rating)) +
		faint(strings.Repeat("☆", 5-rating))
}

func FormatNotes(notes string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to raw content if renderer fails
		return notes, nil //nolint:nilerr // Intentional fallback
	}

	out, err := renderer.Render(notes)
	if err != nil {
		// Fallback to raw content if rendering fails
		return notes, nil //nolint:nilerr // Intentional fallback
	}
	return out, nil
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}
