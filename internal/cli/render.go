package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/forgekit/ghclient/pkg/client"
)

// unknownErrorMessage renders when an error carries no usable message.
const unknownErrorMessage = "An unknown error occurred"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	bulletStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderer writes command output. Commands choose JSON or Table from the
// resolved output setting.
type renderer struct {
	out     io.Writer
	noColor bool
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if r.noColor {
		return text
	}
	return s.Render(text)
}

// JSON writes v as indented JSON.
func (r *renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes rows as aligned columns under a header row.
func (r *renderer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(padRight(h, widths[i]+2))
	}
	fmt.Fprintln(r.out, r.style(headerStyle, strings.TrimRight(b.String(), " ")))

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i < len(widths) {
				line.WriteString(padRight(cell, widths[i]+2))
			}
		}
		fmt.Fprintln(r.out, strings.TrimRight(line.String(), " "))
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderError converts a failure into the human-readable form the CLI
// prints before exiting 1.
func (r *renderer) RenderError(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		msg := err.Error()
		if msg == "" {
			msg = unknownErrorMessage
		}
		return r.style(errorStyle, "Error: ") + msg
	}

	switch apiErr.Kind {
	case client.KindValidation:
		var b strings.Builder
		b.WriteString(r.style(errorStyle, "Validation failed:"))
		for _, msg := range apiErr.ValidationMessages() {
			b.WriteString("\n" + r.style(bulletStyle, "  • ") + msg)
		}
		return b.String()

	case client.KindRateLimit:
		if apiErr.ResetAt > 0 {
			minutes := int(time.Until(time.Unix(apiErr.ResetAt, 0)).Minutes())
			if minutes < 0 {
				minutes = 0
			}
			return r.style(errorStyle, "Rate limit exceeded. ") +
				fmt.Sprintf("Resets in %d minutes.", minutes)
		}
		return r.style(errorStyle, "Rate limit exceeded.")

	default:
		msg := apiErr.Message
		if msg == "" {
			return r.style(errorStyle, "Error: ") + unknownErrorMessage
		}
		if apiErr.StatusCode > 0 {
			return r.style(errorStyle, "Error: ") + fmt.Sprintf("%s (HTTP %d)", msg, apiErr.StatusCode)
		}
		return r.style(errorStyle, "Error: ") + msg
	}
}

// Detail writes a dimmed secondary line.
func (r *renderer) Detail(format string, args ...any) {
	fmt.Fprintln(r.out, r.style(dimStyle, fmt.Sprintf(format, args...)))
}
