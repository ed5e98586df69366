package sink

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/smart-router/internal/asset"
)

var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorDanger    = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	keyStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	filledStyle = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
	noFillStyle = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
)

// ConsoleWriter prints records for a human at a terminal, with atom
// quantities converted to whole-token decimals.
type ConsoleWriter struct {
	out   io.Writer
	base  *asset.Asset
	quote *asset.Asset
}

// NewConsoleWriter returns a ConsoleWriter for the base/quote pair.
func NewConsoleWriter(out io.Writer, base, quote *asset.Asset) *ConsoleWriter {
	return &ConsoleWriter{out: out, base: base, quote: quote}
}

func (w *ConsoleWriter) Write(ctx context.Context, r Record) error {
	var title string
	switch r.Kind {
	case KindFill:
		title = filledStyle.Render("FILLED")
	case KindNoFill:
		title = noFillStyle.Render("NO FILL")
	default:
		title = titleStyle.Render(strings.ToUpper(r.Kind))
	}

	parts := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		parts = append(parts, keyStyle.Render(f.Key+"=")+w.format(r.Kind, f))
	}

	_, err := fmt.Fprintln(w.out, title+" "+strings.Join(parts, " "))
	return err
}

func (w *ConsoleWriter) format(kind string, f Field) string {
	raw, err := strconv.ParseUint(f.Value, 10, 64)
	if err != nil {
		return f.Value
	}

	// Prices, spend and proceeds are quote atoms; amounts are base atoms.
	switch {
	case kind == KindPrices, f.Key == "price", f.Key == "spend", f.Key == "proceeds":
		return asset.AtomsToDecimal(raw, w.quote.Decimals()).String() + " " + w.quote.Symbol()
	case f.Key == "amount":
		return asset.AtomsToDecimal(raw, w.base.Decimals()).String() + " " + w.base.Symbol()
	default:
		return f.Value
	}
}
