package style

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/dotsetup/pkg/category"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Renderer formats output for one writer.
type Renderer struct {
	format Format
	color  bool
}

// New returns a renderer for format. FormatAuto is resolved against out.
func New(format Format, out io.Writer) *Renderer {
	if format == FormatAuto {
		format = DetectFormat(out)
	}
	return &Renderer{format: format, color: format == FormatTerminal}
}

// NewRenderer detects the format from out.
func NewRenderer(out io.Writer) *Renderer {
	return New(FormatAuto, out)
}

// NewPlainRenderer never emits escape sequences.
func NewPlainRenderer() *Renderer {
	return New(FormatText, nil)
}

// Format returns the resolved output format.
func (r *Renderer) Format() Format { return r.format }

// IsColorTerminal reports whether w is a terminal that should get colour.
func IsColorTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Renderer) paint(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// RenderCategories lists categories with their help, mapping counts and
// install actions.
func (r *Renderer) RenderCategories(cats []*category.Category) string {
	if r.format == FormatJSON {
		return encodeJSON(categoriesJSON(cats))
	}
	if len(cats) == 0 {
		return r.paint(MutedStyle, "No categories found.")
	}

	var b strings.Builder
	b.WriteString(r.paint(TitleStyle, "Available categories:") + "\n")
	for _, c := range cats {
		line := fmt.Sprintf("%s %s", ItemMark, r.paint(NameStyle, c.Name()))
		if c.Help() != "" {
			line += " " + r.paint(MutedStyle, "- "+c.Help())
		}
		b.WriteString(Indent(line, 1) + "\n")

		counts := fmt.Sprintf("%s, %s",
			r.paint(FileStyle, plural(len(c.Files()), "file")),
			r.paint(DirectoryStyle, plural(len(c.Directories()), "directory")))
		b.WriteString(Indent(counts, 3) + "\n")

		if names := c.ActionNames(); len(names) > 0 {
			b.WriteString(Indent("install: "+r.paint(ActionStyle, strings.Join(names, ", ")), 3) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderReport summarizes one command run. Failures are listed one per line.
func (r *Renderer) RenderReport(command string, rep category.Report, dryRun bool) string {
	if r.format == FormatJSON {
		return encodeJSON(reportJSON(command, rep, dryRun))
	}

	var b strings.Builder
	if dryRun {
		b.WriteString(r.prefixed(pterm.Info, DryRunMark, "Dry run, no changes were made") + "\n")
	}

	subject := command
	if rep.Category != "" {
		subject += " " + rep.Category
	}

	if rep.OK() {
		b.WriteString(r.prefixed(pterm.Success, SuccessMark,
			fmt.Sprintf("%s: %s", subject, plural(rep.Processed, "operation"))))
		return b.String()
	}

	b.WriteString(r.prefixed(pterm.Error, ErrorMark,
		fmt.Sprintf("%s: %d of %s failed", subject, len(rep.Failures), plural(rep.Processed, "operation"))))
	for _, f := range rep.Failures {
		line := fmt.Sprintf("%s %s %s: %v", f.Category, f.Op, f.Subject, f.Err)
		b.WriteString("\n" + Indent(r.paint(ErrorStyle, line), 1))
	}
	return b.String()
}

// RenderError formats a top-level command error.
func (r *Renderer) RenderError(err error) string {
	if r.format == FormatJSON {
		return encodeJSON(errorJSON(err))
	}
	return r.paint(ErrorStyle, fmt.Sprintf("Error: %v", err))
}

func (r *Renderer) prefixed(p pterm.PrefixPrinter, mark, msg string) string {
	if !r.color {
		return mark + " " + msg
	}
	return strings.TrimRight(p.Sprint(msg), "\n")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	if strings.HasSuffix(noun, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(noun, "y"))
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
