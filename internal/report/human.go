package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"deadsym/internal/deadcode"
)

type palette struct {
	heading func(a ...any) string
	unused  func(a ...any) string
	dim     func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		heading: mk(color.FgCyan, color.Bold),
		unused:  mk(color.FgYellow),
		dim:     mk(color.FgHiBlack),
	}
}

// WriteHuman writes the plain-text report: a per-category table, the
// numbered unused names of each category, the totals line and the caveats.
func WriteHuman(w io.Writer, res *deadcode.Result, opts Options) error {
	p := newPalette(opts.Color)
	hw := &errWriter{w: w}

	title := "Unused resources"
	if res.Kind == deadcode.KindClasses {
		title = "Unused classes"
	}
	hw.printf("%s\n", p.heading(title))
	hw.printf("Root: %s\n\n", res.Root)

	if res.Empty() {
		hw.printf("No candidate names found.\n\n")
	} else {
		writeTable(hw, res.Summary.ByCategory)
		writeListings(hw, res, p)
	}

	s := res.Summary
	hw.printf("Total: %d | Used: %d | Unused: %d\n", s.Total, s.Used, s.Unused)
	if len(res.Sources) > 0 {
		hw.printf("%s\n", p.dim("Evidence: "+strings.Join(res.Sources, ", ")))
	}

	if opts.ByFile && res.Kind == deadcode.KindClasses {
		writeByFile(hw, res, p)
	}

	hw.printf("\n%s\n", p.heading("Caveats:"))
	for _, c := range res.Caveats {
		hw.printf("  - %s\n", c)
	}
	return hw.err
}

func writeTable(hw *errWriter, rows []deadcode.CategorySummary) {
	tw := tabwriter.NewWriter(hw, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "category\ttotal\tused\tunused\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t\n", r.Category, r.Total, r.Used, r.Unused)
	}
	if err := tw.Flush(); err != nil && hw.err == nil {
		hw.err = err
	}
	hw.printf("\n")
}

func writeListings(hw *errWriter, res *deadcode.Result, p palette) {
	byCat := make(map[string][]deadcode.DeadSymbolItem)
	for _, it := range res.Items {
		byCat[it.Category] = append(byCat[it.Category], it)
	}
	for _, c := range res.Summary.ByCategory {
		items := byCat[c.Category]
		if len(items) == 0 {
			continue
		}
		hw.printf("%s\n", p.heading(fmt.Sprintf("%s: %d unused", c.Category, len(items))))
		for i, it := range items {
			line := fmt.Sprintf("  %d. %s", i+1, p.unused(it.Name))
			if it.Group != "" {
				line += p.dim(" (group " + it.Group + ")")
			}
			if res.Kind == deadcode.KindClasses && len(it.Files) > 0 {
				files := make([]string, len(it.Files))
				for j, f := range it.Files {
					files[j] = relPath(f, res.Root)
				}
				line += "  " + p.dim(strings.Join(files, ", "))
			}
			hw.printf("%s\n", line)
		}
		hw.printf("\n")
	}
}

func writeByFile(hw *errWriter, res *deadcode.Result, p palette) {
	var referenced, unreferenced []string
	for _, f := range res.Files {
		if f.Referenced {
			referenced = append(referenced, relPath(f.Path, res.Root))
		} else {
			unreferenced = append(unreferenced, relPath(f.Path, res.Root))
		}
	}
	hw.printf("\n%s\n", p.heading(fmt.Sprintf("Referenced files (%d):", len(referenced))))
	for _, f := range referenced {
		hw.printf("  %s\n", f)
	}
	hw.printf("%s\n", p.heading(fmt.Sprintf("Unreferenced files (%d):", len(unreferenced))))
	for _, f := range unreferenced {
		hw.printf("  %s\n", p.unused(f))
	}
}

// errWriter keeps the first write error so rendering code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	fmt.Fprintf(e, format, args...)
}
