package output

import (
	"fmt"
	"io"

	"github.com/selimozcann/phishaid/internal/model"
	"github.com/selimozcann/phishaid/internal/render"
	"github.com/selimozcann/phishaid/internal/statuscolor"
)

// PrintView writes v the way the result region shows it. With all set,
// untriggered catalog rows are listed too.
func PrintView(w io.Writer, v render.View, all bool) {
	fmt.Fprintf(w, "[+] %s\n", v.URL)
	fmt.Fprintf(w, "  %s\n", statuscolor.Class(v.VerdictText, v.Class))
	fmt.Fprintf(w, "  %s\n", v.ScoreText)

	fmt.Fprintln(w, "  Warnings:")
	for _, warn := range v.Warnings {
		if v.HasWarnings {
			fmt.Fprintf(w, "    - %s\n", statuscolor.Warn(warn))
			continue
		}
		fmt.Fprintf(w, "    %s\n", warn)
	}

	if v.Domain != nil {
		printDomain(w, *v.Domain)
	}

	fmt.Fprintf(w, "  Rules (%s):\n", v.Mode)
	for _, r := range v.Rules {
		if r.Placeholder {
			fmt.Fprintf(w, "    %s\n", r.Description)
			continue
		}
		if !all && !r.Triggered() && v.Mode == render.ModeCatalog {
			continue
		}
		line := fmt.Sprintf("    #%-2d %-10s %6s  %s", r.ID, statuscolor.Status(r.Status), r.Score, r.Description)
		if r.Comment != "" {
			line += " (" + r.Comment + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func printDomain(w io.Writer, d model.DomainInfo) {
	host := d.Host
	if d.UnicodeHost != "" {
		host = fmt.Sprintf("%s (%s)", d.Host, d.UnicodeHost)
	}
	fmt.Fprintln(w, "  Domain:")
	fmt.Fprintf(w, "    host=%s registered=%s protocol=%s internal=%t\n", host, d.RegisteredDomain, d.Scheme, d.Internal)
	fmt.Fprintln(w, statuscolor.Gray(fmt.Sprintf("    country=%s registrar=%s registered_at=%s age=%s",
		d.Country, d.Registrar, d.RegistrationDate, d.DomainAge)))
}

// PrintSummaryLine prints one line per batch result.
func PrintSummaryLine(w io.Writer, idx, total int, res model.Result) {
	switch Classify(res) {
	case ResultTypeError:
		fmt.Fprintf(w, "[%d/%d] %s | %s | %s | duration=%dms\n", idx+1, total, res.Target,
			statuscolor.Error("error"), res.ErrorKind, res.DurationMs)
	default:
		class := render.ClassFor(res.Response.Verdict)
		fmt.Fprintf(w, "[%d/%d] %s | %s | score=%s | warnings=%d | duration=%dms\n", idx+1, total, res.URL,
			statuscolor.Class(res.Response.Verdict, class), render.FormatScore(res.Response.Score),
			len(res.Response.Warnings), res.DurationMs)
	}
}

// Terminal is a set of render targets backed by two writers: results go
// to Out, loading and notices go to Err.
type Terminal struct {
	Out io.Writer
	Err io.Writer
	// All lists untriggered catalog rows as well.
	All bool
}

func (t *Terminal) SetLoading(on bool) {
	if on {
		fmt.Fprintln(t.Err, statuscolor.Gray("Analyzing website..."))
	}
}

func (t *Terminal) Show(v render.View) { PrintView(t.Out, v, t.All) }

// Clear is a no-op: a terminal cannot take back printed lines, and a
// failed submit prints nothing to Out.
func (t *Terminal) Clear() {}

func (t *Terminal) Notify(msg string) {
	fmt.Fprintln(t.Err, statuscolor.Warn("[!] "+msg))
}
