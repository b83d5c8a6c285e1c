package banner

import (
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

// Print writes the startup banner to w. The scoring endpoint is shown so
// the user knows where URLs are sent.
func Print(w io.Writer, endpoint string) {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	fig := figure.NewFigure("PHISHAID", "doom", true)
	_, _ = cyan.Fprint(w, fig.String())

	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
	_, _ = green.Fprintln(w, "    Phishing URL Analyzer | Scoring: "+endpoint)
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
}
