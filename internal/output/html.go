package output

import (
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/selimozcann/phishaid/internal/render"
)

// PageData provides the full context for the HTML batch report.
type PageData struct {
	Title         string
	GeneratedAt   time.Time
	Params        map[string]string
	OrderedParams []Param
	Summary       Summary
	Results       []ResultView
	Styles        template.CSS
}

// Param represents a rendered CLI argument/value pair.
type Param struct {
	Key   string
	Value string
}

func resultHTML(v *render.View) (template.HTML, error) {
	if v == nil {
		return "", nil
	}
	return render.ResultHTML(*v)
}

var htmlTemplate = template.Must(template.New("report").Funcs(render.Funcs).Funcs(template.FuncMap{
	"resultHTML": resultHTML,
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
{{.Styles}}
.summary-card[data-active="true"] { border-color:#4f46e5; box-shadow:0 0 0 2px rgba(79,70,229,0.4); }
.error { color:#dc2626; }
.target-row { border-top:1px solid #e5e7eb; padding-top:12px; margin-top:12px; }
.target-row:first-of-type { border-top:none; padding-top:0; margin-top:0; }
</style>
<script>
document.addEventListener('DOMContentLoaded', function() {
  const cards = document.querySelectorAll('[data-filter]');
  const rows = document.querySelectorAll('.target-row');
  function apply(filter) {
    cards.forEach(c => c.dataset.active = (c.dataset.filter === filter ? 'true' : 'false'));
    rows.forEach(row => {
      row.style.display = (filter === 'all' || row.dataset.type === filter) ? '' : 'none';
    });
  }
  cards.forEach(card => {
    card.addEventListener('click', function (ev) {
      ev.preventDefault();
      apply(card.dataset.filter || 'all');
    });
  });
  apply('all');
});
</script>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p class="meta">Generated at {{formatTime .GeneratedAt}}</p>
</header>
<section id="summary" class="section">
  <h2>Summary</h2>
  <div class="summary-grid">
    <a class="summary-card" href="#targets" data-filter="all"><strong>Total Targets</strong><span class="badge">{{.Summary.Total}}</span></a>
    <a class="summary-card" href="#targets" data-filter="safe"><strong>Safe</strong><span class="badge">{{.Summary.Safe}}</span></a>
    <a class="summary-card" href="#targets" data-filter="phishing"><strong>Phishing</strong><span class="badge">{{.Summary.Phishing}}</span></a>
    <a class="summary-card" href="#targets" data-filter="error"><strong>Errors</strong><span class="badge">{{.Summary.Errors}}</span></a>
  </div>
</section>
<section id="parameters" class="section">
  <h2>Parameters</h2>
  <dl>
  {{- range .OrderedParams }}
    <dt>{{.Key}}</dt>
    <dd><span class="chain-url">{{.Value}}</span></dd>
  {{- end }}
  </dl>
</section>
<section id="targets" class="section">
  <h2>Targets</h2>
  {{range .Results}}
  <div class="target-row" id="target-{{.Index}}" data-type="{{.Type}}">
    <h3>{{.InputURL}} <span class="meta">{{.Type}} • {{.DurationMs}}ms • {{formatTime .Timestamp}}</span></h3>
    {{if .Error}}
      <p class="meta error">Error ({{.ErrorKind}}): {{.Error}}</p>
    {{else}}
      {{resultHTML .View}}
    {{end}}
  </div>
  {{end}}
</section>
<footer class="footer">
  PhishAID report generated at {{formatTime .GeneratedAt}}
</footer>
</body>
</html>
`))

// RenderHTML renders the HTML batch report using the provided data.
func RenderHTML(w io.Writer, data PageData) error {
	if data.Params != nil {
		keys := make([]string, 0, len(data.Params))
		for k := range data.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make([]Param, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, Param{Key: k, Value: data.Params[k]})
		}
		data.OrderedParams = ordered
	}
	if data.Styles == "" {
		css, err := render.Styles()
		if err != nil {
			return err
		}
		data.Styles = css
	}
	return htmlTemplate.Execute(w, data)
}
