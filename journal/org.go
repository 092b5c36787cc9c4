package journal

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// RenderOrg produces an org-mode summary block for the run, suitable
// for pasting into a research journal.
func (r *Run) RenderOrg() (string, error) {
	t, err := template.New("run").Funcs(orgFuncs).Parse(runOrgTemplate)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteOrg renders the summary block to a file.
func (r *Run) WriteOrg(path string) error {
	s, err := r.RenderOrg()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const runOrgTemplate = `
* BACKTEST: {{.Strategy}} / {{.ExitPolicy}}
:PROPERTIES:
:RUN_ID:      {{if .ID}}{{.ID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:EXIT:        {{.ExitPolicy}}
:DATASET:     {{if .DataDir}}{{.DataDir}}{{else}}(dataset?){{end}}
:TRADES:      {{.Stats.Trades}}
:WINNERS:     {{.Stats.Winners}}
:LOSERS:      {{.Stats.Losers}}
:WIN_RATE:    {{printf "%.2f" (mul100 .Stats.WinRate)}}
:ANNUALIZED:  {{printf "%.2f" (mul100 .Stats.Annualized)}}
:SHARPE:      {{printf "%.2f" .Stats.Sharpe}}
:MAX_DD_PCT:  {{printf "%.2f" (mul100 .Stats.MaxDrawdown)}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Configuration
#+begin_src json
{{printf "%s" .Config}}
#+end_src

** Performance Summary
- Win Rate:         *{{printf "%.2f" (mul100 .Stats.WinRate)}}%*
- Avg Win:          *{{printf "%.2f" (mul100 .Stats.AvgWin)}}%*
- Avg Loss:         *{{printf "%.2f" (mul100 .Stats.AvgLoss)}}%*
- Profit Factor:    *{{printf "%.2f" .Stats.ProfitFactor}}*
- Annualized:       *{{printf "%.2f" (mul100 .Stats.Annualized)}}%*
- Sharpe:           *{{printf "%.2f" .Stats.Sharpe}}*
- Max Drawdown:     *{{printf "%.2f" (mul100 .Stats.MaxDrawdown)}}%*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Winners | {{.Stats.Winners}} |
| Losers  | {{.Stats.Losers}} |
| Total   | {{.Stats.Trades}} |
`
