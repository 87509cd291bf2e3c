package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"bizlens/internal/analysis"
	"bizlens/internal/session"
)

const maxAnswerTableRows = 50

var answerTemplate = template.Must(template.New("answer").Parse(`
<div id="answer-content">
<div class="answer-text">{{range .Lines}}<p>{{.}}</p>
{{end}}</div>
{{if .Table}}<table class="modern-table">
<thead><tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Table.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{end}}
</div>`))

type SSEHandlers struct {
	session *session.Session
	logger  *slog.Logger
}

func NewSSEHandlers(sess *session.Session, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		session: sess,
		logger:  logger,
	}
}

type answerTemplateData struct {
	Lines []string
	Table *analysis.TableData
}

func renderAnswer(result analysis.Result) (string, error) {
	var lines []string
	for _, line := range strings.Split(result.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	table := result.Table
	if table != nil && len(table.Rows) > maxAnswerTableRows {
		trimmed := *table
		trimmed.Rows = table.Rows[:maxAnswerTableRows]
		table = &trimmed
	}

	var buf strings.Builder
	err := answerTemplate.Execute(&buf, answerTemplateData{Lines: lines, Table: table})
	return buf.String(), err
}

// HandleAnswer answers ?question= over SSE: the rendered text and table
// are patched into the page, the chart spec travels as a signal for the
// client-side chart library.
func (h *SSEHandlers) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	question := strings.TrimSpace(r.URL.Query().Get("question"))
	if question == "" {
		sse.PatchElements(`<div id="answer-content">Ask a question to get started.</div>`)
		return
	}

	result, err := h.session.Ask(question)
	if err != nil {
		if err == session.ErrNoTable {
			sse.PatchElements(`<div id="answer-content">No data loaded. Upload a CSV file first.</div>`)
			return
		}
		h.logger.Error("answer question", "error", err)
		return
	}

	html, err := renderAnswer(result)
	if err != nil {
		h.logger.Error("render answer", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"chartSpec": result.Chart,
	})
	if err != nil {
		h.logger.Error("marshal chart signal", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
