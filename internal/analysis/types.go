package analysis

// Result is one answer from an analysis routine. Chart and Table are
// renderer-agnostic descriptions; the rendering collaborator decides how
// to draw them. A missing-column soft failure is a Result whose Text
// explains the problem and whose Chart/Table are nil.
type Result struct {
	Text  string     `json:"text"`
	Chart *ChartSpec `json:"chart,omitempty"`
	Table *TableData `json:"table,omitempty"`
}

type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartLine    ChartKind = "line"
	ChartPie     ChartKind = "pie"
	ChartScatter ChartKind = "scatter"
)

// ChartSpec describes a chart without committing to a charting library:
// kind, axis bindings, encoding hints and the data itself.
type ChartSpec struct {
	Kind       ChartKind `json:"kind"`
	Title      string    `json:"title"`
	XAxis      string    `json:"x_axis,omitempty"`
	YAxis      string    `json:"y_axis,omitempty"`
	Series     []Series  `json:"series"`
	ColorBy    string    `json:"color_by,omitempty"`
	ColorScale string    `json:"color_scale,omitempty"`
	Hover      []string  `json:"hover,omitempty"`
	ValueRange []float64 `json:"value_range,omitempty"`
	SizeBy     string    `json:"size_by,omitempty"`
	Horizontal bool      `json:"horizontal,omitempty"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Y     float64 `json:"y,omitempty"`
	Size  float64 `json:"size,omitempty"`
}

// TableData is the secondary aggregated table attached to a result.
type TableData struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
