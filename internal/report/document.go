package report

// FontFamily is the pdfmake family name the viewer registers the Devanagari
// font under.
const (
	FontFamily   = "MarathiFont"
	FallbackFont = "Roboto"
)

// Document is a pdfmake 0.1.72 document definition. Everything pdfmake can
// read from JSON is serialised. Page-number footers and table layouts need
// functions on the client, so they are carried in the json:"-" fields and
// installed by the viewer page.
type Document struct {
	PageSize        string           `json:"pageSize,omitempty"`
	PageOrientation string           `json:"pageOrientation,omitempty"`
	PageMargins     []float64        `json:"pageMargins,omitempty"`
	DefaultStyle    *Style           `json:"defaultStyle,omitempty"`
	Styles          map[string]Style `json:"styles,omitempty"`
	Header          *Node            `json:"header,omitempty"`
	Background      *Node            `json:"background,omitempty"`
	Content         []Node           `json:"content"`

	FileName    string                 `json:"-"`
	PageNumbers *PageNumbering         `json:"-"`
	Layouts     map[string]TableLayout `json:"-"`
}

type Style struct {
	Font      string    `json:"font,omitempty"`
	FontSize  float64   `json:"fontSize,omitempty"`
	Bold      bool      `json:"bold,omitempty"`
	Alignment string    `json:"alignment,omitempty"`
	FillColor string    `json:"fillColor,omitempty"`
	Color     string    `json:"color,omitempty"`
	Margin    []float64 `json:"margin,omitempty"`
}

// Node is any content element: text, stack, columns, table or canvas. Text is
// an interface so that an empty string still serialises; a nil Text is
// omitted. A zero Node marshals to {}, which pdfmake expects for cells
// covered by a span.
type Node struct {
	Text             any       `json:"text,omitempty"`
	Stack            []Node    `json:"stack,omitempty"`
	Columns          []Node    `json:"columns,omitempty"`
	Table            *Table    `json:"table,omitempty"`
	Layout           string    `json:"layout,omitempty"`
	Canvas           []Shape   `json:"canvas,omitempty"`
	Style            string    `json:"style,omitempty"`
	Width            any       `json:"width,omitempty"`
	FontSize         float64   `json:"fontSize,omitempty"`
	Bold             bool      `json:"bold,omitempty"`
	Alignment        string    `json:"alignment,omitempty"`
	Color            string    `json:"color,omitempty"`
	FillColor        string    `json:"fillColor,omitempty"`
	Margin           []float64 `json:"margin,omitempty"`
	ColSpan          int       `json:"colSpan,omitempty"`
	RowSpan          int       `json:"rowSpan,omitempty"`
	Border           []bool    `json:"border,omitempty"`
	BorderColor      []string  `json:"borderColor,omitempty"`
	PageBreak        string    `json:"pageBreak,omitempty"`
	AbsolutePosition *Point    `json:"absolutePosition,omitempty"`
}

type Table struct {
	HeaderRows int      `json:"headerRows,omitempty"`
	Widths     []any    `json:"widths"`
	Body       [][]Node `json:"body"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is a canvas rect or line. Coordinates are always written since zero
// is a meaningful position.
type Shape struct {
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	W         float64 `json:"w"`
	H         float64 `json:"h"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	X2        float64 `json:"x2"`
	Y2        float64 `json:"y2"`
	LineWidth float64 `json:"lineWidth"`
	LineColor string  `json:"lineColor,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// PageNumbering describes the footer. Pages before FromPage get no footer.
// With a Divisor above 1 the printed number is ceil(page / Divisor), for
// registers where one logical page spans several physical ones.
type PageNumbering struct {
	FromPage  int       `json:"from_page"`
	Divisor   int       `json:"divisor"`
	FontSize  float64   `json:"font_size"`
	Alignment string    `json:"alignment"`
	Margin    []float64 `json:"margin"`
}

// TableLayout is a named table line and padding layout. Nil paddings keep
// pdfmake's defaults.
type TableLayout struct {
	HLineWidth    float64  `json:"h_line_width"`
	VLineWidth    float64  `json:"v_line_width"`
	LineColor     string   `json:"line_color,omitempty"`
	PaddingTop    *float64 `json:"padding_top,omitempty"`
	PaddingBottom *float64 `json:"padding_bottom,omitempty"`
}

// Text returns a plain text node.
func Text(s string) Node {
	return Node{Text: s}
}

// PageBreak is the empty node used to force a new page.
func PageBreak() Node {
	return Node{Text: "", PageBreak: "after"}
}

func line(x1, y1, x2, y2, width float64, color string) Shape {
	return Shape{Type: "line", X1: x1, Y1: y1, X2: x2, Y2: y2, LineWidth: width, LineColor: color}
}

func rect(x, y, w, h, width float64, color string) Shape {
	return Shape{Type: "rect", X: x, Y: y, W: w, H: h, LineWidth: width, LineColor: color}
}

func widths(ws ...any) []any {
	return ws
}

func floats(fs ...float64) []any {
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func pad(v float64) *float64 {
	return &v
}

// joinPages concatenates page contents with page breaks between them, never
// after the last one.
func joinPages(pages [][]Node) []Node {
	var out []Node
	for i, p := range pages {
		out = append(out, p...)
		if i < len(pages)-1 {
			out = append(out, PageBreak())
		}
	}
	return out
}

// ClampPages bounds an operator-supplied page count to 1..100.
func ClampPages(n int) int {
	switch {
	case n < 1:
		return 1
	case n > 100:
		return 100
	default:
		return n
	}
}
