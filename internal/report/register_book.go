package report

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// DefaultSets is how many copies of each register the book prints when the
// operator leaves a register unset.
const DefaultSets = 7

const (
	registerRows       = 26
	registerCellMargin = 10.0
	registerRule       = 0.7
	registerPadding    = 3.0
	registerHeading    = 16.0
	bookFirstPage      = 3
)

//go:embed registers.toml
var registersTOML []byte

// RegisterColumn is one heading. Sub headings are printed in a second header
// row under a spanning title. CellSize overrides the page's body font size.
type RegisterColumn struct {
	Title    string   `toml:"title"`
	Sub      []string `toml:"sub"`
	CellSize float64  `toml:"cell_size"`
}

type RegisterPage struct {
	Heading       string           `toml:"heading"`
	HeadingSize   float64          `toml:"heading_size"`
	HeadingMargin []float64        `toml:"heading_margin"`
	Rows          int              `toml:"rows"`
	Widths        []float64        `toml:"widths"`
	CellMargin    float64          `toml:"cell_margin"`
	CellFontSize  float64          `toml:"cell_font_size"`
	Rule          float64          `toml:"rule"`
	Padding       float64          `toml:"padding"`
	SubSize       float64          `toml:"sub_size"`
	SubBold       bool             `toml:"sub_bold"`
	Columns       []RegisterColumn `toml:"columns"`
}

type Register struct {
	Name      string         `toml:"name"`
	Cover     string         `toml:"cover"`
	CoverSize float64        `toml:"cover_size"`
	CoverTop  float64        `toml:"cover_top"`
	Pages     []RegisterPage `toml:"page"`
}

var loadRegisters = sync.OnceValues(func() ([]Register, error) {
	var cat struct {
		Register []Register `toml:"register"`
	}
	if err := toml.Unmarshal(registersTOML, &cat); err != nil {
		return nil, fmt.Errorf("parse register catalogue: %w", err)
	}
	for _, r := range cat.Register {
		for i, p := range r.Pages {
			if n := p.spanCount(); n != len(p.Widths) {
				return nil, fmt.Errorf("register %q page %d: %d widths for %d cells", r.Name, i+1, len(p.Widths), n)
			}
		}
	}
	return cat.Register, nil
})

// Registers returns the printable register catalogue in book order.
func Registers() ([]Register, error) {
	return loadRegisters()
}

// RegisterEntry is one line of the book's index.
type RegisterEntry struct {
	Name      string
	Sets      int
	StartPage int
	EndPage   int
}

// RegisterIndex works out which physical pages each selected register
// occupies. Page 1 is the book cover and page 2 the index. Registers missing
// from sets get DefaultSets; zero or negative skips the register.
func RegisterIndex(sets map[string]int) ([]RegisterEntry, error) {
	regs, err := Registers()
	if err != nil {
		return nil, err
	}
	var out []RegisterEntry
	page := bookFirstPage
	for _, r := range regs {
		n, ok := sets[r.Name]
		if !ok {
			n = DefaultSets
		}
		if n <= 0 {
			continue
		}
		count := 1 + n*len(r.Pages)
		out = append(out, RegisterEntry{Name: r.Name, Sets: n, StartPage: page, EndPage: page + count - 1})
		page += count
	}
	return out, nil
}

// RegisterBook prints the bound collection of blank registers: a cover, an
// index with page ranges, then each selected register's cover followed by its
// sets.
func RegisterBook(sets map[string]int) (*Document, error) {
	regs, err := Registers()
	if err != nil {
		return nil, err
	}
	entries, err := RegisterIndex(sets)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Register, len(regs))
	for _, r := range regs {
		byName[r.Name] = r
	}

	layouts := map[string]TableLayout{
		"bookIndex": {HLineWidth: 1, VLineWidth: 1, PaddingTop: pad(8), PaddingBottom: pad(8)},
	}

	content := []Node{
		{
			Text:      "आरोग्य विभाग\nनोंदवही संग्रह",
			FontSize:  50,
			Bold:      true,
			Alignment: "center",
			Margin:    []float64{0, 220, 0, 0},
			PageBreak: "after",
		},
	}

	indexBody := [][]Node{{
		{Text: "अ.क्र.", Bold: true, Alignment: "center"},
		{Text: "रजिस्टरचे नाव", Bold: true, Alignment: "center"},
		{Text: "पृष्ठ क्रमांक", Bold: true, Alignment: "center"},
	}}
	for i, e := range entries {
		indexBody = append(indexBody, []Node{
			{Text: fmt.Sprintf("%d", i+1), Alignment: "center"},
			{Text: e.Name, Alignment: "left"},
			{Text: fmt.Sprintf("%d ते %d", e.StartPage, e.EndPage), Alignment: "center"},
		})
	}
	content = append(content,
		Node{Text: "अनुक्रमणिका", FontSize: 30, Bold: true, Alignment: "center", Margin: []float64{0, 20, 0, 30}},
	)
	index := Node{
		Table:  &Table{HeaderRows: 1, Widths: widths(40, "*", 100), Body: indexBody},
		Layout: "bookIndex",
	}
	if len(entries) > 0 {
		index.PageBreak = "after"
	}
	content = append(content, index)

	var pages [][]Node
	for _, e := range entries {
		r := byName[e.Name]
		pages = append(pages, []Node{{
			Text:      r.Cover,
			FontSize:  r.CoverSize,
			Bold:      true,
			Alignment: "center",
			Margin:    []float64{0, r.CoverTop, 0, 0},
		}})
		for s := 0; s < e.Sets; s++ {
			for _, p := range r.Pages {
				name := p.layoutName()
				layouts[name] = TableLayout{
					HLineWidth:    p.rule(),
					VLineWidth:    p.rule(),
					PaddingTop:    pad(p.padding()),
					PaddingBottom: pad(p.padding()),
				}
				pages = append(pages, p.nodes(name))
			}
		}
	}
	content = append(content, joinPages(pages)...)

	return &Document{
		PageSize:     "A4",
		PageMargins:  []float64{50, 30, 30, 30},
		DefaultStyle: &Style{Font: FontFamily, FontSize: 12},
		Content:      content,
		FileName:     "आरोग्य-नोंदवही-संग्रह.pdf",
		PageNumbers:  &PageNumbering{FromPage: 2, Divisor: 1, FontSize: 10, Alignment: "center", Margin: []float64{0, 10, 0, 0}},
		Layouts:      layouts,
	}, nil
}

func (p RegisterPage) twoLevel() bool {
	for _, c := range p.Columns {
		if len(c.Sub) > 0 {
			return true
		}
	}
	return false
}

// spanCount is the number of physical table columns the headings cover.
func (p RegisterPage) spanCount() int {
	n := 0
	for _, c := range p.Columns {
		if len(c.Sub) > 0 {
			n += len(c.Sub)
		} else {
			n++
		}
	}
	return n
}

func (p RegisterPage) rows() int {
	if p.Rows > 0 {
		return p.Rows
	}
	return registerRows
}

func (p RegisterPage) rule() float64 {
	if p.Rule > 0 {
		return p.Rule
	}
	return registerRule
}

func (p RegisterPage) padding() float64 {
	if p.Padding > 0 {
		return p.Padding
	}
	return registerPadding
}

func (p RegisterPage) layoutName() string {
	return fmt.Sprintf("register-%g-%g", p.rule(), p.padding())
}

func (p RegisterPage) nodes(layout string) []Node {
	headingSize := p.HeadingSize
	if headingSize == 0 {
		headingSize = registerHeading
	}
	headingMargin := p.HeadingMargin
	if len(headingMargin) != 4 {
		headingMargin = []float64{0, 5, 0, 5}
	}
	cellMargin := p.CellMargin
	if cellMargin == 0 {
		cellMargin = registerCellMargin
	}

	var top, second []Node
	var cellSizes []float64
	twoLevel := p.twoLevel()
	for _, c := range p.Columns {
		if len(c.Sub) == 0 {
			h := Node{Text: c.Title, Bold: true, Alignment: "center"}
			if twoLevel {
				h.RowSpan = 2
				second = append(second, Node{})
			}
			top = append(top, h)
			cellSizes = append(cellSizes, c.CellSize)
			continue
		}
		top = append(top, Node{Text: c.Title, ColSpan: len(c.Sub), Bold: true, Alignment: "center"})
		for i, s := range c.Sub {
			if i > 0 {
				top = append(top, Node{})
			}
			second = append(second, Node{
				Text:      s,
				Bold:      p.SubBold,
				Alignment: "center",
				FontSize:  p.SubSize,
			})
			cellSizes = append(cellSizes, c.CellSize)
		}
	}

	body := [][]Node{top}
	headerRows := 1
	if twoLevel {
		body = append(body, second)
		headerRows = 2
	}
	for r := 0; r < p.rows(); r++ {
		row := make([]Node, len(cellSizes))
		for i := range row {
			row[i] = Node{
				Text:     "",
				FontSize: firstNonZero(cellSizes[i], p.CellFontSize),
				Margin:   []float64{0, cellMargin, 0, cellMargin},
			}
		}
		body = append(body, row)
	}

	return []Node{
		{Text: p.Heading, FontSize: headingSize, Bold: true, Alignment: "center", Margin: headingMargin},
		{
			Table:  &Table{HeaderRows: headerRows, Widths: floats(p.Widths...), Body: body},
			Layout: layout,
		},
	}
}

func firstNonZero(vs ...float64) float64 {
	for _, v := range vs {
		if v != 0 {
			return v
		}
	}
	return 0
}
