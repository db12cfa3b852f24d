package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed viewer.html
var viewerHTML string

var viewerTmpl = template.Must(template.New("viewer").Parse(viewerHTML))

// Page is what the viewer needs besides the document itself.
type Page struct {
	Title string
	// Back is the link shown under the buttons.
	Back string
	// Notice is shown above the buttons, e.g. when the font fell back.
	Notice string
	// Font is the base64 TTF. Empty means no Devanagari font is registered.
	Font string
}

// Render writes the viewer page for doc. html/template marshals the document
// to JSON inside the script element.
func Render(w io.Writer, doc *Document, p Page) error {
	data := map[string]any{
		"Title":       p.Title,
		"Back":        p.Back,
		"Notice":      p.Notice,
		"Font":        p.Font,
		"Family":      template.JS(FontFamily),
		"Doc":         doc,
		"PageNumbers": doc.PageNumbers,
		"Layouts":     doc.Layouts,
		"FileName":    doc.FileName,
	}
	if err := viewerTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render viewer: %w", err)
	}
	return nil
}
