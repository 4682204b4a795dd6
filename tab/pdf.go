package tab

import (
	"strings"

	"github.com/jung-kurt/gofpdf"

	"tabscribe/model"
	"tabscribe/util"
)

const (
	pdfFont      = "courier"
	pdfTitleSize = 14.0
	pdfBodySize  = 9.0
	pdfLineH     = 11.0
	pdfMargin    = 54.0

	// pdfSystemWidth is how many tab text columns fit one printed line at
	// the body size; lanes longer than this wrap into further systems.
	pdfSystemWidth = 92
)

// WritePDF paginates the tab into fixed-width systems and writes them in a
// monospace face so the lanes stay aligned on paper.
func WritePDF(path, title string, doc *model.TabDocument) error {
	lay := buildLayout(doc)
	bodyLen := len(lay.bodies[0])

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()

	y := pdfMargin + pdfLineH
	writeLine := func(txt string) {
		if y > pageH-pdfMargin {
			pdf.AddPage()
			y = pdfMargin + pdfLineH
		}
		if txt != "" {
			pdf.Text(pdfMargin, y, txt)
		}
		y += pdfLineH
	}

	if title != "" {
		pdf.SetFont(pdfFont, "B", pdfTitleSize)
		writeLine(title)
		writeLine("")
	}
	pdf.SetFont(pdfFont, "", pdfBodySize)

	for start := 0; start < bodyLen; start += pdfSystemWidth {
		end := util.Min(start+pdfSystemWidth, bodyLen)

		// keep a whole system on one page
		lines := model.NumStrings + 1
		if lay.chords != "" {
			lines++
		}
		if y+float64(lines)*pdfLineH > pageH-pdfMargin {
			pdf.AddPage()
			y = pdfMargin + pdfLineH
		}

		indent := strings.Repeat(" ", len(lay.labels[0])+1)
		if lay.chords != "" {
			writeLine(strings.TrimRight(indent+lay.chords[start:end], " "))
		}
		for s := model.NumStrings - 1; s >= 0; s-- {
			writeLine(lay.labels[s] + "|" + lay.bodies[s][start:end] + "|")
		}
		writeLine("")
	}

	for _, a := range annotations(doc) {
		writeLine(a)
	}

	return pdf.OutputFileAndClose(path)
}
