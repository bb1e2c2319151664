package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const pxPerPt = 96.0 / 72.0

// cells ignores the locale, ambiguous runes are one cell wide
var cells = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Measurer reports the rendered height in px of paragraphs set at width px.
type Measurer interface {
	Height(paragraphs []string, width float64) float64
}

// Metrics measures text with a per-rune advance table.
type Metrics struct {
	FontSize     float64 // px
	LineHeight   float64 // px
	ParagraphGap float64 // px, bottom margin of each paragraph
	// advance in 1/1000 em for ascii runes
	Advances [128]int16
}

// helvetica advance widths for ' ' .. '~', in 1/1000 em
var helveticaASCII = [95]int16{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

// Helvetica8 is the body text of project pages: 8pt helvetica on a 16pt line,
// paragraphs separated by a 16pt margin.
func Helvetica8() *Metrics {
	m := &Metrics{FontSize: 8 * pxPerPt, LineHeight: 16 * pxPerPt, ParagraphGap: 16 * pxPerPt}
	for i, w := range helveticaASCII {
		m.Advances[' '+i] = w
	}
	return m
}

// RuneWidth is the advance of r in px. Runes outside ascii fall back to the
// terminal cell width: one cell as a digit, two cells as a full em.
func (m *Metrics) RuneWidth(r rune) float64 {
	if r >= 0 && r < utf8.RuneSelf {
		return float64(m.Advances[r]) * m.FontSize / 1000
	}
	switch cells.RuneWidth(r) {
	case 0:
		return 0
	case 1:
		return 556 * m.FontSize / 1000
	default:
		return m.FontSize
	}
}

func (m *Metrics) WordWidth(word string) (w float64) {
	for _, r := range word {
		w += m.RuneWidth(r)
	}
	return w
}

// Lines counts the lines of text wrapped greedily at width, breaking words
// that are wider than a whole line.
func (m *Metrics) Lines(text string, width float64) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	var (
		space = m.RuneWidth(' ')
		lines = 1
		x     = 0.0
	)
	for _, word := range words {
		ww := m.WordWidth(word)
		if x > 0 && x+space+ww <= width {
			x += space + ww
			continue
		}
		if x > 0 {
			lines++
			x = 0
		}
		if ww <= width {
			x = ww
			continue
		}
		//break-word
		for _, r := range word {
			rw := m.RuneWidth(r)
			if x > 0 && x+rw > width {
				lines++
				x = 0
			}
			x += rw
		}
	}
	return lines
}

// Height of the paragraphs stacked in a block. The last paragraph's bottom
// margin collapses through the block and is not counted.
func (m *Metrics) Height(paragraphs []string, width float64) float64 {
	var (
		h float64
		n int
	)
	for _, p := range paragraphs {
		if lines := m.Lines(p, width); lines > 0 {
			h += float64(lines) * m.LineHeight
			n++
		}
	}
	if n > 1 {
		h += float64(n-1) * m.ParagraphGap
	}
	return h
}
