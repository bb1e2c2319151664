package layout

import (
	"strings"
)

const (
	DefaultColumnWidth = 200.0
	DefaultColumnGap   = 40.0
	// MaxColumns caps a layout, words past the last column are not shown
	MaxColumns = 10

	containerPadding  = 80
	infoSectionHeight = 60
	bottomReserve     = 100

	imageWidth      = 573.244
	imageMargin     = 40
	estimatedImages = 10
)

type Options struct {
	ColumnWidth    float64
	ColumnGap      float64
	ViewportHeight int
	Measurer       Measurer
}

func (o Options) withDefaults() Options {
	if o.ColumnWidth <= 0 {
		o.ColumnWidth = DefaultColumnWidth
	}
	if o.ColumnGap <= 0 {
		o.ColumnGap = DefaultColumnGap
	}
	if o.Measurer == nil {
		o.Measurer = Helvetica8()
	}
	return o
}

type Column struct {
	Index      int
	Paragraphs []string
}

// Class is the css class of the column, the first one is marked.
func (c Column) Class() string {
	if c.Index == 0 {
		return "first column ie"
	}
	return "column ie"
}

type Result struct {
	Columns         []Column
	MaxColumnHeight float64
	ContainerWidth  float64
	// Dropped counts the words that did not fit in MaxColumns columns
	Dropped int
}

// MaxColumnHeight is the room left for text in a viewport of the given height.
func MaxColumnHeight(viewportHeight int) float64 {
	return float64(viewportHeight - containerPadding - infoSectionHeight - bottomReserve)
}

// ContainerWidth is the width of the horizontal strip holding n columns
// followed by the project images.
func ContainerWidth(columnCount int, columnWidth, columnGap float64) float64 {
	gaps := columnCount - 1
	if gaps < 0 {
		gaps = 0
	}
	columnsSpace := float64(columnCount)*columnWidth + float64(gaps)*columnGap
	imageSpace := estimatedImages*imageWidth + estimatedImages*imageMargin
	return containerPadding + columnsSpace + imageSpace
}

// Columnize distributes the words of blocks over columns no taller than the
// viewport allows. Empty text yields a single first column with blocks as is.
func Columnize(blocks []string, opts Options) Result {
	opts = opts.withDefaults()
	res := Result{MaxColumnHeight: MaxColumnHeight(opts.ViewportHeight)}

	allText := ExtractText(blocks)
	if allText == "" {
		res.Columns = []Column{{Index: 0, Paragraphs: blocks}}
		res.ContainerWidth = ContainerWidth(1, opts.ColumnWidth, opts.ColumnGap)
		return res
	}

	remaining := strings.Fields(allText)
	for columnIndex := 0; len(remaining) > 0 && columnIndex < MaxColumns; columnIndex++ {
		columnWords := buildSingleColumn(remaining, opts, res.MaxColumnHeight)
		if paragraphs := Paragraphs(strings.Join(columnWords, " ")); len(paragraphs) > 0 {
			res.Columns = append(res.Columns, Column{Index: len(res.Columns), Paragraphs: paragraphs})
		}
		remaining = remaining[len(columnWords):]
	}
	res.Dropped = len(remaining)
	res.ContainerWidth = ContainerWidth(len(res.Columns), opts.ColumnWidth, opts.ColumnGap)
	return res
}

// buildSingleColumn takes words while the column still fits, at least one.
func buildSingleColumn(remaining []string, opts Options, maxHeight float64) []string {
	n := 0
	for n < len(remaining) {
		test := strings.Join(remaining[:n+1], " ")
		if n > 0 && opts.Measurer.Height(Paragraphs(test), opts.ColumnWidth) > maxHeight {
			break
		}
		n++
	}
	if n == 0 && len(remaining) > 0 {
		n = 1
	}
	return remaining[:n]
}
