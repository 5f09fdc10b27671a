package sink

import (
	"fmt"
	"strings"

	"github.com/matzehuels/tessera/pkg/placement"
	"github.com/matzehuels/tessera/pkg/render/layout"
)

// RenderText prints original rows as a right-aligned table, "." for empty
// cells, one grid row per line.
func RenderText(l layout.Layout) []byte {
	grid := gridOf(l)
	pad := 1
	for _, c := range l.Cells {
		pad = max(pad, len(fmt.Sprint(c.Element)))
	}

	var b strings.Builder
	for _, row := range grid {
		for c, id := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			s := "."
			if id != placement.Empty {
				s = fmt.Sprint(id)
			}
			fmt.Fprintf(&b, "%*s", pad, s)
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
