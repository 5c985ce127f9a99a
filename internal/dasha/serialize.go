package dasha

import (
	"strings"

	"github.com/jatakam/dashatree/internal/calendar"
)

// Section headers preceding each group of children, keyed by the children's
// level. These exact strings are load-bearing: the parser matches on them.
var sectionHeaders = map[Level]string{
	LevelAntara:   "Antardasas in this MD:",
	LevelPratyant: "Pratyantardasas in this AD:",
	LevelSookshma: "Sookshma-antardasas in this PD:",
}

const indentStep = "    "

// Serialize renders a period tree into the canonical flat-text micro-format:
// a header line naming the system, a summary block listing every Level-1
// period by full name, then one detailed block per Level-1 period with
// MD/AD/PD/SD lines indented four spaces per level. Periods with an empty
// span are never emitted. The output is a pure function of the tree.
func Serialize(sys System, tree []*Period) string {
	var b strings.Builder
	b.WriteString(sys.Name)
	b.WriteString(":\n")
	b.WriteString("Maha Dasas:\n")

	for _, md := range tree {
		if !md.End.After(md.Start) {
			continue
		}
		b.WriteString("  ")
		b.WriteString(sys.Names.Full(md.Unit))
		b.WriteString(": ")
		writeSpan(&b, md)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	for _, md := range tree {
		if !md.End.After(md.Start) {
			continue
		}
		writeBlock(&b, sys, md)
		b.WriteByte('\n')
	}
	return b.String()
}

// writeBlock emits one detailed period line plus, recursively, its child
// group with a section header and a trailing blank line.
func writeBlock(b *strings.Builder, sys System, p *Period) {
	indent := strings.Repeat(indentStep, int(p.Level-1))
	b.WriteString(indent)
	b.WriteString(sys.Names.Short(p.Unit))
	b.WriteByte(' ')
	b.WriteString(p.Level.Tag())
	b.WriteString(": ")
	writeSpan(b, p)
	b.WriteByte('\n')

	if p.Level >= LevelSookshma {
		return
	}
	b.WriteString(indent)
	b.WriteString(sectionHeaders[p.Level+1])
	b.WriteByte('\n')
	for _, c := range p.Children {
		if !c.End.After(c.Start) {
			continue
		}
		writeBlock(b, sys, c)
	}
	b.WriteByte('\n')
}

func writeSpan(b *strings.Builder, p *Period) {
	b.WriteString(calendar.Format(p.Start))
	b.WriteString(" - ")
	b.WriteString(calendar.Format(p.End))
}
