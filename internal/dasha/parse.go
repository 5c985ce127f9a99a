package dasha

import (
	"regexp"
	"strings"
	"time"

	"github.com/jatakam/dashatree/internal/calendar"
)

// isoLayout is the ISO-8601 rendering used in the nested JSON artifact.
const isoLayout = "2006-01-02T15:04:05"

// ParsedPeriod is one node of a parser-built tree. It is independent of the
// builder's Period: the parser owns its own structure. StartText/EndText
// hold the ISO-8601 rendering when the date parsed, or the verbatim input
// token when it did not (flagged by StartValid/EndValid and a warning).
type ParsedPeriod struct {
	Level      int             `json:"level"`
	PeriodType string          `json:"period_type"`
	Name       string          `json:"name"`
	StartText  string          `json:"start_datetime"`
	EndText    string          `json:"end_datetime"`
	SubPeriods []*ParsedPeriod `json:"sub_periods"`

	Start       time.Time `json:"-"`
	End         time.Time `json:"-"`
	StartValid  bool      `json:"-"`
	EndValid    bool      `json:"-"`
	FromSummary bool      `json:"-"`
}

// WarningKind classifies a recoverable parse problem.
type WarningKind string

const (
	// WarnAdjacency marks a period line whose level does not fit the
	// currently open context (e.g. a PD directly under an MD). The node is
	// dropped but the parse continues.
	WarnAdjacency WarningKind = "adjacency"
	// WarnBadDate marks a timestamp token that matched the line shape but
	// failed to parse as a civil date. The node is kept with the verbatim
	// token.
	WarnBadDate WarningKind = "bad_date"
)

// Warning records one recoverable parse problem with its source line.
type Warning struct {
	Kind          WarningKind
	Line          int    // 1-based input line number
	Text          string // the offending line, trimmed
	ExpectedLevel int    // adjacency only: the level that would have fit
}

// Document is the parser's output: the system name captured from the header
// line, the Level-1 periods, and any recoverable warnings.
type Document struct {
	SystemName string
	Dasas      []*ParsedPeriod
	Warnings   []Warning
}

// Detailed returns the Level-1 periods parsed from detailed blocks,
// excluding the leafless duplicates the Maha Dasas summary block produces.
// Round-trip verification compares against these.
func (d *Document) Detailed() []*ParsedPeriod {
	var out []*ParsedPeriod
	for _, p := range d.Dasas {
		if !p.FromSummary {
			out = append(out, p)
		}
	}
	return out
}

const timestampPat = `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`

var (
	systemHeaderRe = regexp.MustCompile(`^([A-Za-z0-9\s()\-._':]+? Dasa(?: \([^)]+\))?):`)
	detailRe       = regexp.MustCompile(
		`^(?P<name>[A-Za-z0-9\s]+?)\s+(?P<tag>MD|AD|PD|SD):\s*(?P<start>` + timestampPat + `)\s*-\s*(?P<end>` + timestampPat + `)`)
	summaryRe = regexp.MustCompile(
		`^(?P<name>[A-Za-z0-9\s]+?):\s*(?P<start>` + timestampPat + `)\s*-\s*(?P<end>` + timestampPat + `)`)
)

// sectionHeaderLevels recognizes the group headers the serializer emits.
// Only "Maha Dasas:" opens the summary block.
var sectionHeaderLevels = map[string]Level{
	"Maha Dasas:":                     LevelMaha,
	"Antardasas in this MD:":          LevelAntara,
	"Pratyantardasas in this AD:":     LevelPratyant,
	"Sookshma-antardasas in this PD:": LevelSookshma,
}

// Parse reconstructs a period tree from micro-format text. It is a
// single-pass, line-oriented state machine: a stack of open nodes tracks
// nesting, a mode flag tracks the Maha Dasas summary block, and anything
// that matches neither a header nor a period line is ignored. Parse never
// fails; malformed structure surfaces as Warnings on the Document.
func Parse(text string) *Document {
	doc := &Document{Dasas: []*ParsedPeriod{}}

	var stack []*ParsedPeriod
	inSummary := false
	headerSeen := false

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := systemHeaderRe.FindStringSubmatch(line); m != nil {
			if !headerSeen {
				doc.SystemName = strings.TrimSpace(m[1])
				headerSeen = true
			}
			continue
		}

		if _, ok := sectionHeaderLevels[line]; ok {
			inSummary = line == "Maha Dasas:"
			continue
		}

		var node *ParsedPeriod
		var level Level
		if m := detailRe.FindStringSubmatch(line); m != nil {
			level = tagToLevel(m[2])
			node = newParsedPeriod(doc, level, m[1], m[3], m[4], lineNo, line)
			inSummary = false
		} else if inSummary {
			if m := summaryRe.FindStringSubmatch(line); m != nil {
				level = LevelMaha
				node = newParsedPeriod(doc, level, m[1], m[2], m[3], lineNo, line)
				node.FromSummary = true
			}
		}
		if node == nil {
			continue
		}

		for len(stack) > 0 && Level(stack[len(stack)-1].Level) >= level {
			stack = stack[:len(stack)-1]
		}
		switch {
		case len(stack) == 0 && level == LevelMaha:
			doc.Dasas = append(doc.Dasas, node)
			stack = append(stack, node)
		case len(stack) > 0 && int(level) == stack[len(stack)-1].Level+1:
			parent := stack[len(stack)-1]
			parent.SubPeriods = append(parent.SubPeriods, node)
			stack = append(stack, node)
		default:
			expected := 1
			if len(stack) > 0 {
				expected = stack[len(stack)-1].Level + 1
			}
			doc.Warnings = append(doc.Warnings, Warning{
				Kind:          WarnAdjacency,
				Line:          lineNo,
				Text:          line,
				ExpectedLevel: expected,
			})
		}
	}
	return doc
}

// newParsedPeriod builds a candidate node from matched line fields,
// expanding the unit name and parsing both timestamps. A timestamp that
// fails to parse is carried through verbatim and flagged with a warning,
// never coerced to a valid-looking date.
func newParsedPeriod(doc *Document, level Level, name, start, end string, lineNo int, line string) *ParsedPeriod {
	p := &ParsedPeriod{
		Level:      int(level),
		PeriodType: level.TypeName(),
		Name:       ExpandName(strings.TrimSpace(name)),
		SubPeriods: []*ParsedPeriod{},
	}
	p.Start, p.StartText, p.StartValid = parseStamp(start)
	p.End, p.EndText, p.EndValid = parseStamp(end)
	if !p.StartValid || !p.EndValid {
		doc.Warnings = append(doc.Warnings, Warning{Kind: WarnBadDate, Line: lineNo, Text: line})
	}
	return p
}

// parseStamp parses one timestamp token, returning the instant, the text to
// carry into the artifact (ISO-8601 or verbatim), and validity.
func parseStamp(s string) (time.Time, string, bool) {
	t, err := calendar.Parse(s)
	if err != nil {
		return time.Time{}, s, false
	}
	return t, t.Format(isoLayout), true
}
