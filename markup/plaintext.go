package markup

import "strings"

type plainFormatter struct {
	buf strings.Builder
}

// newline inserts a structural line break. Breaks at the start of the
// output or directly after another break collapse away.
func (f *plainFormatter) newline() {
	if f.buf.Len() > 0 && !strings.HasSuffix(f.buf.String(), "\n") {
		f.buf.WriteByte('\n')
	}
}

func (f *plainFormatter) StartTag(t *Tag) {
	switch t.Kind {
	case KindBreak, KindDiv, KindPara:
		f.newline()
	case KindHeader:
		f.newline()
		f.buf.WriteString(strings.Repeat("#", t.HeaderLevel()) + " ")
	}
}

func (f *plainFormatter) Data(data string) {
	parts := strings.Split(data, "\n")
	f.buf.WriteString(parts[0])
	for _, part := range parts[1:] {
		// Literal newlines in text are kept verbatim.
		f.buf.WriteByte('\n')
		f.buf.WriteString(part)
	}
}

func (f *plainFormatter) HandleSlot(name string) {
	// Unfilled slots render as empty text.
}

func (f *plainFormatter) EndTag(t *Tag) {
	if t.Kind == KindAnchor {
		if href, ok := t.Attr(AttrHref); ok {
			f.buf.WriteString(" (" + AttrString(href) + ")")
		}
	}
	if t.Kind == KindDiv || t.Kind == KindPara || t.Kind == KindHeader {
		f.newline()
	}
}

// ToPlaintext projects a tree to plain text: tag and style information
// is dropped, anchors keep their target in a trailing "( href )" suffix
// and display blocks turn into line breaks. Trailing blank lines are
// trimmed.
func ToPlaintext(n Node) string {
	if t, ok := n.(Text); ok {
		return string(t)
	}
	f := &plainFormatter{}
	Walk(n, f)
	return TrimTrailingBlankLines(f.buf.String())
}

// TrimTrailingBlankLines removes line breaks that have no content after
// them.
func TrimTrailingBlankLines(s string) string {
	for {
		i := strings.LastIndexByte(s, '\n')
		if i == -1 || s[i+1:] != "" {
			return s
		}
		s = s[:i]
	}
}
