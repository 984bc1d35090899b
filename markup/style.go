package markup

// Tri is a tri-state style attribute. The zero value inherits the
// enclosing scope's resolved value.
type Tri int8

const (
	Inherit Tri = iota
	On
	Off
)

// Resolve collapses the tri-state against a resolved parent value.
func (t Tri) Resolve(parent bool) bool {
	switch t {
	case On:
		return true
	case Off:
		return false
	}
	return parent
}

// Style is the formatting state of a text run. Fg and Bg are nil when
// no color applies.
type Style struct {
	Underline Tri
	Bold      Tri
	Italic    Tri
	Strike    Tri
	Fg        Color
	Bg        Color
}

// IsZero reports whether no attribute is set.
func (s Style) IsZero() bool {
	return s == Style{}
}

// TagStyle extracts the style a tag contributes on its own, before any
// inheritance: its kind plus its boolean and color attributes.
func TagStyle(t *Tag) Style {
	var s Style
	switch t.Kind {
	case KindBold:
		s.Bold = On
	case KindItalic:
		s.Italic = On
	case KindUnderline:
		s.Underline = On
	case KindStrike:
		s.Strike = On
	}
	if t.BoolAttr(AttrBold) {
		s.Bold = On
	}
	if t.BoolAttr(AttrItalic) {
		s.Italic = On
	}
	if t.BoolAttr(AttrUnderline) {
		s.Underline = On
	}
	if t.BoolAttr(AttrStrike) {
		s.Strike = On
	}
	if v, ok := t.Attr(AttrColor); ok {
		s.Fg = AttrColorValue(v)
	}
	if v, ok := t.Attr(AttrBackground); ok {
		s.Bg = AttrColorValue(v)
	}
	return s
}

// ResolveTag computes the effective style inside a tag given the
// resolved style of its parent. Toggles inherit where unset; a tag that
// carries color attributes replaces both color sides entirely.
func ResolveTag(parent Style, t *Tag) Style {
	own := TagStyle(t)
	out := parent
	if own.Underline != Inherit {
		out.Underline = own.Underline
	}
	if own.Bold != Inherit {
		out.Bold = own.Bold
	}
	if own.Italic != Inherit {
		out.Italic = own.Italic
	}
	if own.Strike != Inherit {
		out.Strike = own.Strike
	}
	if t.HasColorAttrs() {
		out.Fg = own.Fg
		out.Bg = own.Bg
	}
	return out
}

// Fragment is a run of text with one resolved style, the flat
// counterpart of a markup tree.
type Fragment struct {
	Text  string
	Style Style
}

type flattener struct {
	frags  []Fragment
	styles []Style
}

func (f *flattener) current() Style {
	return f.styles[len(f.styles)-1]
}

func (f *flattener) StartTag(t *Tag) {
	style := f.current()
	if t.Kind != KindRoot {
		style = ResolveTag(style, t)
	}
	f.styles = append(f.styles, style)
	if t.Kind == KindBreak || t.Kind == KindDiv || t.Kind == KindPara || t.Kind == KindHeader {
		f.Data("\n")
	}
}

func (f *flattener) Data(text string) {
	if text == "" {
		return
	}
	style := f.current()
	if n := len(f.frags); n > 0 && f.frags[n-1].Style == style {
		f.frags[n-1].Text += text
		return
	}
	f.frags = append(f.frags, Fragment{Text: text, Style: style})
}

func (f *flattener) HandleSlot(name string) {}

func (f *flattener) EndTag(t *Tag) {
	f.styles = f.styles[:len(f.styles)-1]
	if t.Kind == KindAnchor {
		if href, ok := t.Attr(AttrHref); ok {
			f.Data(" (" + AttrString(href) + ")")
		}
	}
	if t.Kind == KindDiv || t.Kind == KindPara || t.Kind == KindHeader {
		f.Data("\n")
	}
}

// Flatten converts a tree to a list of style-carrying text runs with
// all styles resolved against their ancestor chain. Adjacent runs with
// identical styles are merged.
func Flatten(n Node) []Fragment {
	f := &flattener{styles: []Style{{}}}
	Walk(n, f)
	return f.frags
}
