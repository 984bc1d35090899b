package htmlfmt

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/qaisjp/go-chat-markup/markup"
)

func matrixColorValue(v interface{}) string {
	switch c := v.(type) {
	case markup.ColorCode:
		return c.HTMLName()
	case markup.HexColor:
		return string(c)
	}
	return markup.AttrString(v)
}

type matrixRainbow struct {
	tag   *markup.Tag
	total int
	index int
}

type matrixWriter struct {
	out     strings.Builder
	closers []string
	rainbow *matrixRainbow
}

func (w *matrixWriter) StartTag(t *markup.Tag) {
	if t.Kind == markup.KindRoot {
		w.closers = append(w.closers, "")
		return
	}
	if t.Kind == markup.KindRainbow {
		// A rainbow inside a rainbow is transparent; the outer one keeps
		// coloring its runes.
		if w.rainbow == nil {
			if total := textRuneCount(t); total > 0 {
				w.rainbow = &matrixRainbow{tag: t, total: total}
			}
		}
		w.closers = append(w.closers, "")
		return
	}
	if t.Kind == markup.KindBreak {
		w.out.WriteString("<br/>")
		w.closers = append(w.closers, "")
		return
	}

	var open, closer string
	wrap := func(name string) {
		open += "<" + name + ">"
		closer = "</" + name + ">" + closer
	}
	if t.BoolAttr(markup.AttrBold) {
		wrap("b")
	}
	if t.BoolAttr(markup.AttrStrike) {
		wrap("del")
	}
	if t.BoolAttr(markup.AttrUnderline) {
		wrap("u")
	}
	if t.BoolAttr(markup.AttrItalic) {
		wrap("i")
	}

	switch t.Kind {
	case markup.KindBold:
		wrap("b")
	case markup.KindItalic:
		wrap("i")
	case markup.KindUnderline:
		wrap("u")
	case markup.KindStrike:
		wrap("del")
	case markup.KindAnchor:
		href, _ := t.Attr(markup.AttrHref)
		open += `<a href="` + html.EscapeString(markup.AttrString(href)) + `">`
		closer = "</a>" + closer
	default:
		// Colored containers all render as font, the element with the
		// widest client support.
		if t.HasColorAttrs() {
			open += "<font"
			if fg, ok := t.Attr(markup.AttrColor); ok {
				open += ` color="` + matrixColorValue(fg) + `"`
			}
			if bg, ok := t.Attr(markup.AttrBackground); ok {
				open += ` data-mx-bg-color="` + matrixColorValue(bg) + `"`
			}
			open += ">"
			closer = "</font>" + closer
		} else if name := t.TagName(); name != "" && t.Kind != markup.KindUnknown {
			wrap(name)
		}
	}

	w.out.WriteString(open)
	w.closers = append(w.closers, closer)
}

func (w *matrixWriter) Data(text string) {
	if w.rainbow == nil {
		w.out.WriteString(html.EscapeString(text))
		return
	}
	for _, r := range text {
		hex := markup.RainbowHex(float64(w.rainbow.index) / float64(w.rainbow.total))
		w.rainbow.index++
		w.out.WriteString(`<font color="` + hex + `">`)
		w.out.WriteString(html.EscapeString(string(r)))
		w.out.WriteString("</font>")
	}
}

func (w *matrixWriter) HandleSlot(name string) {}

func (w *matrixWriter) EndTag(t *markup.Tag) {
	closer := w.closers[len(w.closers)-1]
	w.closers = w.closers[:len(w.closers)-1]
	w.out.WriteString(closer)
	if w.rainbow != nil && w.rainbow.tag == t {
		w.rainbow = nil
	}
}

type textCounter struct{ runes int }

func (c *textCounter) StartTag(t *markup.Tag) {}
func (c *textCounter) HandleSlot(name string) {}
func (c *textCounter) EndTag(t *markup.Tag)   {}
func (c *textCounter) Data(text string) {
	c.runes += utf8.RuneCountInString(text)
}

func textRuneCount(n markup.Node) int {
	c := &textCounter{}
	markup.Walk(n, c)
	return c.runes
}

// ToMatrix renders a markup tree as Matrix-flavored HTML: semantic
// wrapper elements around font tags for color, with rainbow text
// expanded to one font element per rune.
func ToMatrix(n markup.Node) string {
	if text, ok := n.(markup.Text); ok {
		return html.EscapeString(string(text))
	}
	w := &matrixWriter{}
	markup.Walk(n, w)
	return w.out.String()
}
