package htmlfmt

import (
	"html"
	"regexp"
	"strings"

	"github.com/qaisjp/go-chat-markup/markup"
)

var urlRegexp = regexp.MustCompile(`(((https?)|(ftps?)|(sftp))://[^\s"')]+)`)

// RainbowStyleCSS renders rainbow text on surfaces that support
// gradient-clipped backgrounds.
const RainbowStyleCSS = "background:linear-gradient(to right, red, darkorange, " +
	"green, cyan, blue, magenta);color:transparent;" +
	"background-clip:text;-webkit-background-clip:text"

func cssColorValue(v interface{}) string {
	switch c := v.(type) {
	case markup.ColorCode:
		return c.HTMLName()
	case markup.HexColor:
		return string(c)
	}
	return markup.AttrString(v)
}

// modernizeAttrs rewrites legacy styling attributes as one CSS style
// attribute. The returned value is a string, or a deferred subtree when
// a color attribute still holds unbound slots.
func modernizeAttrs(t *markup.Tag) (interface{}, []markup.Attr) {
	var css strings.Builder
	var deferredParts []markup.Node
	var kept []markup.Attr

	appendColor := func(prop string, v interface{}) {
		if sub, ok := v.(*markup.Tag); ok {
			deferredParts = append(deferredParts, markup.Text(prop+":"))
			deferredParts = append(deferredParts, sub.Children...)
			deferredParts = append(deferredParts, markup.Text(";"))
			return
		}
		css.WriteString(prop + ":" + cssColorValue(v) + ";")
	}

	for _, a := range t.Attrs {
		switch a.Name {
		case markup.AttrColor:
			appendColor("color", a.Value)
		case markup.AttrBackground:
			appendColor("background-color", a.Value)
		case markup.AttrBold:
			css.WriteString("font-weight:bold;")
		case markup.AttrItalic:
			css.WriteString("font-style:italic;")
		case markup.AttrStrike:
			css.WriteString("text-decoration:line-through;")
		case markup.AttrUnderline:
			css.WriteString("text-decoration:underline;")
		default:
			kept = append(kept, a)
		}
	}

	if len(deferredParts) > 0 {
		root := markup.NewRoot()
		if css.Len() > 0 {
			root.Add(markup.Text(css.String()))
		}
		root.Add(deferredParts...)
		return root, kept
	}
	if css.Len() > 0 {
		return css.String(), kept
	}
	return nil, kept
}

// Modernize rewrites legacy attribute styling (font color=..., boolean
// style attributes, rainbow) into CSS style attributes. Slots survive,
// including ones inside deferred attribute values. The input is not
// mutated.
func Modernize(n markup.Node) markup.Node {
	t, ok := n.(*markup.Tag)
	if !ok {
		return markup.Clone(n)
	}

	out := &markup.Tag{Kind: t.Kind, Name: t.Name}
	style, kept := modernizeAttrs(t)
	switch {
	case t.Kind == markup.KindRainbow:
		out.Kind, out.Name = markup.KindSpan, ""
		style = RainbowStyleCSS
	case t.Kind == markup.KindFont:
		out.Kind = markup.KindSpan
	}
	out.Attrs = kept
	if style != nil {
		out.SetAttr(markup.AttrStyle, style)
	}
	for _, c := range t.Children {
		out.Children = append(out.Children, Modernize(c))
	}
	return out
}

type htmlWriter struct {
	out      strings.Builder
	linkURLs bool
	closers  []string
}

var urlReplacement = `<a href="$1">$1</a>`

func (w *htmlWriter) StartTag(t *markup.Tag) {
	if t.Kind == markup.KindRoot {
		w.closers = append(w.closers, "")
		return
	}
	if t.Kind == markup.KindBreak {
		w.out.WriteString("<br/>")
		w.closers = append(w.closers, "")
		return
	}
	name := t.TagName()
	w.out.WriteString("<" + name)
	for _, a := range t.Attrs {
		w.out.WriteString(" " + a.Name + `="`)
		w.out.WriteString(html.EscapeString(markup.AttrString(a.Value)))
		w.out.WriteString(`"`)
	}
	w.out.WriteString(">")
	w.closers = append(w.closers, "</"+name+">")
}

func (w *htmlWriter) Data(text string) {
	escaped := html.EscapeString(text)
	if w.linkURLs {
		escaped = urlRegexp.ReplaceAllString(escaped, urlReplacement)
	}
	w.out.WriteString(escaped)
}

func (w *htmlWriter) HandleSlot(name string) {}

func (w *htmlWriter) EndTag(t *markup.Tag) {
	closer := w.closers[len(w.closers)-1]
	w.closers = w.closers[:len(w.closers)-1]
	w.out.WriteString(closer)
}

// ToHTML renders a markup tree as a restricted-HTML string with CSS
// styling. Legacy attribute styling is modernized first; URLs in text
// become anchors unless linkURLs is false.
func ToHTML(n markup.Node, linkURLs bool) string {
	if text, ok := n.(markup.Text); ok {
		w := &htmlWriter{linkURLs: linkURLs}
		w.Data(string(text))
		return w.out.String()
	}
	w := &htmlWriter{linkURLs: linkURLs}
	markup.Walk(Modernize(n), w)
	return w.out.String()
}
