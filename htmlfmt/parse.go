// Package htmlfmt converts between the markup tree and the restricted
// HTML dialect used on web and Matrix surfaces.
package htmlfmt

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/qaisjp/go-chat-markup/markup"
)

// ParseError reports input that cannot form a well-balanced tree. Bad
// attribute values never produce it, only unclosed or mismatched tags.
type ParseError struct {
	Fragment string
}

func (e *ParseError) Error() string {
	return "malformed markup near " + strconv.Quote(e.Fragment)
}

// Template pseudo-elements for deferred content.
const (
	slotTagName = "t:slot"
	attrTagName = "t:attr"
)

type htmlFrame struct {
	// srcName is the tag name as it appeared in the input, used to
	// check close-tag balance.
	srcName string
	tag     *markup.Tag
	// attrName is set for t:attr frames, which collect a deferred
	// attribute value instead of children.
	attrName string
}

// Synonym tags fold onto their canonical kinds at decode time.
var tagAliases = map[string]string{
	"strong": "b",
	"em":     "i",
	"cite":   "i",
	"strike": "del",
	"s":      "del",
}

type htmlParser struct {
	root       *markup.Tag
	stack      []htmlFrame
	allowSlots bool
}

func (p *htmlParser) topFrame() *htmlFrame {
	return &p.stack[len(p.stack)-1]
}

func (p *htmlParser) appendChild(n markup.Node) {
	t := p.topFrame().tag
	if text, ok := n.(markup.Text); ok {
		// Merge adjacent text, the tokenizer may split around entities.
		if len(t.Children) > 0 {
			if prev, ok := t.Children[len(t.Children)-1].(markup.Text); ok {
				t.Children[len(t.Children)-1] = prev + text
				return
			}
		}
	}
	t.Children = append(t.Children, n)
}

type rawAttr struct {
	name, value string
}

func tokenAttrs(z *html.Tokenizer) []rawAttr {
	var attrs []rawAttr
	for {
		key, val, more := z.TagAttr()
		attrs = append(attrs, rawAttr{string(key), string(val)})
		if !more {
			return attrs
		}
	}
}

func attrValue(attrs []rawAttr, name string) (string, bool) {
	for _, a := range attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// applyColorAttr parses a color attribute value and sets it on the tag.
// Unparsable values drop the attribute and the parse continues.
func applyColorAttr(t *markup.Tag, name, value string) {
	c, err := markup.ParseColor(strings.TrimSpace(value))
	if err != nil {
		return
	}
	t.SetAttr(name, c)
}

// applyCSS folds the declarations of a style attribute into the tag's
// own styling attributes. Unknown properties are ignored.
func applyCSS(t *markup.Tag, css string) {
	for _, decl := range strings.Split(css, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(strings.ToLower(prop))
		value = strings.TrimSpace(value)
		switch prop {
		case "color":
			applyColorAttr(t, markup.AttrColor, value)
		case "background-color":
			applyColorAttr(t, markup.AttrBackground, value)
		case "font-weight":
			if strings.EqualFold(value, "bold") {
				t.SetAttr(markup.AttrBold, true)
			}
		case "font-style":
			if strings.EqualFold(value, "italic") {
				t.SetAttr(markup.AttrItalic, true)
			}
		case "text-decoration":
			switch strings.ToLower(value) {
			case "underline":
				t.SetAttr(markup.AttrUnderline, true)
			case "line-through":
				t.SetAttr(markup.AttrStrike, true)
			}
		}
	}
}

func applyTagAttrs(t *markup.Tag, attrs []rawAttr) {
	for _, a := range attrs {
		switch a.name {
		case "style":
			applyCSS(t, a.value)
		case "color", "data-mx-color":
			applyColorAttr(t, markup.AttrColor, a.value)
		case "background-color", "data-mx-bg-color":
			applyColorAttr(t, markup.AttrBackground, a.value)
		case "href":
			if t.Kind == markup.KindAnchor {
				t.SetAttr(markup.AttrHref, a.value)
			}
		}
	}
}

func (p *htmlParser) startTag(name string, attrs []rawAttr, selfClosing bool) {
	switch name {
	case slotTagName:
		if slotName, ok := attrValue(attrs, "name"); ok && p.allowSlots {
			p.appendChild(markup.Slot(slotName))
		}
		return
	case attrTagName:
		attrName, _ := attrValue(attrs, "name")
		collector := markup.NewRoot()
		p.stack = append(p.stack, htmlFrame{
			srcName:  name,
			tag:      collector,
			attrName: attrName,
		})
		return
	case "img":
		src, _ := attrValue(attrs, "src")
		p.appendChild(markup.Text("inline image src='" + src + "'"))
		return
	case "br":
		p.appendChild(markup.NewTag(markup.KindBreak))
		return
	}

	canonical := name
	if alias, ok := tagAliases[name]; ok {
		canonical = alias
	}
	kind := markup.KindByTagName(canonical)
	if kind == markup.KindUnknown {
		// Unknown tags degrade to a passthrough of their children.
		if !selfClosing {
			p.stack = append(p.stack, htmlFrame{
				srcName: name,
				tag:     p.topFrame().tag,
			})
		}
		return
	}

	t := &markup.Tag{Kind: kind}
	if kind == markup.KindHeader {
		t.Name = canonical
	}
	applyTagAttrs(t, attrs)
	p.appendChild(t)
	if !selfClosing {
		p.stack = append(p.stack, htmlFrame{srcName: name, tag: t})
	}
}

func (p *htmlParser) endTag(name string) error {
	if len(p.stack) == 1 {
		return &ParseError{Fragment: "</" + name + ">"}
	}
	frame := *p.topFrame()
	if frame.srcName != name {
		return &ParseError{Fragment: "</" + name + ">"}
	}
	p.stack = p.stack[:len(p.stack)-1]
	if frame.srcName == attrTagName {
		p.finishAttr(frame)
	}
	return nil
}

// finishAttr attaches a collected t:attr subtree to its parent tag. A
// fully literal subtree collapses to a plain attribute value; one with
// unbound slots stays a deferred subtree. Empty content drops the
// attribute.
func (p *htmlParser) finishAttr(frame htmlFrame) {
	if frame.attrName == "" || len(frame.tag.Children) == 0 {
		return
	}
	parent := p.topFrame().tag
	// The root node carries no attributes; a top-level t:attr has no tag
	// to decorate and drops.
	if parent == p.root {
		return
	}
	deferred := false
	literal := ""
	for _, c := range frame.tag.Children {
		switch v := c.(type) {
		case markup.Text:
			literal += string(v)
		case markup.Slot:
			deferred = true
		}
	}
	if deferred {
		parent.SetAttr(frame.attrName, frame.tag)
		return
	}
	switch frame.attrName {
	case markup.AttrColor, markup.AttrBackground:
		applyColorAttr(parent, frame.attrName, literal)
	default:
		parent.SetAttr(frame.attrName, literal)
	}
}

// Parse decodes a restricted-HTML fragment into a markup tree. Slot and
// deferred-attribute pseudo-elements are honored only with allowSlots;
// otherwise they are dropped. Unclosed or mismatched tags fail the
// whole parse with a ParseError.
func Parse(input string, allowSlots bool) (*markup.Tag, error) {
	p := &htmlParser{root: markup.NewRoot(), allowSlots: allowSlots}
	p.stack = []htmlFrame{{tag: p.root}}

	z := html.NewTokenizer(strings.NewReader(input))
	for {
		switch z.Next() {
		case html.ErrorToken:
			err := z.Err()
			if err != io.EOF {
				return nil, errors.Wrap(err, "tokenizing markup")
			}
			if len(p.stack) > 1 {
				return nil, &ParseError{Fragment: "<" + p.topFrame().srcName + ">"}
			}
			return p.root, nil
		case html.TextToken:
			if text := string(z.Text()); text != "" {
				p.appendChild(markup.Text(text))
			}
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			var attrs []rawAttr
			if hasAttr {
				attrs = tokenAttrs(z)
			}
			p.startTag(string(name), attrs, false)
		case html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			var attrs []rawAttr
			if hasAttr {
				attrs = tokenAttrs(z)
			}
			p.startTag(string(name), attrs, true)
		case html.EndTagToken:
			name, _ := z.TagName()
			if err := p.endTag(string(name)); err != nil {
				return nil, err
			}
		}
		// Comments and doctypes carry no content.
	}
}
