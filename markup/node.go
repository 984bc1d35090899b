package markup

import "fmt"

// Node is one vertex of a markup tree: a tag, a plain-text leaf or a
// named slot placeholder. The tree is the pivot format between all wire
// encodings (IRC control codes, HTML, Matrix HTML, plain text).
//
// Trees are owned top-down and never hold parent pointers; traversals
// carry ancestor state on explicit stacks instead.
type Node interface {
	node()
}

// Text is a plain-text leaf.
type Text string

func (Text) node() {}

// Slot is a named placeholder leaf, resolved by FillSlots at render
// time. A slot without a binding renders as empty text.
type Slot string

func (Slot) node() {}

// TagKind is the closed set of supported tag types. Anything outside the
// allow-list decodes as KindUnknown and degrades to a transparent
// passthrough of its children.
type TagKind int

const (
	KindRoot TagKind = iota
	KindBold
	KindItalic
	KindUnderline
	KindStrike
	KindFont
	KindSpan
	KindDiv
	KindPara
	KindBreak
	KindAnchor
	KindHeader
	KindRainbow
	KindUnknown
)

var kindNames = map[TagKind]string{
	KindRoot:      "",
	KindBold:      "b",
	KindItalic:    "i",
	KindUnderline: "u",
	KindStrike:    "del",
	KindFont:      "font",
	KindSpan:      "span",
	KindDiv:       "div",
	KindPara:      "p",
	KindBreak:     "br",
	KindAnchor:    "a",
	KindHeader:    "h1",
	KindRainbow:   "rainbow",
	KindUnknown:   "",
}

// KindByTagName maps a canonical tag name back to its kind. Heading
// names h1..h6 map to KindHeader; anything unrecognized is KindUnknown.
func KindByTagName(name string) TagKind {
	switch name {
	case "":
		return KindRoot
	case "b":
		return KindBold
	case "i":
		return KindItalic
	case "u":
		return KindUnderline
	case "del":
		return KindStrike
	case "font":
		return KindFont
	case "span":
		return KindSpan
	case "div":
		return KindDiv
	case "p":
		return KindPara
	case "br":
		return KindBreak
	case "a":
		return KindAnchor
	case "rainbow":
		return KindRainbow
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return KindHeader
	}
	return KindUnknown
}

// Attribute names used by the codecs.
const (
	AttrColor      = "color"
	AttrBackground = "background-color"
	AttrHref       = "href"
	AttrBold       = "bold"
	AttrItalic     = "italic"
	AttrUnderline  = "underline"
	AttrStrike     = "strike"
	AttrStyle      = "style"
)

// Attr is a single tag attribute. Value holds a string, bool, ColorCode,
// HexColor, or *Tag (a deferred attribute value containing slots).
type Attr struct {
	Name  string
	Value interface{}
}

// Tag is an element node with ordered attributes and children.
type Tag struct {
	Kind TagKind
	// Name carries the concrete tag name where the kind alone is not
	// enough: unknown tags and headers ("h1".."h6").
	Name     string
	Attrs    []Attr
	Children []Node
}

func (*Tag) node() {}

// NewTag creates a tag of the given kind.
func NewTag(kind TagKind, children ...Node) *Tag {
	return &Tag{Kind: kind, Children: children}
}

// NewRoot creates the unnamed container node that anchors a tree.
func NewRoot(children ...Node) *Tag {
	return &Tag{Kind: KindRoot, Children: children}
}

// TagName returns the wire name for this tag.
func (t *Tag) TagName() string {
	if t.Name != "" {
		return t.Name
	}
	return kindNames[t.Kind]
}

// Add appends children and returns the tag for chaining.
func (t *Tag) Add(children ...Node) *Tag {
	t.Children = append(t.Children, children...)
	return t
}

// Attr returns the value of a named attribute.
func (t *Tag) Attr(name string) (interface{}, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// SetAttr sets a named attribute, keeping attribute order stable when
// overwriting. It returns the tag for chaining.
func (t *Tag) SetAttr(name string, value interface{}) *Tag {
	for i := range t.Attrs {
		if t.Attrs[i].Name == name {
			t.Attrs[i].Value = value
			return t
		}
	}
	t.Attrs = append(t.Attrs, Attr{Name: name, Value: value})
	return t
}

// BoolAttr reports whether a boolean style attribute is set.
func (t *Tag) BoolAttr(name string) bool {
	v, ok := t.Attr(name)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// HasColorAttrs reports whether the tag carries its own color
// information. A tag that does replaces the inherited foreground and
// background entirely; its unset side means "no color", not "inherit".
func (t *Tag) HasColorAttrs() bool {
	if _, ok := t.Attr(AttrColor); ok {
		return true
	}
	_, ok := t.Attr(AttrBackground)
	return ok
}

// HeaderLevel returns the heading depth for KindHeader tags, 1..6.
func (t *Tag) HeaderLevel() int {
	if t.Kind != KindHeader || len(t.Name) != 2 {
		return 1
	}
	if l := int(t.Name[1] - '0'); l >= 1 && l <= 6 {
		return l
	}
	return 1
}

// Clone returns a deep copy of the node. Attribute values that are
// deferred subtrees are cloned as well.
func Clone(n Node) Node {
	switch v := n.(type) {
	case Text, Slot:
		return v
	case *Tag:
		return v.Clone()
	}
	return n
}

// Clone returns a deep copy of the tag.
func (t *Tag) Clone() *Tag {
	out := &Tag{Kind: t.Kind, Name: t.Name}
	if len(t.Attrs) > 0 {
		out.Attrs = make([]Attr, len(t.Attrs))
		for i, a := range t.Attrs {
			if sub, ok := a.Value.(*Tag); ok {
				out.Attrs[i] = Attr{Name: a.Name, Value: sub.Clone()}
			} else {
				out.Attrs[i] = a
			}
		}
	}
	if len(t.Children) > 0 {
		out.Children = make([]Node, len(t.Children))
		for i, c := range t.Children {
			out.Children[i] = Clone(c)
		}
	}
	return out
}

// FillSlots returns a deep copy of the node with every bound slot leaf
// replaced by its binding value (string, Node, ColorCode or HexColor)
// and deferred attribute subtrees resolved where possible. The receiver
// is never mutated, so a canonical template tree stays reusable across
// renders. Unbound slots are kept for a later fill pass.
func FillSlots(n Node, bindings map[string]interface{}) Node {
	switch v := n.(type) {
	case Text:
		return v
	case Slot:
		if val, ok := bindings[string(v)]; ok {
			return bindingToNode(val)
		}
		return v
	case *Tag:
		out := &Tag{Kind: v.Kind, Name: v.Name}
		for _, a := range v.Attrs {
			if sub, ok := a.Value.(*Tag); ok {
				out.Attrs = append(out.Attrs, Attr{Name: a.Name, Value: fillAttr(sub, bindings)})
			} else {
				out.Attrs = append(out.Attrs, a)
			}
		}
		for _, c := range v.Children {
			out.Children = append(out.Children, FillSlots(c, bindings))
		}
		return out
	}
	return n
}

// FillSlots is the tag-level convenience form of the package function.
func (t *Tag) FillSlots(bindings map[string]interface{}) *Tag {
	return FillSlots(t, bindings).(*Tag)
}

func bindingToNode(v interface{}) Node {
	switch b := v.(type) {
	case Node:
		return Clone(b)
	case string:
		return Text(b)
	default:
		return Text(stringifyValue(v))
	}
}

// fillAttr resolves a deferred attribute subtree. When every slot in it
// is bound the subtree collapses to a plain value; otherwise it stays a
// subtree with the bound slots substituted.
func fillAttr(t *Tag, bindings map[string]interface{}) interface{} {
	parts := make([]interface{}, 0, len(t.Children))
	unresolved := false
	for _, c := range t.Children {
		switch v := c.(type) {
		case Text:
			parts = append(parts, string(v))
		case Slot:
			if val, ok := bindings[string(v)]; ok {
				parts = append(parts, val)
			} else {
				unresolved = true
				parts = append(parts, v)
			}
		case *Tag:
			parts = append(parts, fillAttr(v, bindings))
		}
	}
	if unresolved {
		out := &Tag{Kind: t.Kind, Name: t.Name}
		for _, p := range parts {
			out.Children = append(out.Children, attrPartToNode(p))
		}
		return out
	}
	if len(parts) == 1 {
		return parts[0]
	}
	joined := ""
	for _, p := range parts {
		joined += stringifyValue(p)
	}
	return joined
}

func attrPartToNode(p interface{}) Node {
	switch v := p.(type) {
	case Node:
		return v
	case string:
		return Text(v)
	default:
		return Text(stringifyValue(p))
	}
}

func stringifyValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case Text:
		return string(s)
	case ColorCode:
		return s.Name()
	case HexColor:
		return string(s)
	case *Tag:
		return ToPlaintext(s)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// AttrString resolves an attribute value to a string: literal values
// directly, deferred subtrees by concatenating their resolved content
// (unbound slots contribute nothing).
func AttrString(v interface{}) string {
	return stringifyValue(v)
}

// AttrColorValue interprets an attribute value as a Color. Literal
// strings are parsed as hex or color names; unresolvable values yield
// nil.
func AttrColorValue(v interface{}) Color {
	switch c := v.(type) {
	case ColorCode:
		return c
	case HexColor:
		return c
	case nil:
		return nil
	}
	s := stringifyValue(v)
	if s == "" {
		return nil
	}
	col, err := ParseColor(s)
	if err != nil {
		return nil
	}
	return col
}

// Processor receives traversal events from Walk, in document order.
type Processor interface {
	StartTag(t *Tag)
	Data(text string)
	HandleSlot(name string)
	EndTag(t *Tag)
}

type walkItem struct {
	n     Node
	depth int
}

type openTag struct {
	t     *Tag
	depth int
}

// Walk traverses a tree depth-first with an explicit stack, emitting
// start/data/slot/end events. StartTag and EndTag are also emitted for
// the root container.
func Walk(n Node, p Processor) {
	stack := []walkItem{{n, 0}}
	var open []openTag
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for len(open) > 0 && item.depth <= open[len(open)-1].depth {
			p.EndTag(open[len(open)-1].t)
			open = open[:len(open)-1]
		}
		switch v := item.n.(type) {
		case Text:
			p.Data(string(v))
		case Slot:
			p.HandleSlot(string(v))
		case *Tag:
			open = append(open, openTag{v, item.depth})
			p.StartTag(v)
			for i := len(v.Children) - 1; i >= 0; i-- {
				stack = append(stack, walkItem{v.Children[i], item.depth + 1})
			}
		}
	}
	for len(open) > 0 {
		p.EndTag(open[len(open)-1].t)
		open = open[:len(open)-1]
	}
}
