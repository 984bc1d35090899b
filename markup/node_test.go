package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindByTagName(t *testing.T) {
	assert.Equal(t, KindBold, KindByTagName("b"))
	assert.Equal(t, KindStrike, KindByTagName("del"))
	assert.Equal(t, KindHeader, KindByTagName("h1"))
	assert.Equal(t, KindHeader, KindByTagName("h4"))
	assert.Equal(t, KindRoot, KindByTagName(""))
	assert.Equal(t, KindUnknown, KindByTagName("marquee"))
}

func TestHeaderLevel(t *testing.T) {
	assert.Equal(t, 3, (&Tag{Kind: KindHeader, Name: "h3"}).HeaderLevel())
	assert.Equal(t, 1, (&Tag{Kind: KindHeader}).HeaderLevel())
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewRoot(
		Bold(Text("foo")),
		Colored(Red, nil, Slot("slt")),
	)
	copied := orig.Clone()
	assert.Equal(t, orig, copied)

	copied.Children[0].(*Tag).Children[0] = Text("changed")
	copied.Children[1].(*Tag).SetAttr(AttrColor, Blue)
	assert.Equal(t, Text("foo"), orig.Children[0].(*Tag).Children[0])
	fg, _ := orig.Children[1].(*Tag).Attr(AttrColor)
	assert.Equal(t, Red, fg)
}

func TestFillSlots(t *testing.T) {
	tmpl := NewRoot(Text("foo "), Bold(Slot("slt"), Text(" bar")))

	filled := FillSlots(tmpl, map[string]interface{}{"slt": "baz"})
	assert.Equal(t,
		NewRoot(Text("foo "), Bold(Text("baz"), Text(" bar"))),
		filled)

	// The template itself is untouched
	assert.Equal(t, NewRoot(Text("foo "), Bold(Slot("slt"), Text(" bar"))), tmpl)
}

func TestFillSlotsWithNode(t *testing.T) {
	tmpl := NewRoot(Slot("slt"))
	filled := FillSlots(tmpl, map[string]interface{}{"slt": Bold(Text("x"))})
	assert.Equal(t, NewRoot(Bold(Text("x"))), filled)
}

func TestFillSlotsUnbound(t *testing.T) {
	tmpl := NewRoot(Text("foo"), Slot("slt"))
	filled := FillSlots(tmpl, map[string]interface{}{"other": "x"})
	assert.Equal(t, NewRoot(Text("foo"), Slot("slt")), filled)
}

func TestFillSlotsDeferredAttr(t *testing.T) {
	deferred := &Tag{Kind: KindRoot, Children: []Node{Slot("slt")}}
	font := NewTag(KindFont, Text("foo"))
	font.SetAttr(AttrColor, deferred)
	tmpl := NewRoot(font)

	// Fully resolved subtrees collapse to a plain value
	filled := FillSlots(tmpl, map[string]interface{}{"slt": "red"}).(*Tag)
	fg, ok := filled.Children[0].(*Tag).Attr(AttrColor)
	assert.True(t, ok)
	assert.Equal(t, "red", fg)

	filled = FillSlots(tmpl, map[string]interface{}{"slt": Red}).(*Tag)
	fg, _ = filled.Children[0].(*Tag).Attr(AttrColor)
	assert.Equal(t, Red, fg)

	// Unbound slots keep the subtree for a later fill pass
	unfilled := FillSlots(tmpl, nil).(*Tag)
	fg, _ = unfilled.Children[0].(*Tag).Attr(AttrColor)
	assert.Equal(t, deferred, fg)
}

func TestAttrString(t *testing.T) {
	assert.Equal(t, "red", AttrString("red"))
	assert.Equal(t, "red", AttrString(Red))
	assert.Equal(t, "#123", AttrString(HexColor("#123")))
	deferred := &Tag{Kind: KindRoot, Children: []Node{Text("color:"), Slot("slt"), Text(";")}}
	assert.Equal(t, "color:;", AttrString(deferred))
}

func TestAttrColorValue(t *testing.T) {
	assert.Equal(t, Red, AttrColorValue(Red))
	assert.Equal(t, HexColor("#123"), AttrColorValue(HexColor("#123")))
	assert.Equal(t, Red, AttrColorValue("red"))
	assert.Nil(t, AttrColorValue("not-a-color"))
	assert.Nil(t, AttrColorValue(nil))
}

type eventRecorder struct {
	events []string
}

func (r *eventRecorder) StartTag(t *Tag)        { r.events = append(r.events, "<"+t.TagName()+">") }
func (r *eventRecorder) Data(text string)       { r.events = append(r.events, text) }
func (r *eventRecorder) HandleSlot(name string) { r.events = append(r.events, "$"+name) }
func (r *eventRecorder) EndTag(t *Tag)          { r.events = append(r.events, "</"+t.TagName()+">") }

func TestWalkOrder(t *testing.T) {
	tree := NewRoot(
		Text("a"),
		Bold(Text("b"), Underlined(Slot("s"))),
		Text("c"),
	)
	r := &eventRecorder{}
	Walk(tree, r)
	assert.Equal(t, []string{
		"<>", "a", "<b>", "b", "<u>", "$s", "</u>", "</b>", "c", "</>",
	}, r.events)
}
