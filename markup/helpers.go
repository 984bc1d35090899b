package markup

// Builders for constructing styled trees in code, mirroring the wire
// tags the codecs produce.

// Bold wraps children in a bold tag.
func Bold(children ...Node) *Tag {
	return NewTag(KindBold, children...)
}

// Italic wraps children in an italic tag.
func Italic(children ...Node) *Tag {
	return NewTag(KindItalic, children...)
}

// Underlined wraps children in an underline tag.
func Underlined(children ...Node) *Tag {
	return NewTag(KindUnderline, children...)
}

// Strike wraps children in a strike-through tag.
func Strike(children ...Node) *Tag {
	return NewTag(KindStrike, children...)
}

// Colored wraps children in a font tag with the given foreground and an
// optional background (nil for none).
func Colored(fg Color, bg Color, children ...Node) *Tag {
	t := NewTag(KindFont, children...)
	t.SetAttr(AttrColor, fg)
	if bg != nil {
		t.SetAttr(AttrBackground, bg)
	}
	return t
}

// Rainbow wraps children in a rainbow tag; the IRC and Matrix renderers
// assign a smoothly varying color per visible character.
func Rainbow(children ...Node) *Tag {
	return NewTag(KindRainbow, children...)
}

// Link wraps children in an anchor pointing at href.
func Link(href string, children ...Node) *Tag {
	t := NewTag(KindAnchor, children...)
	t.SetAttr(AttrHref, href)
	return t
}

// Br is a line break.
func Br() *Tag {
	return NewTag(KindBreak)
}
