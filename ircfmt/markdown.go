package ircfmt

import (
	"strings"

	"github.com/qaisjp/go-chat-markup/markup"
)

// Marker layout follows discord-irc's formatting.js converter.

type mdStyle struct {
	italic, bold, underline, strike bool
}

func fragmentMdStyle(f markup.Fragment) mdStyle {
	return mdStyle{
		italic:    f.Style.Italic == markup.On,
		bold:      f.Style.Bold == markup.On,
		underline: f.Style.Underline == markup.On,
		strike:    f.Style.Strike == markup.On,
	}
}

// ToMarkdown renders a markup tree as markdown text. Colors have no
// markdown equivalent and are dropped.
func ToMarkdown(n markup.Node) string {
	if text, ok := n.(markup.Text); ok {
		return string(text)
	}
	fragments := markup.Flatten(n)

	var md strings.Builder
	for i := 0; i < len(fragments)+1; i++ {
		// Default to unstyled runs when index out of range
		style, prev := mdStyle{}, mdStyle{}
		text := ""
		if i < len(fragments) {
			style = fragmentMdStyle(fragments[i])
			text = fragments[i].Text
		}
		if i > 0 {
			prev = fragmentMdStyle(fragments[i-1])
		}

		// Add start markers when style turns from false to true
		if !prev.italic && style.italic {
			md.WriteString("*")
		}
		if !prev.bold && style.bold {
			md.WriteString("**")
		}
		if !prev.underline && style.underline {
			md.WriteString("__")
		}
		if !prev.strike && style.strike {
			md.WriteString("~~")
		}

		// Add end markers when style turns from true to false
		// (and apply in reverse order to maintain nesting)
		if prev.strike && !style.strike {
			md.WriteString("~~")
		}
		if prev.underline && !style.underline {
			md.WriteString("__")
		}
		if prev.bold && !style.bold {
			md.WriteString("**")
		}
		if prev.italic && !style.italic {
			md.WriteString("*")
		}

		md.WriteString(text)
	}

	return md.String()
}
