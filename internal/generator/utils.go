package generator

import "golang.org/x/net/html"

// escapeHTMLText escapes a text node's content for the `< > & " '` set
// spec.md §4.6 names, delegating to the same entity table the standard
// HTML tokenizer/renderer pair uses so round-tripping through a browser
// parser matches byte-for-byte.
func escapeHTMLText(s string) string {
	return html.EscapeString(s)
}

// escapeHTMLAttr escapes an attribute value the same way; CHTL has no
// separate quoting convention for attributes vs. text content.
func escapeHTMLAttr(s string) string {
	return html.EscapeString(s)
}
