package render

import "strings"

// Only user data passes through these escapers: element text and attribute
// values. HIDs and the data-on-* markers are engine-generated and written
// verbatim by renderAttributes.
var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// escapeHTML escapes a string for inclusion as element text.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	return textEscaper.Replace(s)
}

// escapeAttr escapes a string for a double-quoted attribute value. Beyond
// the text entities it escapes whitespace that could break out of the
// quoting.
func escapeAttr(s string) string {
	if !strings.ContainsAny(s, "&<>\"'\n\r\t") {
		return s
	}
	return attrEscaper.Replace(s)
}
