package main

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// angleEscaper keeps decoded text from turning back into markup.
var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// sanitize strips every tag from s. Script and style bodies go with their
// tags. Surviving text is stored as written apart from angle brackets. Input
// that is nothing but markup is escaped instead so the text is kept and
// rendered inert.
func sanitize(s string) string {
	clean := angleEscaper.Replace(html.UnescapeString(strictPolicy.Sanitize(s)))
	if strings.TrimSpace(clean) == "" && strings.TrimSpace(s) != "" {
		return template.HTMLEscapeString(s)
	}
	return clean
}
