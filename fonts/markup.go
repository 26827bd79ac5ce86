package fonts

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText returns the characters a browser would render for s when s is
// treated as an HTML fragment: tags are dropped, entities decoded and runs
// of white space collapsed. Plain text passes through unchanged apart from
// white space collapsing.
func VisibleText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseSpace(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); hidden(string(name)) {
				skip++
			} else if string(name) == "br" {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); hidden(string(name)) && skip > 0 {
				skip--
			}
		case html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte(' ')
			}
		}
	}
}

func hidden(tag string) bool { return tag == "script" || tag == "style" }

func collapseSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
