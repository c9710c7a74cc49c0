// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

/*
Package sanitize converts untrusted HTML into a safe subset before it is
rendered as markup.

# Approach

The input is parsed into a detached element tree (x/net/html) and rebuilt
with an allow-list walk:

  - Text nodes are emitted verbatim.
  - Elements outside the allow-list are flattened to their text content —
    the tag and its attributes vanish, the children's text survives.
  - Allowed elements are re-emitted with only their permitted attributes;
    href is restricted to http/https/mailto and src to http/https.

Parsing never fails: the underlying parser recovers from malformed or
unclosed markup the same way a browser would, so Clean always returns a
string and never panics.
*/
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowedTags is the fixed set of permitted element names.
var allowedTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"em": true, "strong": true, "i": true, "b": true, "u": true,
	"ul": true, "ol": true, "li": true,
	"a": true, "img": true,
	"blockquote": true, "code": true, "pre": true,
	"div": true, "span": true, "br": true,
}

// allowedAttributes maps a tag to its permitted attribute names.
// Tags absent from this map fall back to [defaultAttributes].
var allowedAttributes = map[string][]string{
	"a":   {"href", "target", "rel"},
	"img": {"src", "alt", "title", "width", "height"},
}

// defaultAttributes applies to every allowed tag without a dedicated entry.
var defaultAttributes = []string{"class"}

// voidTags have no closing tag.
var voidTags = map[string]bool{
	"img": true,
	"br":  true,
}

// Clean sanitizes an untrusted HTML string down to the allow-listed subset.
// Empty input yields an empty string.
func Clean(input string) string {
	if input == "" {
		return ""
	}

	nodes, err := parseFragment(input)
	if err != nil {
		// Parser recovery makes this effectively unreachable for string
		// input; fail closed rather than pass tainted markup through.
		return ""
	}

	var builder strings.Builder
	for _, node := range nodes {
		writeNode(&builder, node)
	}
	return builder.String()
}

// Text strips all markup and returns the plain-text content of the input.
// Used as a fallback/preview path (e.g. post excerpts).
func Text(input string) string {
	if input == "" {
		return ""
	}

	nodes, err := parseFragment(input)
	if err != nil {
		return ""
	}

	var builder strings.Builder
	for _, node := range nodes {
		writeText(&builder, node)
	}
	return builder.String()
}

// parseFragment parses input as body content, returning the top-level nodes.
func parseFragment(input string) ([]*html.Node, error) {
	bodyContext := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	return html.ParseFragment(strings.NewReader(input), bodyContext)
}

// writeNode re-emits a node according to the allow-list rules.
func writeNode(builder *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)

	case html.ElementNode:
		tag := strings.ToLower(node.Data)

		// Disallowed wrapper: flatten to the concatenated text of the
		// whole subtree. This applies recursively, so nested disallowed
		// tags collapse into plain text too.
		if !allowedTags[tag] {
			writeText(builder, node)
			return
		}

		builder.WriteByte('<')
		builder.WriteString(tag)
		writeAttributes(builder, tag, node.Attr)

		if voidTags[tag] {
			builder.WriteString(" />")
			return
		}
		builder.WriteByte('>')

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			writeNode(builder, child)
		}

		builder.WriteString("</")
		builder.WriteString(tag)
		builder.WriteByte('>')

	default:
		// Comments, doctypes, and the like are dropped entirely.
	}
}

// writeAttributes emits only the attributes permitted for the tag, with
// scheme restrictions on href/src. A rejected URL drops the attribute,
// never the tag.
func writeAttributes(builder *strings.Builder, tag string, attributes []html.Attribute) {
	permitted, ok := allowedAttributes[tag]
	if !ok {
		permitted = defaultAttributes
	}

	for _, attribute := range attributes {
		name := strings.ToLower(attribute.Key)
		if !contains(permitted, name) {
			continue
		}

		value := attribute.Val
		switch name {
		case "href":
			if !hasScheme(value, "http://", "https://", "mailto:") {
				continue
			}
		case "src":
			if !hasScheme(value, "http://", "https://") {
				continue
			}
		}

		builder.WriteByte(' ')
		builder.WriteString(name)
		builder.WriteString(`="`)
		builder.WriteString(strings.ReplaceAll(value, `"`, "&quot;"))
		builder.WriteByte('"')
	}
}

// writeText appends the concatenated text content of a subtree.
func writeText(builder *strings.Builder, node *html.Node) {
	if node.Type == html.TextNode {
		builder.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		writeText(builder, child)
	}
}

// hasScheme reports whether the trimmed value starts with any of the given
// URL schemes (case-insensitive).
func hasScheme(value string, schemes ...string) bool {
	lowered := strings.ToLower(strings.TrimSpace(value))
	for _, scheme := range schemes {
		if strings.HasPrefix(lowered, scheme) {
			return true
		}
	}
	return false
}

// contains reports whether the slice holds the given string.
func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
