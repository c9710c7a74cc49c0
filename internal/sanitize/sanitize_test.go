// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitalink-health/api/internal/sanitize"
)

func TestClean_ScriptTagStripped(t *testing.T) {
	output := sanitize.Clean("<script>alert(1)</script>")
	assert.Equal(t, "alert(1)", output)
	assert.NotContains(t, output, "<script")
}

func TestClean_JavascriptHrefDropped(t *testing.T) {
	output := sanitize.Clean(`<a href="javascript:alert(1)">x</a>`)
	assert.Equal(t, "<a>x</a>", output)
}

func TestClean_DisallowedAttributeDropped(t *testing.T) {
	output := sanitize.Clean(`<a href="https://example.com" onclick="evil()">link</a>`)
	assert.Equal(t, `<a href="https://example.com">link</a>`, output)
}

func TestClean_NestedDisallowedTags(t *testing.T) {
	output := sanitize.Clean(`<div><script>x</script><p>ok</p></div>`)
	assert.Equal(t, "<div>x<p>ok</p></div>", output)
}

func TestClean_DeeplyNestedDisallowedFlattenedRecursively(t *testing.T) {
	output := sanitize.Clean(`<section><article><script>a</script>b<aside>c</aside></article></section>`)
	assert.Equal(t, "abc", output)
}

func TestClean_EmptyInput(t *testing.T) {
	assert.Equal(t, "", sanitize.Clean(""))
}

func TestClean_PlainTextPassesThrough(t *testing.T) {
	assert.Equal(t, "hello world", sanitize.Clean("hello world"))
}

func TestClean_AllowedTags(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
	}{
		{"paragraph", "<p>text</p>", "<p>text</p>"},
		{"heading", "<h2>title</h2>", "<h2>title</h2>"},
		{"emphasis", "<em>hi</em>", "<em>hi</em>"},
		{"list", "<ul><li>a</li><li>b</li></ul>", "<ul><li>a</li><li>b</li></ul>"},
		{"blockquote", "<blockquote>quote</blockquote>", "<blockquote>quote</blockquote>"},
		{"class_kept", `<p class="lead">x</p>`, `<p class="lead">x</p>`},
		{"style_dropped", `<p style="color:red">x</p>`, "<p>x</p>"},
		{"line_break", "a<br>b", "a<br />b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.output, sanitize.Clean(tt.input))
		})
	}
}

func TestClean_HrefSchemes(t *testing.T) {
	tests := []struct {
		name    string
		href    string
		allowed bool
	}{
		{"https", "https://example.com", true},
		{"http", "http://example.com", true},
		{"mailto", "mailto:info@vitalink.health", true},
		{"javascript", "javascript:alert(1)", false},
		{"data", "data:text/html,x", false},
		{"relative", "/blog/post", false},
		{"scheme_case_insensitive", "JAVASCRIPT:alert(1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := sanitize.Clean(`<a href="` + tt.href + `">x</a>`)
			if tt.allowed {
				assert.Contains(t, output, "href=")
			} else {
				assert.Equal(t, "<a>x</a>", output)
			}
		})
	}
}

func TestClean_ImgSrcSchemes(t *testing.T) {
	kept := sanitize.Clean(`<img src="https://cdn.example.com/x.png" alt="device">`)
	assert.Equal(t, `<img src="https://cdn.example.com/x.png" alt="device" />`, kept)

	// mailto is valid for href but never for src.
	dropped := sanitize.Clean(`<img src="mailto:x@y.com" alt="device">`)
	assert.Equal(t, `<img alt="device" />`, dropped)
}

func TestClean_AttributeValueQuotesEscaped(t *testing.T) {
	output := sanitize.Clean(`<p class='a"b'>x</p>`)
	assert.Equal(t, `<p class="a&quot;b">x</p>`, output)
}

func TestClean_EventHandlersNeverSurvive(t *testing.T) {
	inputs := []string{
		`<img src="https://x.com/a.png" onerror="evil()">`,
		`<div onmouseover="evil()">x</div>`,
		`<p onclick="evil()">x</p>`,
	}
	for _, input := range inputs {
		output := sanitize.Clean(input)
		assert.NotContains(t, strings.ToLower(output), "on")
	}
}

func TestClean_MalformedInputDoesNotPanic(t *testing.T) {
	inputs := []string{
		"<p>unclosed",
		"<<>><p",
		"<a href=>x",
		"</div></div>",
		"<p><b>cross</p>nested</b>",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() { _ = sanitize.Clean(input) })
	}
}

func TestText_StripsAllMarkup(t *testing.T) {
	assert.Equal(t, "hello bold world", sanitize.Text("<p>hello <b>bold</b> world</p>"))
	assert.Equal(t, "alert(1)", sanitize.Text("<script>alert(1)</script>"))
	assert.Equal(t, "", sanitize.Text(""))
}
