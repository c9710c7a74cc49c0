// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple title", input: "Managing Arthritis at Home", want: "managing-arthritis-at-home"},
		{name: "accents removed", input: "Déjà Vu Café", want: "deja-vu-cafe"},
		{name: "punctuation collapsed", input: "Flu Season: What's New?", want: "flu-season-what-s-new"},
		{name: "digits kept", input: "Top 10 Hydration Tips", want: "top-10-hydration-tips"},
		{name: "consecutive separators", input: "A  --  B", want: "a-b"},
		{name: "leading and trailing junk", input: "  !!Hello!!  ", want: "hello"},
		{name: "empty input", input: "", want: ""},
		{name: "only symbols", input: "!?#", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, From(tt.input))
		})
	}
}
