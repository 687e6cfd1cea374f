package moderation

import (
	"errors"
	"testing"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		deny bool
	}{
		{name: "plain", text: "nice run, 9000 points!", deny: false},
		{name: "less_than", text: "a < b and c > d", deny: false},
		{name: "script_tag", text: "<script>alert(1)</script>", deny: true},
		{name: "closing_tag", text: "</div>", deny: true},
		{name: "js_url", text: "click JavaScript:alert(1)", deny: true},
		{name: "handler", text: "x onerror=steal()", deny: true},
		{name: "entity", text: "&#60;b&#62;", deny: true},
		{name: "eval", text: "eval (code)", deny: true},
	}

	f := NewFilter(nil)
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := f.Check(tc.text)
			if tc.deny != errors.Is(err, ErrForbiddenContent) {
				t.Errorf("deny=%v got %v", tc.deny, err)
			}
		})
	}
}

func TestMask(t *testing.T) {
	t.Parallel()

	f := NewFilter([]string{"darn", " ", "욕설"})
	if got := f.Mask("Darn it, 욕설!"); got != "**** it, **!" {
		t.Errorf("unexpected mask %q", got)
	}
}
