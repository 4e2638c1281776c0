package voices

import "testing"

func TestResolve(t *testing.T) {
	r := NewResolver()

	cases := []struct {
		input string
		want  string
	}{
		{"en-US-JennyNeural", "en-US-JennyNeural"},
		{"jenny", "en-US-JennyNeural"},
		{" Ryan ", "en-GB-RyanNeural"},
		{"", ""},
		{"custom-provider-voice", "custom-provider-voice"},
	}

	for _, c := range cases {
		if got := r.Resolve(c.input); got != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}
