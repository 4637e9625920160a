package youtube

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean title", input: "My Video", want: "My Video"},
		{name: "path separators", input: "a/b\\c", want: "a-b-c"},
		{name: "reserved characters", input: `What? "Why": <How>`, want: "What- -Why-- -How-"},
		{name: "control characters", input: "tab\there", want: "tab-here"},
		{name: "surrounding whitespace", input: "  spaced  ", want: "spaced"},
		{name: "empty falls back", input: "", want: "video"},
		{name: "whitespace only falls back", input: "   ", want: "video"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitize(tc.input); got != tc.want {
				t.Fatalf("sanitize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestMimeToExt(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "mp4 with codecs", input: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, want: "mp4"},
		{name: "webm", input: "video/webm", want: "webm"},
		{name: "3gpp maps to 3gp", input: "video/3gpp", want: "3gp"},
		{name: "garbage falls back", input: "not-a-mime", want: "bin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mimeToExt(tc.input); got != tc.want {
				t.Fatalf("mimeToExt(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
