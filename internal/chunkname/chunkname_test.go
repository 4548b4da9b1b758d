package chunkname_test

import (
	"strings"
	"testing"
	"time"

	"aircheck/internal/chunkname"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Radio Rock 101.5", "Radio_Rock_101_5"},
		{"plain-name_ok", "plain-name_ok"},
		{"slash/colon:street", "slash_colon_street"},
		{"ünïcode", "_n_code"},
		{"", "_"},
	}
	for _, tc := range cases {
		if got := chunkname.Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPathIsDeterministicAndDated(t *testing.T) {
	start := time.Date(2026, 8, 28, 13, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	first := chunkname.Path("Radio Rock 101.5", start, end, "mp3")
	second := chunkname.Path("Radio Rock 101.5", start, end, "mp3")
	if first != second {
		t.Fatalf("path not deterministic: %q vs %q", first, second)
	}

	want := "recordings/Radio_Rock_101_5/2026/08/28/Radio_Rock_101_5_2026-08-28T13-00-00_to_2026-08-28T14-00-00.mp3"
	if first != want {
		t.Fatalf("unexpected path:\n got %q\nwant %q", first, want)
	}
}

func TestPathUsesOnlySafeSegments(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := chunkname.Path("Jazz & Blues / FM", start, start.Add(time.Hour), ".MP3")
	for _, segment := range strings.Split(p, "/") {
		for _, r := range segment {
			safe := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.'
			if !safe {
				t.Fatalf("unsafe rune %q in segment %q of %q", r, segment, p)
			}
		}
	}
	if !strings.HasSuffix(p, ".mp3") {
		t.Fatalf("extension not normalized: %q", p)
	}
}

func TestUniqueKeepsExtension(t *testing.T) {
	base := "recordings/a/2026/01/02/a_x_to_y.mp3"
	u := chunkname.Unique(base)
	if u == base {
		t.Fatal("Unique returned the input unchanged")
	}
	if !strings.HasSuffix(u, ".mp3") {
		t.Fatalf("suffix lost: %q", u)
	}
	if !strings.HasPrefix(u, "recordings/a/2026/01/02/a_x_to_y_") {
		t.Fatalf("unexpected prefix: %q", u)
	}
}
