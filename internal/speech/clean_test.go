package speech

import (
	"strings"
	"testing"
)

func TestCleanText_stripsMarkdown(t *testing.T) {
	got := CleanText("**Hello**\n- step [link](http://x))")

	for _, forbidden := range []string{"*", "#", "_", "`", "\n"} {
		if strings.Contains(got, forbidden) {
			t.Errorf("cleaned text %q still contains %q", got, forbidden)
		}
	}
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "link") {
		t.Errorf("cleaned text %q lost content", got)
	}
}

func TestCleanText(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"**bold** and _italic_", "bold and italic"},
		{"# Heading\nBody", "Heading. Body"},
		{"See [the guide](https://example.com) here", "See the guide here"},
		{"line one\r\nline two", "line one. line two"},
		{"- first\n- second", "first. second"},
		{"too   many    spaces", "too many spaces"},
		{"wait... what?!", "wait. what?"},
		{"`code` sample", "code sample"},
	}
	for _, c := range cases {
		if got := CleanText(c.in); got != c.want {
			t.Errorf("CleanText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWrapPCM(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	wav := WrapPCM(pcm, SampleRate)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("expected 44-byte header + %d data bytes, got %d", len(pcm), len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Error("missing fmt/data chunks")
	}
	// mono, 16-bit, 24kHz
	if wav[22] != 1 {
		t.Error("expected 1 channel")
	}
	rate := uint32(wav[24]) | uint32(wav[25])<<8 | uint32(wav[26])<<16 | uint32(wav[27])<<24
	if rate != SampleRate {
		t.Errorf("expected sample rate %d, got %d", SampleRate, rate)
	}
	if wav[34] != 16 {
		t.Error("expected 16 bits per sample")
	}
	if string(wav[44:]) != string(pcm) {
		t.Error("PCM payload must follow the header unchanged")
	}
}
