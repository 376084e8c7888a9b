package stream

import (
	"errors"
	"testing"

	ariaerrors "github.com/lunamir/aria/internal/errors"
)

func TestSelectAudioPrefersHighestBitrate(t *testing.T) {
	renditions := []Rendition{
		{URL: "low", MimeType: "audio/mp4", Bitrate: 64000},
		{URL: "high", MimeType: "audio/mp4", Bitrate: 256000},
		{URL: "mid", MimeType: "audio/mp4", Bitrate: 128000},
	}

	best, err := SelectAudio(renditions)
	if err != nil {
		t.Fatalf("SelectAudio() error = %v", err)
	}
	if best.URL != "high" {
		t.Errorf("URL = %q, want high", best.URL)
	}
}

func TestSelectAudioPrefersOpusContainer(t *testing.T) {
	renditions := []Rendition{
		{URL: "m4a", MimeType: "audio/mp4; codecs=\"mp4a.40.2\"", Bitrate: 256000},
		{URL: "opus", MimeType: "audio/webm; codecs=\"opus\"", Bitrate: 160000},
	}

	best, err := SelectAudio(renditions)
	if err != nil {
		t.Fatalf("SelectAudio() error = %v", err)
	}
	if best.URL != "opus" {
		t.Errorf("URL = %q, want opus (webm preferred over m4a)", best.URL)
	}
}

func TestSelectAudioFallsBackWithoutOpus(t *testing.T) {
	renditions := []Rendition{
		{URL: "a", MimeType: "audio/mp4", Bitrate: 64000},
		{URL: "b", MimeType: "audio/mp4", Bitrate: 128000},
	}

	best, _ := SelectAudio(renditions)
	if best.URL != "b" {
		t.Errorf("URL = %q, want b", best.URL)
	}
}

func TestSelectAudioEmpty(t *testing.T) {
	_, err := SelectAudio(nil)
	if !errors.Is(err, ariaerrors.ErrNoAudio) {
		t.Errorf("error = %v, want ErrNoAudio", err)
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/watch?v=abc123&list=xyz", "abc123"},
		{"https://example.com/nothing", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := ExtractVideoID(tt.ref); got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
