package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestPlayerArgs(t *testing.T) {
	tc := []struct {
		name     string
		template []string
		want     []string
		wantErr  error
	}{
		{
			name:     "placeholder replaced",
			template: []string{"mpv", "--no-video", "{url}"},
			want:     []string{"mpv", "--no-video", "http://n/stream_audio?id=1"},
		},
		{
			name:     "url appended without placeholder",
			template: []string{"ffplay", "-nodisp"},
			want:     []string{"ffplay", "-nodisp", "http://n/stream_audio?id=1"},
		},
		{
			name:     "empty template",
			template: nil,
			wantErr:  ErrNoPlayer,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlayerArgs(tt.template, "http://n/stream_audio?id=1")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PlayerArgs() error = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlayerArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenerArgs(t *testing.T) {
	orig := getRuntime
	t.Cleanup(func() { getRuntime = orig })

	for rt, want := range map[string]string{"darwin": "open", "linux": "xdg-open", "windows": "cmd"} {
		getRuntime = func() string { return rt }
		args, err := OpenerArgs("http://x")
		if err != nil {
			t.Fatalf("%s: unexpected error %v", rt, err)
		}
		if args[0] != want {
			t.Errorf("%s: expected %s, got %s", rt, want, args[0])
		}
	}

	getRuntime = func() string { return "plan9" }
	if _, err := OpenerArgs("http://x"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

func TestLoggers(t *testing.T) {
	t.Run("NewLogger writes to writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") || !strings.Contains(buf.String(), "component=test") {
			t.Errorf("unexpected log output %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "tui.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("to file")
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b || len(a) != 36 {
		t.Errorf("unexpected ids %q %q", a, b)
	}
}

func TestAudioContentType(t *testing.T) {
	tc := map[string]string{
		"song.mp3":       "audio/mpeg",
		"/a/b/SONG.FLAC": "audio/flac",
		"clip.ogg":       "audio/ogg",
		"notes.txt":      "application/octet-stream",
		"noext":          "application/octet-stream",
	}
	for name, want := range tc {
		if got := AudioContentType(name); got != want {
			t.Errorf("AudioContentType(%q) = %q, want %q", name, got, want)
		}
	}
}
