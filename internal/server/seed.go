package server

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/tagstream/internal/shared"
	"github.com/dhowden/tag"
)

// isAudioFile reports whether the node can serve filename with an audio Content-Type.
func isAudioFile(filename string) bool {
	return strings.HasPrefix(shared.AudioContentType(filename), "audio/")
}

// songName picks the embedded title of an audio file, falling back to its base name.
func songName(path string, data []byte) string {
	if m, err := tag.ReadFrom(bytes.NewReader(data)); err == nil {
		if title := strings.TrimSpace(m.Title()); title != "" {
			return title
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Seed loads the audio files in dir into the node.
//
// Files directly in dir go under defaultTag. Each top-level subdirectory names the tag for every
// file beneath it, at any depth. Unreadable files are logged and skipped. Returns the number of songs added.
func (n *DevNode) Seed(dir, defaultTag string) (int, error) {
	return n.seed(dir, defaultTag, true)
}

func (n *DevNode) seed(dir, tagKey string, top bool) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read music directory: %w", err)
	}

	added := 0
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			childTag := tagKey
			if top {
				childTag = entry.Name()
			}
			count, err := n.seed(path, childTag, false)
			if err != nil {
				n.logger.Warn("failed to seed directory", "dir", path, "error", err)
			}
			added += count
			continue
		}
		if !isAudioFile(entry.Name()) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			n.logger.Warn("failed to read audio file", "path", path, "error", err)
			continue
		}
		if _, err := n.AddSong(songName(path, data), tagKey, data); err != nil {
			n.logger.Warn("skipping audio file", "path", path, "error", err)
			continue
		}
		added++
	}

	return added, nil
}
