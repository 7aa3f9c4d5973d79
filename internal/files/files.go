// Package files lists and watches the directory of candidate audio files.
// Only metadata is touched; whether a file is actually acceptable is the
// validator's call.
package files

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/voxnote/voxnote/internal/session"
)

// extTypes resolves common audio extensions to the media types the
// transcription service expects. Anything not listed falls back to the
// platform MIME database.
var extTypes = map[string]string{
	".wav": "audio/wav",
	".mp3": "audio/mpeg",
	".m4a": "audio/mp4",
	".mp4": "audio/mp4",
	".aac": "audio/aac",
}

// Scan lists the regular files in dir sorted by name. All files are listed,
// not just recognized audio types — rejecting the rest is the validator's
// job, and the user should see why a file was refused rather than have it
// silently missing.
func Scan(dir string) ([]session.FileRef, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	var entries []session.FileRef
	for _, de := range dirents {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, session.FileRef{
			Name:      de.Name(),
			Path:      filepath.Join(dir, de.Name()),
			MIMEType:  TypeOf(de.Name()),
			SizeBytes: info.Size(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// TypeOf returns the declared media type for a file name, based on its
// extension only.
func TypeOf(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		// Strip parameters such as "; charset=utf-8".
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t
	}
	return "application/octet-stream"
}
