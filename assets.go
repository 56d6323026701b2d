package staticpress

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/eringen/staticpress/internal/logfields"
)

// StaticFile is a file from the static dir, ready to be published at Path
// relative to the site root.
type StaticFile struct {
	Path   string
	Data   []byte
	Width  int
	Height int
}

// Assets is the processed static dir, keyed by slash-separated path.
type Assets struct {
	files map[string]StaticFile
	order []string
}

// Get returns the file published at p ("/images/a.png" or "images/a.png").
func (a *Assets) Get(p string) (StaticFile, bool) {
	if a == nil {
		return StaticFile{}, false
	}
	f, ok := a.files[trimLeadingSlash(p)]
	return f, ok
}

// Files returns every file in path order.
func (a *Assets) Files() []StaticFile {
	if a == nil {
		return nil
	}
	out := make([]StaticFile, 0, len(a.order))
	for _, p := range a.order {
		out = append(out, a.files[p])
	}
	return out
}

func trimLeadingSlash(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}

// loadAssets mirrors fsys, resizing oversized JPEG and PNG images and
// recording the dimensions of every image. A nil fsys or a missing root
// yields no assets. Images that cannot be decoded are copied unchanged.
func loadAssets(fsys fs.FS, maxWidth int, logger *slog.Logger) (*Assets, error) {
	a := &Assets{files: make(map[string]StaticFile)}
	if fsys == nil {
		return a, nil
	}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if p != "." && d.Name()[0] == '.' {
				return fs.SkipDir
			}
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", p, err)
		}
		f := StaticFile{Path: p, Data: data}
		if isImage(p) {
			img, err := processImage(p, data, maxWidth)
			if err != nil {
				logger.Warn("Copying undecodable image", logfields.Path(p), logfields.Error(err))
			} else {
				f.Data, f.Width, f.Height = img.Data, img.Width, img.Height
				if img.Resized {
					logger.Debug("Resized image", logfields.Path(p), slog.Int("width", img.Width))
				}
			}
		}
		a.files[p] = f
		a.order = append(a.order, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	sort.Strings(a.order)
	return a, nil
}
