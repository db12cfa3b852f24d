package report

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

var ErrFontMissing = errors.New("devanagari font file not found")

// FontCache loads the Devanagari TTF once and keeps its base64 form. A missing
// file is not cached, so dropping the font in place later works without a
// restart.
type FontCache struct {
	path string

	mu      sync.Mutex
	encoded string
}

func NewFontCache(path string) *FontCache {
	return &FontCache{path: path}
}

func (c *FontCache) Path() string {
	return c.path
}

// Base64 returns the encoded font, or ErrFontMissing.
func (c *FontCache) Base64() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.encoded != "" {
		return c.encoded, nil
	}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrFontMissing, c.path)
	}
	if err != nil {
		return "", fmt.Errorf("read font: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrFontMissing, c.path)
	}

	c.encoded = base64.StdEncoding.EncodeToString(data)
	return c.encoded, nil
}
