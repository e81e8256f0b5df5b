package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/sig2gif/internal/system"
)

// Format is an export file type.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatGIF Format = "gif"
)

// BaseName is the file name stem used by Download.
const BaseName = "signature"

// ParseFormats splits a comma separated list such as "svg,gif".
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		switch f {
		case "":
			continue
		case FormatSVG, FormatPNG, FormatGIF:
			out = append(out, f)
		default:
			return nil, fmt.Errorf("export: unknown format %q", part)
		}
	}
	return out, nil
}

// Render produces the bytes of one format with the exporter defaults.
// SVG output is animated.
func (e *Exporter) Render(ctx context.Context, f Format) ([]byte, error) {
	switch f {
	case FormatSVG:
		s, err := e.svg(SVGOptions{Animated: true})
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case FormatPNG:
		return e.PNG(ctx, 0)
	case FormatGIF:
		return e.GIF(ctx, GIFOptions{})
	}
	return nil, fmt.Errorf("export: unknown format %q", f)
}

// Download writes signature.<ext> into dir for every format and returns
// the written paths. It stops at the first failure.
func (e *Exporter) Download(ctx context.Context, dir string, formats ...Format) ([]string, error) {
	if err := system.EnsureDir(dir); err != nil {
		return nil, err
	}
	var written []string
	for _, f := range formats {
		data, err := e.Render(ctx, f)
		if err != nil {
			return written, fmt.Errorf("export %s: %w", f, err)
		}
		path := filepath.Join(dir, BaseName+"."+string(f))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("export %s: %w", f, err)
		}
		written = append(written, path)
	}
	return written, nil
}
