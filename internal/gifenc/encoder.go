// Package gifenc is a GIF89a encoder: palette sampling with a simple
// channel-sum quantizer, nearest-colour indexing, LZW compression and
// container assembly. Output depends only on the input.
package gifenc

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	ErrNoFrames     = errors.New("gifenc: no frames")
	ErrSizeMismatch = errors.New("gifenc: frames differ in size")
)

// minCodeSize is the LZW literal width for a 256-entry table.
const minCodeSize = 8

// Options controls Encode.
type Options struct {
	// Delay between frames in hundredths of a second.
	Delay int
	// Quality is the palette sampling stride, 1 (best) to 30.
	Quality int
	// Transparent marks palette entry 0 as transparent.
	Transparent bool
	// Background is palette entry 0.
	Background Color
	// LoopCount is the NETSCAPE2.0 repeat count; 0 loops forever.
	LoopCount int
}

// DelayForFPS converts a frame rate to a frame delay in centiseconds,
// never below 1.
func DelayForFPS(fps int) int {
	if fps <= 0 {
		return 1
	}
	d := (100 + fps/2) / fps
	return max(d, 1)
}

// Encode assembles frames into a GIF89a byte stream. Frames are indexed
// and compressed concurrently; the output order is fixed.
func Encode(ctx context.Context, frames []*image.NRGBA, opts Options) ([]byte, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	bounds := frames[0].Bounds()
	for i, f := range frames {
		if f.Bounds().Size() != bounds.Size() {
			return nil, fmt.Errorf("%w: frame %d is %v, want %v", ErrSizeMismatch, i, f.Bounds().Size(), bounds.Size())
		}
	}
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || w > 0xFFFF || h > 0xFFFF {
		return nil, fmt.Errorf("gifenc: invalid dimensions %dx%d", w, h)
	}

	pal := BuildPalette(frames, opts.Quality, opts.Background)

	blocks := make([][]byte, len(frames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			blocks[i] = SubBlocks(Compress(IndexFrame(f, pal), minCodeSize))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("gifenc: %w", err)
	}

	var buf bytes.Buffer
	writeHeader(&buf, w, h, pal, opts.LoopCount)
	for _, b := range blocks {
		writeFrame(&buf, w, h, b, opts)
	}
	buf.WriteByte(0x3B)
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, w, h int, pal Palette, loop int) {
	buf.WriteString("GIF89a")

	// logical screen descriptor: global table present, 8-bit colour
	// resolution, 256 entries
	le16(buf, w)
	le16(buf, h)
	buf.WriteByte(0xF7)
	buf.WriteByte(0) // background index
	buf.WriteByte(0) // pixel aspect ratio

	for _, c := range pal.Colors {
		buf.Write([]byte{c.R, c.G, c.B})
	}

	buf.Write([]byte{0x21, 0xFF, 0x0B})
	buf.WriteString("NETSCAPE2.0")
	buf.Write([]byte{0x03, 0x01})
	le16(buf, loop)
	buf.WriteByte(0)
}

func writeFrame(buf *bytes.Buffer, w, h int, data []byte, opts Options) {
	// graphics control extension; disposal 2 (restore background) for
	// transparent output, 1 (leave in place) otherwise
	var packed byte = 1 << 2
	if opts.Transparent {
		packed = 2<<2 | 1
	}
	buf.Write([]byte{0x21, 0xF9, 0x04, packed})
	le16(buf, opts.Delay)
	buf.WriteByte(0) // transparent index
	buf.WriteByte(0)

	buf.WriteByte(0x2C)
	le16(buf, 0)
	le16(buf, 0)
	le16(buf, w)
	le16(buf, h)
	buf.WriteByte(0) // no local table, not interlaced

	buf.WriteByte(minCodeSize)
	buf.Write(data)
}

func le16(buf *bytes.Buffer, v int) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	buf.Write(b[:])
}
