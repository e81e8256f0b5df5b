package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/sig2gif/internal/export"
	"github.com/ivlev/sig2gif/internal/frame"
)

var exportFlags struct {
	anim        animFlags
	out         string
	formats     string
	fps         int
	quality     int
	scale       float64
	padding     float64
	background  string
	transparent bool
	maxWidth    int
}

var exportCmd = &cobra.Command{
	Use:   "export [scene]",
	Short: "Render a scene to signature.svg, signature.png and signature.gif",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	fs := exportCmd.Flags()
	exportFlags.anim.register(exportCmd)
	fs.StringVarP(&exportFlags.out, "out", "o", "", "Output directory (default from config)")
	fs.StringVarP(&exportFlags.formats, "formats", "f", "svg,png,gif", "Comma separated formats: svg, png, gif")
	fs.IntVar(&exportFlags.fps, "fps", 0, "GIF frames per second")
	fs.IntVar(&exportFlags.quality, "quality", 0, "GIF palette sampling stride (1 best - 30 fastest)")
	fs.Float64Var(&exportFlags.scale, "scale", 0, "PNG scale factor")
	fs.Float64Var(&exportFlags.padding, "padding", 0, "Padding around the strokes in path units")
	fs.StringVar(&exportFlags.background, "background", "", "GIF background colour")
	fs.BoolVar(&exportFlags.transparent, "transparent", false, "Transparent GIF background")
	fs.IntVar(&exportFlags.maxWidth, "max-width", 0, "Downscale GIF frames wider than this")
}

func runExport(cmd *cobra.Command, args []string) error {
	formats, err := export.ParseFormats(exportFlags.formats)
	if err != nil {
		return err
	}
	if len(formats) == 0 {
		return fmt.Errorf("no export formats given")
	}

	scene, cfg, err := loadScene(cmd, args, &exportFlags.anim)
	if err != nil {
		return err
	}

	fs := cmd.Flags()
	ex := cfg.Export
	if fs.Changed("fps") {
		ex.FPS = exportFlags.fps
	}
	if fs.Changed("quality") {
		ex.Quality = exportFlags.quality
	}
	if fs.Changed("scale") {
		ex.Scale = exportFlags.scale
	}
	if fs.Changed("padding") {
		ex.Padding = exportFlags.padding
	}
	if fs.Changed("background") {
		ex.Background = exportFlags.background
	}
	if fs.Changed("transparent") {
		ex.Transparent = exportFlags.transparent
	}
	if fs.Changed("max-width") {
		ex.MaxWidth = exportFlags.maxWidth
	}
	if fs.Changed("out") {
		ex.OutDir = exportFlags.out
	}
	cfg.Export = ex
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	// Export is offline: the manual clock never advances on its own and
	// runs executor work inline.
	clock := frame.NewManual(0)
	tl, err := buildTimeline(scene, cfg, clock)
	if err != nil {
		return err
	}

	opts := export.OptionsFromConfig(ex)
	if len(args) > 0 {
		base := filepath.Base(args[0])
		opts.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	exp := export.New(tl, clock, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("[*] Paths: %d, duration: %.0f ms\n", tl.Len(), tl.Duration())
	fmt.Printf("[*] Exporting %s to %s\n", exportFlags.formats, ex.OutDir)
	start := time.Now()
	files, err := exp.Download(ctx, ex.OutDir, formats...)
	for _, f := range files {
		fmt.Printf("[+] %s\n", f)
	}
	if err != nil {
		return err
	}
	fmt.Printf("[*] Done in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}
