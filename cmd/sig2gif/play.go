package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/sig2gif/internal/config"
	"github.com/ivlev/sig2gif/internal/export"
	"github.com/ivlev/sig2gif/internal/frame"
	"github.com/ivlev/sig2gif/internal/player"
	"github.com/ivlev/sig2gif/internal/source"
	"github.com/ivlev/sig2gif/internal/timeline"
)

var playFlags struct {
	anim    animFlags
	noTUI   bool
	fps     int
	out     string
	formats string
}

var playCmd = &cobra.Command{
	Use:   "play [scene]",
	Short: "Play a scene in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlay,
}

func init() {
	fs := playCmd.Flags()
	playFlags.anim.register(playCmd)
	fs.BoolVar(&playFlags.noTUI, "no-tui", false, "Print progress instead of the interactive player")
	fs.IntVar(&playFlags.fps, "fps", frame.DefaultFPS, "Frame rate of the real-time loop (--no-tui)")
	fs.StringVarP(&playFlags.out, "out", "o", "", "Directory for exports started from the player")
	fs.StringVarP(&playFlags.formats, "formats", "f", "svg,png,gif", "Formats written by the export key")
}

func runPlay(cmd *cobra.Command, args []string) error {
	scene, cfg, err := loadScene(cmd, args, &playFlags.anim)
	if err != nil {
		return err
	}
	if playFlags.noTUI {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return playPlain(ctx, scene, cfg, playFlags.fps)
	}

	formats, err := export.ParseFormats(playFlags.formats)
	if err != nil {
		return err
	}
	outDir := cfg.Export.OutDir
	if playFlags.out != "" {
		outDir = playFlags.out
	}

	clock := frame.NewManual(0)
	tl, err := buildTimeline(scene, cfg, clock)
	if err != nil {
		return err
	}

	title := "sig2gif"
	if len(args) > 0 {
		title += " · " + filepath.Base(args[0])
	}
	p := player.New(tl, clock, player.Options{
		Title:    title,
		OutDir:   outDir,
		Formats:  formats,
		Export:   export.OptionsFromConfig(cfg.Export),
		Autoplay: cfg.Autoplay,
	})
	if err := p.Run(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	return nil
}

// playPlain runs the timeline on a real-time loop and prints a progress
// line until the animation completes or ctx is done. A looping animation
// never reaches Completed and runs until ctx is done.
func playPlain(ctx context.Context, scene *source.Scene, cfg config.Config, fps int) error {
	loop := frame.NewLoop(fps)
	done := make(chan struct{})
	var once sync.Once

	tl, err := buildTimeline(scene, cfg, loop, func(o *timeline.Options) {
		o.OnStateChange = func(s timeline.State) {
			fmt.Printf("\n[*] %s\n", s)
			if s == timeline.Completed {
				once.Do(func() { close(done) })
			}
		}
	})
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- loop.Run(ctx) }()
	defer loop.Close()

	fmt.Printf("[*] Paths: %d, duration: %.0f ms, speed: %.2fx\n", tl.Len(), tl.Duration(), tl.Speed())
	if cfg.Viewport.Enabled {
		// the terminal is the viewport and it is fully visible
		vp := timeline.NewViewport(tl, timeline.ViewportFromConfig(cfg.Viewport))
		loop.Do(func() { vp.Observe(1) })
	} else {
		if !cfg.Autoplay {
			fmt.Println("[!] Autoplay is off in this scene; starting anyway")
		}
		loop.Do(tl.Play)
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			printProgress(1)
			fmt.Println()
			return nil
		case err := <-errc:
			fmt.Println()
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				fmt.Println("[!] Interrupted")
				return nil
			}
			return err
		case <-ticker.C:
			var p float64
			loop.Do(func() { p = tl.Progress() })
			printProgress(p)
		}
	}
}

const barWidth = 40

func printProgress(p float64) {
	n := int(p * barWidth)
	fmt.Printf("\r[%s%s] %3.0f%%", strings.Repeat("#", n), strings.Repeat(".", barWidth-n), p*100)
}
