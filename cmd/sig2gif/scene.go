package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/sig2gif/internal/source"
	"github.com/ivlev/sig2gif/internal/system"
)

var sceneFlags struct {
	dir    string
	width  float64
	height float64
	force  bool
}

var sceneCmd = &cobra.Command{
	Use:   "scene [path]",
	Short: "Write a sample signature scene to start from",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScene,
}

func init() {
	fs := sceneCmd.Flags()
	fs.StringVar(&sceneFlags.dir, "dir", ".", "Directory for the generated scene when no path is given")
	fs.Float64Var(&sceneFlags.width, "width", 320, "Signature width")
	fs.Float64Var(&sceneFlags.height, "height", 120, "Signature height")
	fs.BoolVar(&sceneFlags.force, "force", false, "Overwrite an existing file")
}

func runScene(cmd *cobra.Command, args []string) error {
	path := system.GenerateScenePath(sceneFlags.dir, time.Now())
	if len(args) > 0 {
		path = args[0]
	}

	if !sceneFlags.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := system.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	scene := source.SampleScene(sceneFlags.width, sceneFlags.height)
	if err := source.WriteScene(scene, path); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	fmt.Printf("[*] Scene written: %s (%d strokes)\n", path, len(scene.Strokes))
	return nil
}
