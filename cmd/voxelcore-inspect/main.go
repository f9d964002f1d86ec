package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/voxfile"
)

func main() {
	configPath := flag.String("config", "", "Path to a vxconfig TOML file (empty for defaults)")
	lighting := flag.Bool("lighting", false, "Bake lighting for the loaded shape")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: voxelcore-inspect [-config path] [-lighting] <file.vox>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := vxconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("[inspect] failed to load config: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("[inspect] %v: %v", voxfile.ErrCantOpenFile, err)
	}
	defer f.Close()

	s, err := voxfile.Load(f, cfg, *lighting)
	if err != nil {
		log.Fatalf("[inspect] failed to load %s: %v", path, err)
	}

	size, _ := s.FixedSize()
	box := s.ModelBox()

	fmt.Printf("file:        %s\n", path)
	fmt.Printf("size:        %dx%dx%d\n", size.Width, size.Height, size.Depth)
	fmt.Printf("blocks:      %d\n", s.BlockCount())
	fmt.Printf("chunks:      %d\n", s.ChunkCount())
	fmt.Printf("colors:      %d\n", s.Palette().OrderedCount())
	fmt.Printf("model box:   [%d,%d,%d] - [%d,%d,%d]\n",
		box.Min[0], box.Min[1], box.Min[2], box.Max[0], box.Max[1], box.Max[2])
	fmt.Printf("lit:         %v\n", s.UsesLighting())
}
