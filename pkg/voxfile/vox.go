// Package voxfile reads and writes the MagicaVoxel ".vox" exchange format,
// translating between its on-disk chunk layout and a pkg/shape.Shape.
package voxfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/nyxreach/voxelcore/pkg/shape"
)

// FormatVersion is the .vox version number this package reads and writes.
const FormatVersion uint32 = 150

// Sentinel errors a Load can be compared against with errors.Is. They mirror
// serialization_magicavoxel_error, minus unknown_chunk: unrecognized chunks
// are skipped rather than rejected, matching the reference reader, so that
// sentinel is never actually produced — it's kept so callers that do want to
// special-case it have something to compare against.
var (
	ErrCantOpenFile   = errors.New("voxfile: can't open file")
	ErrInvalidFormat  = errors.New("voxfile: invalid format")
	ErrPackChunkFound = errors.New("voxfile: PACK chunk with more than one model")
	ErrUnknownChunk   = errors.New("voxfile: unknown chunk")
)

const (
	magicBytes      = "VOX "
	mainChunkHeader = "MAIN"
	chunkIDSize     = 4
	maxAxisSize     = 256
	nbPaletteColors = 256
)

// chunkHeader is the framing every chunk starts with: a 4-byte ASCII id, the
// chunk's own content size, and the size of its nested children.
type chunkHeader struct {
	id            [chunkIDSize]byte
	contentBytes  uint32
	childrenBytes uint32
}

// readChunkHeader reads one chunk's framing. A clean end of stream (no bytes
// available for a new chunk id) is reported as io.EOF so callers can tell it
// apart from a header truncated mid-read.
func readChunkHeader(r io.Reader) (chunkHeader, error) {
	var h chunkHeader
	if _, err := io.ReadFull(r, h.id[:]); err != nil {
		if err == io.EOF {
			return h, io.EOF
		}
		return h, fmt.Errorf("%w: chunk id: %v", ErrInvalidFormat, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.contentBytes); err != nil {
		return h, fmt.Errorf("%w: chunk content size: %v", ErrInvalidFormat, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.childrenBytes); err != nil {
		return h, fmt.Errorf("%w: chunk children size: %v", ErrInvalidFormat, err)
	}
	return h, nil
}

func writeChunkHeader(w io.Writer, id string, contentBytes, childrenBytes uint32) error {
	if _, err := io.WriteString(w, id); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, contentBytes); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, childrenBytes)
}

// voxel is one entry of an XYZI chunk, in file axis order (x, z, y) with a
// file-native (1-based) color index.
type voxel struct {
	x, z, y byte
	color   byte
}

// Load reads a .vox stream into a freshly-allocated fixed-size shape. Blocks
// are placed directly, bypassing the transaction/history layer, the same way
// the reference loader builds the shape in one pass.
func Load(r io.Reader, cfg *vxconfig.Config, usesLighting bool) (*shape.Shape, error) {
	if err := expectBytes(r, magicBytes); err != nil {
		return nil, err
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: file format version: %v", ErrInvalidFormat, err)
	}

	if err := expectBytes(r, mainChunkHeader); err != nil {
		return nil, fmt.Errorf("%w: MAIN chunk not found", ErrInvalidFormat)
	}

	var mainContentBytes, mainChildrenBytes uint32
	if err := binary.Read(r, binary.LittleEndian, &mainContentBytes); err != nil {
		return nil, fmt.Errorf("%w: MAIN content size: %v", ErrInvalidFormat, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &mainChildrenBytes); err != nil {
		return nil, fmt.Errorf("%w: MAIN children size: %v", ErrInvalidFormat, err)
	}
	if mainContentBytes > 0 {
		return nil, fmt.Errorf("%w: MAIN chunk content size > 0", ErrInvalidFormat)
	}

	var sizeX, sizeY, sizeZ uint32
	var voxels []voxel
	var colors [nbPaletteColors]color.RGBA
	sawSize, sawXYZI := false, false

	for {
		h, err := readChunkHeader(r)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		switch string(h.id[:]) {
		case "PACK":
			var nbModels uint32
			if err := binary.Read(r, binary.LittleEndian, &nbModels); err != nil {
				return nil, fmt.Errorf("%w: PACK model count: %v", ErrInvalidFormat, err)
			}
			if nbModels > 1 {
				return nil, ErrPackChunkFound
			}

		case "SIZE":
			// File axis order is (x, z, y): the file's Y and Z are swapped
			// relative to the engine's.
			if err := readUint32Triplet(r, &sizeX, &sizeZ, &sizeY); err != nil {
				return nil, err
			}
			sawSize = true

		case "XYZI":
			var nbVoxels uint32
			if err := binary.Read(r, binary.LittleEndian, &nbVoxels); err != nil {
				return nil, fmt.Errorf("%w: voxel count: %v", ErrInvalidFormat, err)
			}
			voxels = make([]voxel, nbVoxels)
			for i := range voxels {
				v := &voxels[i]
				if err := readBytes(r, &v.x, &v.z, &v.y, &v.color); err != nil {
					return nil, fmt.Errorf("%w: voxel %d: %v", ErrInvalidFormat, i, err)
				}
			}
			sawXYZI = true

		case "RGBA":
			if h.contentBytes != nbPaletteColors*4 {
				return nil, fmt.Errorf("%w: invalid RGBA chunk size", ErrInvalidFormat)
			}
			for i := range colors {
				if err := readBytes(r, &colors[i].R, &colors[i].G, &colors[i].B, &colors[i].A); err != nil {
					return nil, fmt.Errorf("%w: palette color %d: %v", ErrInvalidFormat, i, err)
				}
			}

		default:
			if err := skip(r, int64(h.contentBytes)+int64(h.childrenBytes)); err != nil {
				return nil, fmt.Errorf("%w: skipping %q chunk: %v", ErrInvalidFormat, h.id, err)
			}
		}
	}

	if !sawSize || !sawXYZI || sizeX == 0 || sizeY == 0 || sizeZ == 0 {
		return nil, ErrInvalidFormat
	}

	s := shape.NewFixedSize(cfg, shape.Size{Width: int(sizeX), Height: int(sizeY), Depth: int(sizeZ)}, usesLighting)

	for _, v := range voxels {
		// MagicaVoxel block indexes start at 1; the palette's start at 0.
		if v.color == 0 {
			continue
		}
		fileColor := colors[v.color-1]
		colorIdx, _, ok := s.Palette().CheckAndAdd(fileColor)
		if !ok {
			colorIdx = color.AirBlock
		}
		s.AddBlock(colorIdx, int32(v.x), int32(v.y), int32(v.z))
	}
	s.Palette().ClearLightingDirty()

	return s, nil
}

// Save writes shape as a .vox stream: MAIN enclosing SIZE, XYZI and RGBA, in
// that order, matching the reference writer's fixed chunk ordering. Shape
// must be fixed-size and no larger than 256 on any axis.
func Save(w io.Writer, s *shape.Shape) error {
	size, ok := s.FixedSize()
	if !ok {
		return fmt.Errorf("voxfile: shape must be fixed-size to export")
	}
	if size.Width > maxAxisSize || size.Height > maxAxisSize || size.Depth > maxAxisSize {
		return fmt.Errorf("voxfile: shape is too big, can't export for magicavoxel")
	}

	if _, err := io.WriteString(w, magicBytes); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, FormatVersion); err != nil {
		return err
	}

	nbBlocks := s.BlockCount()
	const chunkHeaderBytes = 12
	const sizeBytes = 12
	xyziBytes := uint32(4 + 4*nbBlocks)
	rgbaBytes := uint32(nbPaletteColors * 4)
	childrenBytes := uint32(chunkHeaderBytes+sizeBytes) + uint32(chunkHeaderBytes) + xyziBytes +
		uint32(chunkHeaderBytes) + rgbaBytes

	if err := writeChunkHeader(w, mainChunkHeader, 0, childrenBytes); err != nil {
		return err
	}

	if err := writeChunkHeader(w, "SIZE", sizeBytes, 0); err != nil {
		return err
	}
	// File axis order is (x, z, y).
	if err := writeUint32Triplet(w, uint32(size.Width), uint32(size.Depth), uint32(size.Height)); err != nil {
		return err
	}

	if err := writeChunkHeader(w, "XYZI", xyziBytes, 0); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(nbBlocks)); err != nil {
		return err
	}
	for z := 0; z < size.Depth; z++ {
		for y := 0; y < size.Height; y++ {
			for x := 0; x < size.Width; x++ {
				b := s.GetBlockImmediate(int32(x), int32(y), int32(z))
				if b == color.AirBlock {
					continue
				}
				fx, fy, fz := byte(x), byte(z), byte(y)
				fc := byte(b) + 1
				if err := writeBytes(w, fx, fy, fz, fc); err != nil {
					return err
				}
			}
		}
	}

	if err := writeChunkHeader(w, "RGBA", rgbaBytes, 0); err != nil {
		return err
	}
	palette := s.Palette()
	count := int(palette.Count())
	for i := 0; i < nbPaletteColors; i++ {
		var c color.RGBA
		if i < count {
			c, _ = palette.Color(color.EntryIndex(i))
		}
		if err := writeBytes(w, c.R, c.G, c.B, c.A); err != nil {
			return err
		}
	}

	return nil
}

func expectBytes(r io.Reader, want string) error {
	got := make([]byte, len(want))
	if _, err := io.ReadFull(r, got); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if string(got) != want {
		return fmt.Errorf("%w: expected %q, got %q", ErrInvalidFormat, want, got)
	}
	return nil
}

func readUint32Triplet(r io.Reader, a, b, c *uint32) error {
	for _, v := range [...]*uint32{a, b, c} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	}
	return nil
}

func writeUint32Triplet(w io.Writer, a, b, c uint32) error {
	for _, v := range [...]uint32{a, b, c} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readBytes(r io.Reader, dst ...*byte) error {
	buf := make([]byte, len(dst))
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i, d := range dst {
		*d = buf[i]
	}
	return nil
}

func writeBytes(w io.Writer, b ...byte) error {
	_, err := w.Write(b)
	return err
}

func skip(r io.Reader, n int64) error {
	_, err := io.CopyN(io.Discard, r, n)
	return err
}
