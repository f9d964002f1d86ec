package voxfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/nyxreach/voxelcore/pkg/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShape(t *testing.T) *shape.Shape {
	t.Helper()
	s := shape.NewFixedSize(vxconfig.Default(), shape.Size{Width: 4, Height: 3, Depth: 2}, false)
	red, _, _ := s.Palette().CheckAndAdd(color.RGBA{R: 255, G: 0, B: 0, A: 255})
	blue, _, _ := s.Palette().CheckAndAdd(color.RGBA{R: 0, G: 0, B: 255, A: 255})
	require.True(t, s.AddBlock(red, 0, 0, 0))
	require.True(t, s.AddBlock(blue, 3, 2, 1))
	return s
}

func TestSaveThenLoadRoundTripsBlocksAndSize(t *testing.T) {
	s := newTestShape(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, s))

	loaded, err := Load(&buf, vxconfig.Default(), false)
	require.NoError(t, err)

	size, ok := loaded.FixedSize()
	require.True(t, ok)
	assert.Equal(t, shape.Size{Width: 4, Height: 3, Depth: 2}, size)

	assert.Equal(t, uint64(2), loaded.BlockCount())

	redColor, ok := s.Palette().Color(s.GetBlockImmediate(0, 0, 0))
	require.True(t, ok)
	loadedRedIdx := loaded.GetBlockImmediate(0, 0, 0)
	loadedRed, ok := loaded.Palette().Color(loadedRedIdx)
	require.True(t, ok)
	assert.Equal(t, redColor, loadedRed)

	blueColor, ok := s.Palette().Color(s.GetBlockImmediate(3, 2, 1))
	require.True(t, ok)
	loadedBlueIdx := loaded.GetBlockImmediate(3, 2, 1)
	loadedBlue, ok := loaded.Palette().Color(loadedBlueIdx)
	require.True(t, ok)
	assert.Equal(t, blueColor, loadedBlue)
}

func TestSaveRejectsResizableShape(t *testing.T) {
	s := shape.NewResizable(vxconfig.Default(), false)

	var buf bytes.Buffer
	err := Save(&buf, s)
	assert.Error(t, err)
}

func TestSaveRejectsOversizedShape(t *testing.T) {
	s := shape.NewFixedSize(vxconfig.Default(), shape.Size{Width: 257, Height: 1, Depth: 1}, false)

	var buf bytes.Buffer
	err := Save(&buf, s)
	assert.Error(t, err)
}

func TestLoadRejectsBadMagicBytes(t *testing.T) {
	buf := bytes.NewBufferString("NOPE1234")
	_, err := Load(buf, vxconfig.Default(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestLoadRejectsPackChunkWithMultipleModels(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(magicBytes)
	writeU32(t, &buf, FormatVersion)

	buf.WriteString(mainChunkHeader)
	writeU32(t, &buf, 0) // MAIN content bytes
	writeU32(t, &buf, 0) // MAIN children bytes (irrelevant to the scanning loop)

	buf.WriteString("PACK")
	writeU32(t, &buf, 4) // content bytes
	writeU32(t, &buf, 0) // children bytes
	writeU32(t, &buf, 2) // nbModels

	_, err := Load(&buf, vxconfig.Default(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPackChunkFound))
}

func writeU32(t *testing.T, w *bytes.Buffer, v uint32) {
	t.Helper()
	require.NoError(t, binary.Write(w, binary.LittleEndian, v))
}
