package workload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskWriteReadRoundTrip(t *testing.T) {
	d := NewDisk(DiskConfig{
		Dir:       t.TempDir(),
		FileSize:  300_000, // exercises a trailing partial chunk
		BlockSize: 64 * 1024,
	})

	w := d.WriteWorkload()
	_, wUnits, err := w.Unit(1)
	require.NoError(t, err)
	assert.Equal(t, 300_000.0, wUnits)

	info, err := os.Stat(d.Path())
	require.NoError(t, err)
	assert.Equal(t, int64(300_000), info.Size())

	r := d.ReadWorkload()
	_, rUnits, err := r.Unit(2)
	require.NoError(t, err)
	assert.Equal(t, 600_000.0, rUnits)

	writeHist, readHist := d.ChunkLatencies()
	// 4 full chunks + 1 partial per pass.
	assert.Equal(t, int64(5), writeHist.TotalCount())
	assert.Equal(t, int64(10), readHist.TotalCount())

	require.NoError(t, d.Cleanup())
	_, err = os.Stat(d.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestDiskWriteFailureIsTyped(t *testing.T) {
	d := NewDisk(DiskConfig{
		Dir:       filepath.Join(t.TempDir(), "missing", "nested"),
		FileSize:  1024,
		BlockSize: 512,
	})

	_, _, err := d.WriteWorkload().Unit(1)
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "create", ioErr.Op)
}

func TestDiskReadMissingFileIsTyped(t *testing.T) {
	d := NewDisk(DiskConfig{
		Dir:       t.TempDir(),
		FileSize:  1024,
		BlockSize: 512,
	})

	_, _, err := d.ReadWorkload().Unit(1)
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "open", ioErr.Op)
}

func TestDiskCleanupIdempotent(t *testing.T) {
	d := NewDisk(DiskConfig{Dir: t.TempDir(), FileSize: 128, BlockSize: 64})
	require.NoError(t, d.Cleanup())
	require.NoError(t, d.Cleanup())
}

func TestDiskPacedModeStillCompletes(t *testing.T) {
	d := NewDisk(DiskConfig{
		Dir:       t.TempDir(),
		FileSize:  2048,
		BlockSize: 1024,
		MaxIOPS:   10_000,
	})

	_, units, err := d.WriteWorkload().Unit(1)
	require.NoError(t, err)
	assert.Equal(t, 2048.0, units)
}
