package artifact

import (
	"archive/zip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sbinet/npyio"

	"voxtract/internal/features"
	"voxtract/internal/recording"
)

const (
	// Extension is the artifact file extension.
	Extension = ".npz"
	// ArrayName is the key of the single array stored in each artifact.
	ArrayName = "data"
)

// Path returns the deterministic artifact path for a recording in a family directory.
func Path(familyDir string, id recording.ID) string {
	return filepath.Join(familyDir, id.Stem()+Extension)
}

// Exists reports whether an artifact is present at path. Any stat error other
// than "not exist" is treated as present so a flaky mount never triggers a
// silent re-extraction over existing data.
func Exists(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	return !errors.Is(err, fs.ErrNotExist)
}

// Write stores arr as a compressed artifact at path. The archive is written to a
// temporary file in the same directory and renamed into place, so a partially
// written artifact never appears at path.
func Write(path string, arr features.Array) error {
	if err := arr.Validate(); err != nil {
		return fmt.Errorf("write artifact %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	zw := zip.NewWriter(tmp)
	entry, err := zw.CreateHeader(&zip.FileHeader{Name: ArrayName + ".npy", Method: zip.Deflate})
	if err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("create archive entry: %w", err)
	}
	if err := encode(entry, arr); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("encode array: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("move artifact into place: %w", err)
	}
	return nil
}

// Read loads the array stored in an artifact.
func Read(path string) (features.Array, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return features.Array{}, fmt.Errorf("open artifact: %w", err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		if file.Name != ArrayName+".npy" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return features.Array{}, fmt.Errorf("open array %s: %w", file.Name, err)
		}
		defer rc.Close()

		r, err := npyio.NewReader(rc)
		if err != nil {
			return features.Array{}, fmt.Errorf("read array header: %w", err)
		}
		shape := append([]int(nil), r.Header.Descr.Shape...)
		data := []float64{}
		if (features.Array{Shape: shape}).Len() > 0 {
			if err := r.Read(&data); err != nil {
				return features.Array{}, fmt.Errorf("read array data: %w", err)
			}
		}
		arr := features.Array{Shape: shape, Data: data}
		if err := arr.Validate(); err != nil {
			return features.Array{}, err
		}
		return arr, nil
	}
	return features.Array{}, fmt.Errorf("artifact %s has no %q array", filepath.Base(path), ArrayName)
}

// encode writes arr as a .npy member. 1-D arrays are written as a slice and
// 2-D arrays as a gonum matrix so the shape is preserved. A 2-D array with no
// elements, such as a recording too short for a single frame, has no matrix
// form and gets a header-only member.
func encode(w io.Writer, arr features.Array) error {
	switch {
	case arr.Dims() == 1:
		return npyio.Write(w, arr.Data)
	case arr.Len() == 0:
		return writeEmptyMatrix(w, arr.Shape[0], arr.Shape[1])
	default:
		return npyio.Write(w, arr.Dense())
	}
}

// writeEmptyMatrix emits a NumPy 1.0 header for a little-endian float64
// array of shape (rows, cols) with no data.
func writeEmptyMatrix(w io.Writer, rows, cols int) error {
	const preamble = 10 // magic, version, header length
	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%d, %d), }", rows, cols)
	total := preamble + len(header) + 1
	if rem := total % 64; rem != 0 {
		header += strings.Repeat(" ", 64-rem)
	}
	header += "\n"

	buf := make([]byte, 0, preamble+len(header))
	buf = append(buf, "\x93NUMPY"...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	_, err := w.Write(buf)
	return err
}
