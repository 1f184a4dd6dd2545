/*package io reads nbody config files and reads and writes particle
snapshots.
*/
package io

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"unsafe"

	"github.com/phil-mansfield/gopm/geom"
)

const (
	// Endianness flag written at the head of every snapshot. Snapshots
	// of either endianness can be read back.
	LittleEndianFlag int32 = 0
	BigEndianFlag    int32 = -1
)

/*
The binary format used for snapshots is as follows:
    |-- 1 --||-- 2 --||-- ... 3 ... --||-- ... 4 ... --||-- ... 5 ... --|

    1 - (int32) Flag indicating the endianness of the file. 0 indicates
        a little endian byte ordering and -1 indicates a big endian
        byte order.
    2 - (int32) Size of a SnapshotHeader struct. Should be checked for
        consistency.
    3 - (SnapshotHeader) Header containing meta-information about the
        snapshot.
    4 - ([][3]float32) Contiguous block of x, y, z coordinates. Given
        in comoving Mpc/h.
    5 - ([][3]float32) Contiguous block of v_x, v_y, v_z peculiar
        velocities. Given in km/s.
*/
type SnapshotHeader struct {
	Cosmo CosmologyHeader

	Mass              float64 // Mass of one particle in M_sun/h
	Count, CountWidth int64
	GridWidth         int64
	Step              int64

	ScaleFactor float64
	TotalWidth  float64
}

// CosmologyHeader contains information describing the cosmological
// context in which the simulation was run.
type CosmologyHeader struct {
	Z      float64
	OmegaM float64
	OmegaL float64
	H100   float64
}

// readInt32 returns a single 32-bit integer from the given file using
// the given endianness.
func readInt32(r io.Reader, order binary.ByteOrder) (int32, error) {
	var n int32
	if err := binary.Read(r, order, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// endianness is a utility function converting an endianness flag to a
// byte order.
func endianness(flag int32) (binary.ByteOrder, error) {
	if flag == LittleEndianFlag {
		return binary.LittleEndian, nil
	} else if flag == BigEndianFlag {
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("Unrecognized endianness flag %d.", flag)
}

// WriteSnapshot writes particle positions and velocities to the given
// file, described by the given header.
func WriteSnapshot(file string, h *SnapshotHeader, xs, vs []geom.Vec) error {
	if int(h.Count) != len(xs) {
		return fmt.Errorf(
			"Header count %d for file %s does not match xs length %d.",
			h.Count, file, len(xs),
		)
	} else if int(h.Count) != len(vs) {
		return fmt.Errorf(
			"Header count %d for file %s does not match vs length %d.",
			h.Count, file, len(vs),
		)
	}

	f, err := os.Create(file)
	if err != nil { return err }
	defer f.Close()

	order := binary.LittleEndian
	if err := binary.Write(f, order, LittleEndianFlag); err != nil {
		return err
	}
	err = binary.Write(f, order, int32(unsafe.Sizeof(SnapshotHeader{})))
	if err != nil { return err }
	if err := binary.Write(f, order, h); err != nil { return err }

	buf := make([]float32, 3*len(xs))
	fillFloat32(buf, xs)
	if err := binary.Write(f, order, buf); err != nil { return err }
	fillFloat32(buf, vs)
	if err := binary.Write(f, order, buf); err != nil { return err }

	return nil
}

func fillFloat32(buf []float32, vs []geom.Vec) {
	for i, v := range vs {
		buf[3*i] = float32(v[0])
		buf[3*i+1] = float32(v[1])
		buf[3*i+2] = float32(v[2])
	}
}

func readSnapshotHeaderAt(
	file string, hdBuf *SnapshotHeader,
) (*os.File, binary.ByteOrder, error) {
	f, err := os.OpenFile(file, os.O_RDONLY, os.ModePerm)
	if err != nil { return nil, nil, err }

	// Order doesn't matter for this read, since the flags are
	// symmetric.
	flag, err := readInt32(f, binary.LittleEndian)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	order, err := endianness(flag)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	headerSize, err := readInt32(f, order)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if headerSize != int32(unsafe.Sizeof(SnapshotHeader{})) {
		f.Close()
		return nil, nil, fmt.Errorf(
			"Expected io.SnapshotHeader size of %d, found %d.",
			unsafe.Sizeof(SnapshotHeader{}), headerSize,
		)
	}

	if err := binary.Read(f, order, hdBuf); err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, order, nil
}

// ReadSnapshotHeader reads the header of the given snapshot into
// hdBuf.
func ReadSnapshotHeader(file string, hdBuf *SnapshotHeader) error {
	f, _, err := readSnapshotHeaderAt(file, hdBuf)
	if err != nil { return err }
	return f.Close()
}

// ReadSnapshot reads the header, positions, and velocities of the
// given snapshot.
func ReadSnapshot(file string) (*SnapshotHeader, []geom.Vec, []geom.Vec, error) {
	h := &SnapshotHeader{}
	f, order, err := readSnapshotHeaderAt(file, h)
	if err != nil { return nil, nil, nil, err }
	defer f.Close()

	buf := make([]float32, 3*h.Count)
	xs := make([]geom.Vec, h.Count)
	vs := make([]geom.Vec, h.Count)

	if err := binary.Read(f, order, buf); err != nil {
		return nil, nil, nil, err
	}
	fillVecs(xs, buf)
	if err := binary.Read(f, order, buf); err != nil {
		return nil, nil, nil, err
	}
	fillVecs(vs, buf)

	return h, xs, vs, nil
}

func fillVecs(vs []geom.Vec, buf []float32) {
	for i := range vs {
		vs[i][0] = float64(buf[3*i])
		vs[i][1] = float64(buf[3*i+1])
		vs[i][2] = float64(buf[3*i+2])
	}
}
