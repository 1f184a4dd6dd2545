package io

import (
	"encoding/binary"
	"io/ioutil"
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/phil-mansfield/gopm/geom"
)

func tempFileName(t *testing.T) string {
	f, err := ioutil.TempFile("", "nbody_snapshot_test")
	if err != nil {
		t.Fatalf(err.Error())
	}
	name := f.Name()
	f.Close()
	return name
}

func randomVecs(n int, width float64) []geom.Vec {
	vs := make([]geom.Vec, n)
	for i := range vs {
		for k := 0; k < 3; k++ {
			vs[i][k] = (rand.Float64() - 0.5) * 2 * width
		}
	}
	return vs
}

func vecsAlmostEq(xs, ys []geom.Vec, eps float64) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		for k := 0; k < 3; k++ {
			diff := math.Abs(xs[i][k] - ys[i][k])
			scale := math.Max(math.Abs(xs[i][k]), 1)
			if diff > eps*scale {
				return false
			}
		}
	}
	return true
}

func TestSnapshotRoundTrip(t *testing.T) {
	fname := tempFileName(t)
	defer os.Remove(fname)

	hd := &SnapshotHeader{
		Cosmo:       CosmologyHeader{Z: 4, OmegaM: 0.27, OmegaL: 0.73, H100: 0.7},
		Mass:        1.7e9,
		Count:       64, CountWidth: 4,
		GridWidth:   8, Step: 11,
		ScaleFactor: 0.2, TotalWidth: 64,
	}
	xs, vs := randomVecs(64, 64), randomVecs(64, 500)

	if err := WriteSnapshot(fname, hd, xs, vs); err != nil {
		t.Fatalf(err.Error())
	}

	rhd := &SnapshotHeader{}
	if err := ReadSnapshotHeader(fname, rhd); err != nil {
		t.Fatalf(err.Error())
	}
	if *rhd != *hd {
		t.Errorf("Expected header %v, got %v.", *hd, *rhd)
	}

	rhd, rxs, rvs, err := ReadSnapshot(fname)
	if err != nil {
		t.Fatalf(err.Error())
	}
	if *rhd != *hd {
		t.Errorf("Expected header %v, got %v.", *hd, *rhd)
	}

	// The file stores float32s, so the round trip is only good to
	// single precision.
	if !vecsAlmostEq(xs, rxs, 1e-6) {
		t.Errorf("Positions changed by more than float32 precision.")
	}
	if !vecsAlmostEq(vs, rvs, 1e-6) {
		t.Errorf("Velocities changed by more than float32 precision.")
	}
}

func TestWriteSnapshotCountMismatch(t *testing.T) {
	fname := tempFileName(t)
	defer os.Remove(fname)

	hd := &SnapshotHeader{Count: 5}
	xs, vs := randomVecs(5, 64), randomVecs(5, 64)

	if err := WriteSnapshot(fname, hd, xs[:4], vs); err == nil {
		t.Errorf("Expected error for short position block.")
	}
	if err := WriteSnapshot(fname, hd, xs, vs[:4]); err == nil {
		t.Errorf("Expected error for short velocity block.")
	}
}

func TestReadSnapshotErrors(t *testing.T) {
	hd := &SnapshotHeader{}
	if err := ReadSnapshotHeader("not_a_real_file.nbody", hd); err == nil {
		t.Errorf("Expected error when reading a missing snapshot.")
	}

	badFlag := tempFileName(t)
	defer os.Remove(badFlag)
	f, err := os.Create(badFlag)
	if err != nil {
		t.Fatalf(err.Error())
	}
	binary.Write(f, binary.LittleEndian, int32(7))
	f.Close()
	if err := ReadSnapshotHeader(badFlag, hd); err == nil {
		t.Errorf("Expected error for an unrecognized endianness flag.")
	}

	badSize := tempFileName(t)
	defer os.Remove(badSize)
	f, err = os.Create(badSize)
	if err != nil {
		t.Fatalf(err.Error())
	}
	binary.Write(f, binary.LittleEndian, LittleEndianFlag)
	binary.Write(f, binary.LittleEndian, int32(12))
	f.Close()
	if err := ReadSnapshotHeader(badSize, hd); err == nil {
		t.Errorf("Expected error for a mismatched header size.")
	}
}
