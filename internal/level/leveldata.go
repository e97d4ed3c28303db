package level

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sys/unix"

	"github.com/go-mclib/server/internal/nbt"
)

// Data is the subset of level.dat this engine reads and writes: just enough to
// round-trip a world's seed and bookkeeping timestamps.
type Data struct {
	Seed        int64
	DataVersion int32
	Time        int64
	LastPlayed  int64
}

// SaveLevelDat writes level.dat as a gzip-compressed NBT compound, first
// copying any existing file to level.dat_old so a crash mid-write never loses
// the previous good copy.
func SaveLevelDat(worldRoot string, data Data) error {
	path := filepath.Join(worldRoot, "level.dat")
	backupPath := filepath.Join(worldRoot, "level.dat_old")

	if err := backupIfExists(path, backupPath); err != nil {
		return fmt.Errorf("level: backing up level.dat: %w", err)
	}

	root := nbt.NewCompound()
	inner := nbt.NewCompound()
	inner.PutLong("Time", data.Time)
	inner.PutLong("LastPlayed", data.LastPlayed)
	inner.PutInt("DataVersion", data.DataVersion)

	genSettings := nbt.NewCompound()
	genSettings.PutLong("seed", data.Seed)
	inner.PutCompound("WorldGenSettings", genSettings)

	root.PutCompound("Data", inner)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := gzip.NewWriter(f)
	if err := nbt.WriteNamed(w, "", root); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// LoadLevelDat reads a level.dat written by SaveLevelDat.
func LoadLevelDat(worldRoot string) (Data, error) {
	return loadLevelDatFrom(filepath.Join(worldRoot, "level.dat"))
}

func loadLevelDatFrom(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return Data{}, err
	}
	defer gz.Close()

	_, tag, err := nbt.ReadNamed(gz)
	if err != nil {
		return Data{}, err
	}
	root, ok := tag.(*nbt.Compound)
	if !ok {
		return Data{}, fmt.Errorf("level: level.dat root is not a compound")
	}
	inner, ok := root.GetCompound("Data")
	if !ok {
		return Data{}, fmt.Errorf("level: level.dat missing Data compound")
	}

	var out Data
	out.Time, _ = inner.GetLong("Time")
	out.LastPlayed, _ = inner.GetLong("LastPlayed")
	dataVersion, _ := inner.GetInt("DataVersion")
	out.DataVersion = dataVersion
	if gen, ok := inner.GetCompound("WorldGenSettings"); ok {
		out.Seed, _ = gen.GetLong("seed")
	}
	return out, nil
}

func backupIfExists(path, backupPath string) error {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// SessionLock is an exclusive lock on a world directory's session.lock file,
// held for the lifetime of the server. Failure to acquire it is fatal: two
// server processes must never touch the same world concurrently.
type SessionLock struct {
	f *os.File
}

// AcquireSessionLock opens (creating if absent) session.lock under worldRoot
// and takes an exclusive, non-blocking advisory lock on it.
func AcquireSessionLock(worldRoot string) (*SessionLock, error) {
	path := filepath.Join(worldRoot, "session.lock")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("level: opening session.lock: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("level: another process already holds session.lock: %w", err)
	}
	return &SessionLock{f: f}, nil
}

// Release drops the lock and closes the underlying file.
func (s *SessionLock) Release() error {
	if err := unix.Flock(int(s.f.Fd()), unix.LOCK_UN); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
