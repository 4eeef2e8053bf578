package seq

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	createTempFile = os.CreateTemp
	renameFile     = os.Rename
)

// A file record is the magic, the uvarint length of the sequence name, the
// name, then the snapshot. File names are hashes, so the name is kept inside
// the record for listing and for detecting hash collisions.
var fileRecordMagic = []byte("SQF2")

const (
	fileRecordExt     = ".seq"
	maxFileRecordName = 1 << 16
)

var errCorruptFileRecord = errors.New("seq: corrupt file record")

type fileStore struct {
	dir string
}

func newFileStore(dir string) Store {
	if dir == "" {
		dir = defaultFileDir()
	}
	_ = os.MkdirAll(dir, 0o755)
	return &fileStore{dir: dir}
}

func (s *fileStore) Driver() Driver { return DriverFile }

func (s *fileStore) Ready(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("file store path %q is not a directory", s.dir)
	}
	return nil
}

func (s *fileStore) Get(_ context.Context, name string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	stored, body, err := parseFileRecord(data)
	if err != nil {
		return nil, false, fmt.Errorf("sequence %q: %w", name, err)
	}
	if stored != name {
		return nil, false, fmt.Errorf("sequence %q: %w: record holds %q", name, errCorruptFileRecord, stored)
	}
	return body, true, nil
}

// Set writes the record to a temp file and renames it into place so readers
// never observe a partial snapshot.
func (s *fileStore) Set(_ context.Context, name string, value []byte) (err error) {
	if len(name) > maxFileRecordName {
		return fmt.Errorf("sequence name exceeds %d bytes", maxFileRecordName)
	}
	tmp, err := createTempFile(s.dir, "seq-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	w := bufio.NewWriter(tmp)
	w.Write(fileRecordHeader(name))
	w.Write(value)
	if err = w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return renameFile(tmp.Name(), s.path(name))
}

func (s *fileStore) Delete(_ context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *fileStore) DeleteMany(ctx context.Context, names ...string) error {
	for _, name := range names {
		if err := s.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Names reads only the record headers. Records that cannot be parsed are skipped.
func (s *fileStore) Names(context.Context) ([]string, error) {
	var names []string
	err := s.eachRecord(func(path string) error {
		name, err := readFileRecordName(path)
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, errCorruptFileRecord) {
			return nil
		}
		if err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	return sortedNames(names), err
}

func (s *fileStore) Flush(context.Context) error {
	return s.eachRecord(func(path string) error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	})
}

func (s *fileStore) eachRecord(fn func(path string) error) error {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileRecordExt) {
			continue
		}
		if err := fn(filepath.Join(s.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (s *fileStore) path(name string) string {
	sum := sha256.Sum256([]byte(name))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+fileRecordExt)
}

func fileRecordHeader(name string) []byte {
	header := make([]byte, 0, len(fileRecordMagic)+binary.MaxVarintLen64+len(name))
	header = append(header, fileRecordMagic...)
	header = binary.AppendUvarint(header, uint64(len(name)))
	return append(header, name...)
}

func parseFileRecord(data []byte) (string, []byte, error) {
	if !bytes.HasPrefix(data, fileRecordMagic) {
		return "", nil, errCorruptFileRecord
	}
	rest := data[len(fileRecordMagic):]
	n, width := binary.Uvarint(rest)
	if width <= 0 || n > uint64(len(rest)-width) {
		return "", nil, errCorruptFileRecord
	}
	rest = rest[width:]
	return string(rest[:n]), rest[n:], nil
}

func readFileRecordName(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	magic := make([]byte, len(fileRecordMagic))
	if _, err := io.ReadFull(r, magic); err != nil || !bytes.Equal(magic, fileRecordMagic) {
		return "", errCorruptFileRecord
	}
	n, err := binary.ReadUvarint(r)
	if err != nil || n > maxFileRecordName {
		return "", errCorruptFileRecord
	}
	name := make([]byte, n)
	if _, err := io.ReadFull(r, name); err != nil {
		return "", errCorruptFileRecord
	}
	return string(name), nil
}
