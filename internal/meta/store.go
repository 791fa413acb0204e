package meta

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Store reads and writes per-sequence snapshots under the repository's
// `<git-dir>/ibundle/` subtree:
//
//	id           repo identity, one line
//	repo_meta/N  snapshot for sequence N
//	temp/        scratch files, removed on every exit path
type Store struct {
	gitDir string
}

// NewStore returns a store rooted in the given git directory.
func NewStore(gitDir string) *Store {
	return &Store{gitDir: gitDir}
}

// Root returns the state root, `<git-dir>/ibundle`.
func (s *Store) Root() string {
	return filepath.Join(s.gitDir, "ibundle")
}

func (s *Store) metaDir() string {
	return filepath.Join(s.Root(), "repo_meta")
}

func (s *Store) metaPath(seq SeqNum) string {
	return filepath.Join(s.metaDir(), strconv.FormatUint(uint64(seq), 10))
}

func (s *Store) idPath() string {
	return filepath.Join(s.Root(), "id")
}

// SeqNums lists the recorded sequence numbers in descending order. A missing
// repo_meta directory yields an empty list.
func (s *Store) SeqNums() ([]SeqNum, error) {
	entries, err := os.ReadDir(s.metaDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.metaDir(), err)
	}
	var seqNums []SeqNum
	for _, entry := range entries {
		n, err := strconv.ParseUint(entry.Name(), 10, 64)
		if err != nil {
			continue
		}
		seqNums = append(seqNums, SeqNum(n))
	}
	sort.Slice(seqNums, func(i, j int) bool { return seqNums[i] > seqNums[j] })
	return seqNums, nil
}

// Has reports whether a snapshot exists for seq.
func (s *Store) Has(seq SeqNum) bool {
	_, err := os.Stat(s.metaPath(seq))
	return err == nil
}

// Load reads the snapshot for seq. Sequence 0 is the empty prior state.
func (s *Store) Load(seq SeqNum) (Meta, error) {
	if seq == 0 {
		return New(), nil
	}
	f, err := os.Open(s.metaPath(seq))
	if err != nil {
		return Meta{}, fmt.Errorf("opening snapshot %d at %s: %w", seq, s.metaPath(seq), err)
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return Meta{}, fmt.Errorf("reading snapshot %d at %s: %w", seq, s.metaPath(seq), err)
	}
	return m, nil
}

// Write records the snapshot for seq.
func (s *Store) Write(seq SeqNum, m Meta) error {
	if err := os.MkdirAll(s.metaDir(), 0o777); err != nil {
		return fmt.Errorf("creating %s: %w", s.metaDir(), err)
	}
	f, err := os.Create(s.metaPath(seq))
	if err != nil {
		return fmt.Errorf("creating snapshot %d at %s: %w", seq, s.metaPath(seq), err)
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing snapshot %d at %s: %w", seq, s.metaPath(seq), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing snapshot %d at %s: %w", seq, s.metaPath(seq), err)
	}
	return nil
}

// Remove deletes the snapshot for seq.
func (s *Store) Remove(seq SeqNum) error {
	if err := os.Remove(s.metaPath(seq)); err != nil {
		return fmt.Errorf("removing snapshot %d at %s: %w", seq, s.metaPath(seq), err)
	}
	return nil
}

// ReadID reads the recorded repo identity, reporting ok when present.
func (s *Store) ReadID() (string, bool) {
	data, err := os.ReadFile(s.idPath())
	if err != nil {
		return "", false
	}
	return strings.TrimRight(string(data), "\n"), true
}

// WriteID records the repo identity, creating the state root as needed.
func (s *Store) WriteID(id string) error {
	if err := os.MkdirAll(s.Root(), 0o777); err != nil {
		return fmt.Errorf("creating %s: %w", s.Root(), err)
	}
	if err := os.WriteFile(s.idPath(), []byte(id+"\n"), 0o666); err != nil {
		return fmt.Errorf("writing repo id to %s: %w", s.idPath(), err)
	}
	return nil
}

// NewID allocates a fresh repo identity.
func NewID() string {
	return uuid.NewString()
}

// TempFile creates a scratch file under `<root>/temp`. The returned cleanup
// closes and removes the file and is safe to call on every exit path.
func (s *Store) TempFile(pattern string) (*os.File, func(), error) {
	tempDir := filepath.Join(s.Root(), "temp")
	if err := os.MkdirAll(tempDir, 0o777); err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", tempDir, err)
	}
	f, err := os.CreateTemp(tempDir, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("creating temporary file in %s: %w", tempDir, err)
	}
	cleanup := func() {
		f.Close()
		os.Remove(f.Name())
	}
	return f, cleanup, nil
}

// MaxSeqNum returns the largest recorded sequence number, or 0.
func MaxSeqNum(seqNums []SeqNum) SeqNum {
	if len(seqNums) > 0 {
		return seqNums[0]
	}
	return 0
}

// NextSeqNum returns the next sequence number after the recorded maximum.
func NextSeqNum(seqNums []SeqNum) (SeqNum, error) {
	maxSeq := MaxSeqNum(seqNums)
	if maxSeq == ^SeqNum(0) {
		return 0, fmt.Errorf("sequence number %d too large", maxSeq)
	}
	return maxSeq + 1, nil
}
