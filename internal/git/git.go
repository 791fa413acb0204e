// Package git provides a thin repository adaptor over go-git concrete types.
//
// Reference names cross this boundary as opaque Go strings carrying raw
// bytes; nothing here validates or normalizes them as text, so non-UTF-8
// ref names round-trip byte-for-byte.
package git

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNonDirectRef indicates a reference other than HEAD that does not point
// directly at an object.
var ErrNonDirectRef = errors.New("non-direct reference")

// Ref is a direct reference: name bytes and target object id.
type Ref struct {
	Name string
	OID  plumbing.Hash
}

// Head is the state of a repository's HEAD.
type Head struct {
	// Target holds the symbolic target ref name, or the hex commit id when
	// detached.
	Target string
	// Detached distinguishes the two cases of Target.
	Detached bool
}

// Repository exposes the repository operations the mirroring core needs.
//
// An interface over the [gogit.Repository] concrete type.
type Repository interface {
	// GitDir returns the repository's git directory.
	GitDir() string

	// IsBare reports whether the repository has no working tree.
	IsBare() (bool, error)

	// References enumerates all direct references, excluding HEAD. A
	// symbolic reference other than HEAD yields ErrNonDirectRef.
	References() ([]Ref, error)

	// Head reads HEAD's symbolic or detached state.
	Head() (Head, error)

	// HeadCommit resolves HEAD to a commit id. ok is false when HEAD does
	// not peel to a commit (e.g. an unborn branch).
	HeadCommit() (oid plumbing.Hash, ok bool)

	// PeelToCommit resolves oid through zero or more tag objects to a
	// commit, returning the commit id and its summary line.
	PeelToCommit(oid plumbing.Hash) (plumbing.Hash, string, error)

	// HasObject reports whether oid exists in the object store.
	HasObject(oid plumbing.Hash) bool

	// SetHead points HEAD at the given ref name symbolically. The name is
	// opaque bytes and is not inspected.
	SetHead(name string) error

	// SetHeadDetached points HEAD directly at a commit.
	SetHeadDetached(oid plumbing.Hash) error

	// DeleteRef removes the reference with the given name bytes.
	DeleteRef(name string) error
}

// Repo implements [Repository].
type Repo struct {
	repo   *gogit.Repository
	gitDir string
}

// Open opens the repository at path, which may be a working tree or a bare
// repository.
func Open(path string) (*Repo, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", path, err)
	}
	gitDir, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving git directory of %s: %w", path, err)
	}
	if fi, err := os.Stat(filepath.Join(gitDir, ".git")); err == nil && fi.IsDir() {
		gitDir = filepath.Join(gitDir, ".git")
	}
	return &Repo{repo: repo, gitDir: gitDir}, nil
}

// NewRepository wraps an already-open [gogit.Repository] rooted at gitDir.
func NewRepository(repo *gogit.Repository, gitDir string) *Repo {
	return &Repo{repo: repo, gitDir: gitDir}
}

// GitDir returns the repository's git directory.
func (r *Repo) GitDir() string {
	return r.gitDir
}

// IsBare reports whether the repository has no working tree.
func (r *Repo) IsBare() (bool, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return false, fmt.Errorf("reading repository config: %w", err)
	}
	return cfg.Core.IsBare, nil
}

// References enumerates all direct references, excluding HEAD.
func (r *Repo) References() ([]Ref, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}
	defer iter.Close()

	var refs []Ref
	for {
		ref, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating references: %w", err)
		}
		name := string(ref.Name())
		if name == "HEAD" {
			continue
		}
		if ref.Type() != plumbing.HashReference {
			return nil, fmt.Errorf("%w: %s", ErrNonDirectRef, name)
		}
		refs = append(refs, Ref{Name: name, OID: ref.Hash()})
	}
	return refs, nil
}

// Head reads HEAD's symbolic or detached state.
func (r *Repo) Head() (Head, error) {
	ref, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return Head{}, fmt.Errorf("reading HEAD: %w", err)
	}
	if ref.Type() == plumbing.SymbolicReference {
		return Head{Target: string(ref.Target())}, nil
	}
	return Head{Target: ref.Hash().String(), Detached: true}, nil
}

// HeadCommit resolves HEAD to a commit id.
func (r *Repo) HeadCommit() (plumbing.Hash, bool) {
	ref, err := r.repo.Reference(plumbing.HEAD, true)
	if err != nil {
		return plumbing.ZeroHash, false
	}
	oid, _, err := r.PeelToCommit(ref.Hash())
	if err != nil {
		return plumbing.ZeroHash, false
	}
	return oid, true
}

// PeelToCommit resolves oid through tags to a commit and its summary line.
func (r *Repo) PeelToCommit(oid plumbing.Hash) (plumbing.Hash, string, error) {
	obj, err := r.repo.Object(plumbing.AnyObject, oid)
	if err != nil {
		return plumbing.ZeroHash, "", fmt.Errorf("looking up object %s: %w", oid, err)
	}
	for {
		switch o := obj.(type) {
		case *object.Commit:
			return o.Hash, summary(o.Message), nil
		case *object.Tag:
			obj, err = o.Object()
			if err != nil {
				return plumbing.ZeroHash, "", fmt.Errorf("peeling tag %s: %w", o.Hash, err)
			}
		default:
			return plumbing.ZeroHash, "", fmt.Errorf("object %s peels to %s, not a commit", oid, obj.Type())
		}
	}
}

// HasObject reports whether oid exists in the object store.
func (r *Repo) HasObject(oid plumbing.Hash) bool {
	return r.repo.Storer.HasEncodedObject(oid) == nil
}

// SetHead points HEAD at the given ref name symbolically.
func (r *Repo) SetHead(name string) error {
	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.ReferenceName(name))
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("setting HEAD to %s: %w", name, err)
	}
	return nil
}

// SetHeadDetached points HEAD directly at a commit.
func (r *Repo) SetHeadDetached(oid plumbing.Hash) error {
	ref := plumbing.NewHashReference(plumbing.HEAD, oid)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("detaching HEAD at %s: %w", oid, err)
	}
	return nil
}

// DeleteRef removes the reference with the given name bytes.
func (r *Repo) DeleteRef(name string) error {
	if err := r.repo.Storer.RemoveReference(plumbing.ReferenceName(name)); err != nil {
		return fmt.Errorf("deleting reference %s: %w", name, err)
	}
	return nil
}

func summary(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
