// Package testutils provides utility functions for building testdata.
package testutils

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RepoBuilder provides methods for building a git repository with the ref
// and HEAD shapes the mirroring core cares about: branches, lightweight and
// annotated tags, detached HEAD, and arbitrary ref name bytes.
type RepoBuilder struct {
	repo *git.Repository
	dir  string
}

// NewRepoBuilder initializes a RepoBuilder over a fresh non-bare repository.
func NewRepoBuilder(dir string) (*RepoBuilder, error) {
	// will create if dir dne
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return nil, fmt.Errorf("initializing plain git repository: %w", err)
	}

	return &RepoBuilder{repo: repo, dir: dir}, nil
}

// InitBare initializes a fresh bare repository, the shape fetch requires.
func InitBare(dir string) (*git.Repository, error) {
	repo, err := git.PlainInit(dir, true)
	if err != nil {
		return nil, fmt.Errorf("initializing bare git repository: %w", err)
	}
	return repo, nil
}

// Repo returns the underlying git repository.
func (b *RepoBuilder) Repo() *git.Repository {
	return b.repo
}

// Dir returns the repository's working tree directory.
func (b *RepoBuilder) Dir() string {
	return b.dir
}

// CreateCommit commits a file with the given content on the current branch.
func (b *RepoBuilder) CreateCommit(filename, content string) (plumbing.Hash, error) {
	wt, err := b.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("getting repository worktree: %w", err)
	}

	f, err := wt.Filesystem.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o666)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("opening file: %w", err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		f.Close()
		return plumbing.ZeroHash, fmt.Errorf("writing file data: %w", err)
	}
	if err := f.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("closing file: %w", err)
	}

	if _, err := wt.Add(filename); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("adding file to worktree: %w", err)
	}

	hash, err := wt.Commit(fmt.Sprintf("add %s", filename), &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("committing file: %w", err)
	}

	return hash, nil
}

// CreateBranch creates a new branch.
func (b *RepoBuilder) CreateBranch(branchName string, commit plumbing.Hash) (*plumbing.Reference, error) {
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branchName), commit)
	if err := b.repo.Storer.SetReference(ref); err != nil {
		return nil, fmt.Errorf("creating branch reference: %w", err)
	}
	return ref, nil
}

// DeleteBranch deletes a branch.
func (b *RepoBuilder) DeleteBranch(branchName string) error {
	refName := plumbing.NewBranchReferenceName(branchName)
	if err := b.repo.Storer.RemoveReference(refName); err != nil {
		return fmt.Errorf("deleting branch reference: %w", err)
	}
	return nil
}

// CreateTag creates a lightweight tag.
func (b *RepoBuilder) CreateTag(tagName string, commit plumbing.Hash) (*plumbing.Reference, error) {
	ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(tagName), commit)
	if err := b.repo.Storer.SetReference(ref); err != nil {
		return nil, fmt.Errorf("creating tag reference: %w", err)
	}
	return ref, nil
}

// CreateAnnotatedTag creates an annotated tag object pointing at a commit.
func (b *RepoBuilder) CreateAnnotatedTag(tagName, message string, commit plumbing.Hash) (*plumbing.Reference, error) {
	ref, err := b.repo.CreateTag(tagName, commit, &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("creating annotated tag: %w", err)
	}
	return ref, nil
}

// DeleteTag deletes a tag.
func (b *RepoBuilder) DeleteTag(tagName string) error {
	refName := plumbing.NewTagReferenceName(tagName)
	if err := b.repo.Storer.RemoveReference(refName); err != nil {
		return fmt.Errorf("deleting tag reference: %w", err)
	}
	return nil
}

// CreateRef sets a reference with arbitrary name bytes, bypassing branch
// and tag naming conventions.
func (b *RepoBuilder) CreateRef(name string, commit plumbing.Hash) error {
	ref := plumbing.NewHashReference(plumbing.ReferenceName(name), commit)
	if err := b.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("creating reference: %w", err)
	}
	return nil
}

// SetHeadBranch points HEAD symbolically at a branch.
func (b *RepoBuilder) SetHeadBranch(branchName string) error {
	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branchName))
	if err := b.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("setting HEAD branch: %w", err)
	}
	return nil
}

// DetachHead points HEAD directly at a commit.
func (b *RepoBuilder) DetachHead(commit plumbing.Hash) error {
	ref := plumbing.NewHashReference(plumbing.HEAD, commit)
	if err := b.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("detaching HEAD: %w", err)
	}
	return nil
}
