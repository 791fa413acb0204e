// Package meta models per-sequence repository snapshots and their on-disk
// store under `<git-dir>/ibundle/`.
package meta

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/act3-ai/git-ibundle/internal/lineio"
)

// SeqNum numbers snapshots per repository, strictly increasing from 1.
// 0 is reserved to mean "no basis".
type SeqNum uint64

// FormatV1 is the repo-meta file sentinel line.
const FormatV1 = "# v1 repo meta"

// Directive names used by the repo-meta serialization.
const (
	dirHeadRef      = "head_ref"
	dirHeadDetached = "head_detached"
	dirCommits      = "commits"
	dirORefs        = "orefs"
)

// ORefs maps reference name bytes to target object ids. All serialization
// iterates in byte-lexicographic name order.
type ORefs map[string]plumbing.Hash

// Names returns the ref names in sorted order.
func (o ORefs) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy.
func (o ORefs) Clone() ORefs {
	out := make(ORefs, len(o))
	for name, oid := range o {
		out[name] = oid
	}
	return out
}

// Equal reports whether both maps hold the same entries.
func (o ORefs) Equal(other ORefs) bool {
	if len(o) != len(other) {
		return false
	}
	for name, oid := range o {
		if otherOID, ok := other[name]; !ok || otherOID != oid {
			return false
		}
	}
	return true
}

// Write serializes the map as `<oid> <name>` lines plus terminator.
func (o ORefs) Write(w *lineio.Writer) error {
	for _, name := range o.Names() {
		if err := w.WriteOIDLine(o[name], name); err != nil {
			return err
		}
	}
	return w.WriteTerminator()
}

// ReadORefs parses a `.`-terminated list of `<oid> <name>` lines.
func ReadORefs(r *lineio.Reader) (ORefs, error) {
	orefs := make(ORefs)
	for {
		line, ok, err := r.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: orefs list missing final %s", lineio.ErrInvalidFormat, lineio.Quote(lineio.ListTerminator))
		}
		if line == lineio.ListTerminator {
			return orefs, nil
		}
		oid, name, err := lineio.SplitOIDLine(line)
		if err != nil {
			return nil, err
		}
		orefs[name] = oid
	}
}

// Commits maps commit ids to a short comment, typically the commit summary
// line. Serialization iterates in hex-lexicographic id order.
type Commits map[plumbing.Hash]string

// OIDs returns the commit ids in sorted order.
func (c Commits) OIDs() []plumbing.Hash {
	oids := make([]plumbing.Hash, 0, len(c))
	for oid := range c {
		oids = append(oids, oid)
	}
	sort.Slice(oids, func(i, j int) bool {
		return bytes.Compare(oids[i][:], oids[j][:]) < 0
	})
	return oids
}

// Clone returns a shallow copy.
func (c Commits) Clone() Commits {
	out := make(Commits, len(c))
	for oid, comment := range c {
		out[oid] = comment
	}
	return out
}

// Equal reports whether both maps hold the same entries.
func (c Commits) Equal(other Commits) bool {
	if len(c) != len(other) {
		return false
	}
	for oid, comment := range c {
		if otherComment, ok := other[oid]; !ok || otherComment != comment {
			return false
		}
	}
	return true
}

// Write serializes the map as `<oid> <comment>` lines plus terminator.
func (c Commits) Write(w *lineio.Writer) error {
	for _, oid := range c.OIDs() {
		if err := w.WriteOIDLine(oid, c[oid]); err != nil {
			return err
		}
	}
	return w.WriteTerminator()
}

// ReadCommits parses a `.`-terminated list of `<oid> <comment>` lines.
func ReadCommits(r *lineio.Reader) (Commits, error) {
	commits := make(Commits)
	for {
		line, ok, err := r.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: commits list missing final %s", lineio.ErrInvalidFormat, lineio.Quote(lineio.ListTerminator))
		}
		if line == lineio.ListTerminator {
			return commits, nil
		}
		oid, comment, err := lineio.SplitOIDLine(line)
		if err != nil {
			return nil, err
		}
		commits[oid] = comment
	}
}

// Meta is a repository snapshot: refs, HEAD state, and the commits the refs
// peel to.
type Meta struct {
	// HeadRef holds the symbolic HEAD target bytes, or the hex commit id
	// when HeadDetached.
	HeadRef      string
	HeadDetached bool
	// ORefs includes a synthetic "HEAD" entry mapping to the commit HEAD
	// resolves to, when it resolves to one.
	ORefs ORefs
	// Commits records, for every distinct id in ORefs, the peeled commit id
	// and its summary line.
	Commits Commits
}

// New returns an empty snapshot.
func New() Meta {
	return Meta{ORefs: make(ORefs), Commits: make(Commits)}
}

// Equal reports whether two snapshots match exactly.
func (m Meta) Equal(other Meta) bool {
	return m.HeadRef == other.HeadRef &&
		m.HeadDetached == other.HeadDetached &&
		m.ORefs.Equal(other.ORefs) &&
		m.Commits.Equal(other.Commits)
}

// Read parses a "# v1 repo meta" serialization.
func Read(r io.Reader) (Meta, error) {
	lr := lineio.NewReader(r)
	line, _, err := lr.ReadLine()
	if err != nil {
		return Meta{}, err
	}
	if line != FormatV1 {
		return Meta{}, fmt.Errorf("%w: bad repo meta sentinel %s", lineio.ErrInvalidFormat, lineio.Quote(line))
	}

	m := New()
	for {
		line, ok, err := lr.ReadLine()
		if err != nil {
			return Meta{}, err
		}
		if !ok {
			return m, nil
		}
		directive, rest, err := lineio.SplitDirective(line)
		if err != nil {
			return Meta{}, err
		}
		switch directive {
		case dirHeadRef:
			m.HeadRef = rest
		case dirHeadDetached:
			m.HeadDetached, err = lineio.ParseBool(rest)
		case dirCommits:
			m.Commits, err = ReadCommits(lr)
		case dirORefs:
			m.ORefs, err = ReadORefs(lr)
		default:
			err = fmt.Errorf("%w: unknown repo meta directive %s", lineio.ErrInvalidFormat, lineio.Quote(directive))
		}
		if err != nil {
			return Meta{}, err
		}
	}
}

// Write serializes the snapshot.
func (m Meta) Write(w io.Writer) error {
	lw := lineio.NewWriter(w)
	if err := lw.WriteLine(FormatV1); err != nil {
		return err
	}
	if err := lw.WriteDirective(dirHeadRef, m.HeadRef); err != nil {
		return err
	}
	if err := lw.WriteDirective(dirHeadDetached, lineio.FormatBool(m.HeadDetached)); err != nil {
		return err
	}
	if err := lw.WriteDirective(dirCommits, ""); err != nil {
		return err
	}
	if err := m.Commits.Write(lw); err != nil {
		return err
	}
	if err := lw.WriteDirective(dirORefs, ""); err != nil {
		return err
	}
	if err := m.ORefs.Write(lw); err != nil {
		return err
	}
	return lw.WriteLine()
}

// Delta partitions current refs against a basis.
type Delta struct {
	// Added holds refs present only in current.
	Added ORefs
	// Moved holds refs present in both with differing targets, at their
	// current targets.
	Moved ORefs
	// Unchanged holds refs identical in basis and current.
	Unchanged ORefs
	// Removed holds refs present only in the basis, at their basis targets.
	Removed ORefs
}

// Diff computes the ref delta from basis to current. The four parts are
// pairwise disjoint by name and cover both inputs.
func Diff(basis, current ORefs) Delta {
	d := Delta{
		Added:     make(ORefs),
		Moved:     make(ORefs),
		Unchanged: make(ORefs),
		Removed:   make(ORefs),
	}
	for name, oid := range current {
		basisOID, ok := basis[name]
		switch {
		case !ok:
			d.Added[name] = oid
		case basisOID != oid:
			d.Moved[name] = oid
		default:
			d.Unchanged[name] = oid
		}
	}
	for name, oid := range basis {
		if _, ok := current[name]; !ok {
			d.Removed[name] = oid
		}
	}
	return d
}
