// Package bundle reads and writes v2 git bundle headers, the framing used
// both by the embedded ibundle pack and by the staged bundle handed to
// `git fetch`.
package bundle

import (
	"fmt"
	"io"
	"strings"

	"github.com/act3-ai/git-ibundle/internal/lineio"
	"github.com/act3-ai/git-ibundle/internal/meta"
)

// FormatV2 is the git bundle sentinel line.
const FormatV2 = "# v2 git bundle"

// Header is the textual part of a v2 git bundle: prerequisite commits and
// the refs contained in the pack.
type Header struct {
	Prereqs meta.Commits
	Refs    meta.ORefs
}

// NewHeader returns an empty header.
func NewHeader() Header {
	return Header{Prereqs: make(meta.Commits), Refs: make(meta.ORefs)}
}

// Read parses a bundle header, leaving r positioned at the pack bytes.
func Read(r *lineio.Reader) (Header, error) {
	line, _, err := r.ReadLine()
	if err != nil {
		return Header{}, err
	}
	if line != FormatV2 {
		return Header{}, fmt.Errorf("%w: bad bundle sentinel %s", lineio.ErrInvalidFormat, lineio.Quote(line))
	}

	h := NewHeader()
	for {
		line, ok, err := r.ReadLine()
		if err != nil {
			return Header{}, err
		}
		if !ok {
			return h, nil
		}
		if rest, isPrereq := strings.CutPrefix(line, "-"); isPrereq {
			// git writes "-<oid> <summary>"; the summary may be absent.
			if strings.ContainsRune(rest, ' ') {
				oid, comment, err := lineio.SplitOIDLine(rest)
				if err != nil {
					return Header{}, err
				}
				h.Prereqs[oid] = comment
			} else {
				oid, err := lineio.ParseOID(rest)
				if err != nil {
					return Header{}, err
				}
				h.Prereqs[oid] = ""
			}
			continue
		}
		oid, name, err := lineio.SplitOIDLine(line)
		if err != nil {
			return Header{}, err
		}
		h.Refs[name] = oid
	}
}

// Write serializes the header, sorted for reproducibility, ending with the
// blank line that precedes the pack bytes.
func (h Header) Write(w io.Writer) error {
	lw := lineio.NewWriter(w)
	if err := lw.WriteLine(FormatV2); err != nil {
		return err
	}
	for _, oid := range h.Prereqs.OIDs() {
		if err := lw.WriteLine("-", oid.String(), " ", h.Prereqs[oid]); err != nil {
			return err
		}
	}
	for _, name := range h.Refs.Names() {
		if err := lw.WriteOIDLine(h.Refs[name], name); err != nil {
			return err
		}
	}
	return lw.WriteLine()
}

// EmptyPack is the canonical output of packing zero objects: the PACK v2
// frame with no entries followed by its SHA-1 trailer. It substitutes for
// the pack writer's output when git refuses to create an empty bundle.
// The trailer is hash-algorithm specific and must change for SHA-256
// object stores.
var EmptyPack = []byte{
	'P', 'A', 'C', 'K',
	0x00, 0x00, 0x00, 0x02,
	0x00, 0x00, 0x00, 0x00,
	0x02, 0x9d, 0x08, 0x82, 0x3b, 0xd8, 0xa8, 0xea,
	0xb5, 0x10, 0xad, 0x6a, 0xc7, 0x5c, 0x82, 0x3c,
	0xfd, 0x3e, 0xd3, 0x1e,
}
