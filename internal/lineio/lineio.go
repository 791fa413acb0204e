// Package lineio implements the byte-oriented line primitives shared by the
// ibundle, repo-meta, and git-bundle codecs.
//
// Lines are terminated by a single LF. Ref names and comments are opaque
// byte strings carried in Go strings without any UTF-8 validation. Lists of
// `<oid> <rest>` lines end with a line containing a single ".".
package lineio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// ErrInvalidFormat indicates malformed serialized data: a missing list
// terminator, an unknown directive, a bad boolean or object id, or a missing
// separator.
var ErrInvalidFormat = errors.New("invalid format")

// ListTerminator is the line that ends a serialized list.
const ListTerminator = "."

// Reader reads LF-terminated byte lines.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r for line-oriented reading. The underlying reader is
// buffered; after header parsing completes, [Reader.Remaining] exposes the
// unread tail (e.g. embedded pack bytes).
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadLine reads the next line, strips the trailing LF, and reports whether
// the resulting line is non-empty. io.EOF yields ("", false, nil) so that
// header loops terminate on both a blank separator line and end of input.
func (r *Reader) ReadLine() (string, bool, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("reading line: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	return line, line != "", nil
}

// Remaining returns a reader positioned at the first unread byte.
func (r *Reader) Remaining() io.Reader {
	return r.br
}

// Writer writes LF-terminated byte lines.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for line-oriented writing.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteLine writes the given byte strings followed by a single LF.
func (w *Writer) WriteLine(parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w.w, p); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	if _, err := io.WriteString(w.w, "\n"); err != nil {
		return fmt.Errorf("writing line terminator: %w", err)
	}
	return nil
}

// WriteDirective writes a `%directive rest` line.
func (w *Writer) WriteDirective(directive, rest string) error {
	return w.WriteLine("%", directive, " ", rest)
}

// WriteOIDLine writes an `<oid> <rest>` line, rest verbatim.
func (w *Writer) WriteOIDLine(oid plumbing.Hash, rest string) error {
	return w.WriteLine(oid.String(), " ", rest)
}

// WriteTerminator ends a list.
func (w *Writer) WriteTerminator() error {
	return w.WriteLine(ListTerminator)
}

// SplitDirective parses a `%directive rest` line into its directive name and
// argument bytes. Lines not starting with "%" are rejected.
func SplitDirective(line string) (directive, rest string, err error) {
	if !strings.HasPrefix(line, "%") {
		return "", "", fmt.Errorf("%w: line %s is not a directive", ErrInvalidFormat, Quote(line))
	}
	directive, rest = PopWord(line[1:])
	return directive, rest, nil
}

// PopWord splits s at the first space. Without a space the whole input is
// the word and rest is empty.
func PopWord(s string) (word, rest string) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// ParseBool accepts the literals "true" and "false".
func ParseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: invalid boolean %s", ErrInvalidFormat, Quote(s))
}

// FormatBool renders a boolean as its serialized literal.
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// ParseSeqNum parses a decimal 64-bit unsigned sequence number.
func ParseSeqNum(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid sequence number %s", ErrInvalidFormat, Quote(s))
	}
	return n, nil
}

// ParseOID parses a full-width lowercase hex object id.
func ParseOID(s string) (plumbing.Hash, error) {
	if len(s) != 2*len(plumbing.Hash{}) {
		return plumbing.ZeroHash, fmt.Errorf("%w: invalid object id %s", ErrInvalidFormat, Quote(s))
	}
	for _, c := range []byte(s) {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return plumbing.ZeroHash, fmt.Errorf("%w: invalid object id %s", ErrInvalidFormat, Quote(s))
		}
	}
	return plumbing.NewHash(s), nil
}

// SplitOIDLine parses an `<oid> <rest>` line. The line splits at the first
// space only; rest keeps any further spaces and non-UTF-8 bytes verbatim.
func SplitOIDLine(line string) (plumbing.Hash, string, error) {
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return plumbing.ZeroHash, "", fmt.Errorf("%w: missing space in %s", ErrInvalidFormat, Quote(line))
	}
	oid, err := ParseOID(line[:i])
	if err != nil {
		return plumbing.ZeroHash, "", err
	}
	return oid, line[i+1:], nil
}

// Quote renders an opaque byte string for diagnostics: plain ASCII without
// single quotes is wrapped in single quotes, anything else is Go-quoted so
// non-UTF-8 bytes stay printable.
func Quote(s string) string {
	printable := !strings.ContainsRune(s, '\'')
	if printable {
		for _, c := range []byte(s) {
			if c < 0x20 || c > 0x7e {
				printable = false
				break
			}
		}
	}
	if printable {
		return "'" + s + "'"
	}
	return strconv.Quote(s)
}
