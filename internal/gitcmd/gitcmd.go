// Package gitcmd drives the external git processes the mirroring core
// depends on: the pack writer (`git bundle create --stdin`) and the bundle
// fetcher (`git fetch <bundle> "*:*"`).
package gitcmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// ErrPackWriter indicates a pack writer process failure.
var ErrPackWriter = errors.New("git pack writer failed")

// ErrBundleFetcher indicates a bundle fetcher process failure.
var ErrBundleFetcher = errors.New("git bundle fetcher failed")

// emptyBundleSentinel appears on the pack writer's stderr when the
// requested bundle would contain no objects.
const emptyBundleSentinel = "refusing to create empty bundle"

// Runner invokes git subprocesses against a repository.
type Runner struct {
	// GitPath overrides the git executable; empty means "git" from PATH.
	GitPath string
	// Stderr receives forwarded subprocess diagnostics; nil means the
	// process's own stderr.
	Stderr io.Writer

	gitDir string
}

// NewRunner returns a runner operating on the repository at gitDir.
func NewRunner(gitDir string) *Runner {
	return &Runner{gitDir: gitDir}
}

func (r *Runner) git() string {
	if r.GitPath != "" {
		return r.GitPath
	}
	return "git"
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// PackRequest is the pack writer's stdin: object ids the destination
// already holds, and the refs whose objects are wanted.
type PackRequest struct {
	Exclude []plumbing.Hash
	Want    []string
}

// WriteTo streams the request as `^<hex>` exclusion lines followed by
// wanted ref names, bytes verbatim.
func (pr PackRequest) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, oid := range pr.Exclude {
		n, err := fmt.Fprintf(w, "^%s\n", oid)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	for _, name := range pr.Want {
		n, err := fmt.Fprintf(w, "%s\n", name)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// BundleCreate invokes the pack writer, producing a bundle file at outPath
// from the given request. It reports empty=true when git refused because
// the bundle would contain no objects; the caller then synthesizes the
// bundle itself.
func (r *Runner) BundleCreate(ctx context.Context, outPath string, req PackRequest, quiet bool) (empty bool, err error) {
	args := []string{"-C", r.gitDir, "bundle", "create", outPath, "--stdin"}
	if quiet {
		args = append(args, "--quiet")
	}
	cmd := exec.CommandContext(ctx, r.git(), args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return false, fmt.Errorf("opening pack writer stdin: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return false, fmt.Errorf("opening pack writer stderr: %w", err)
	}

	slog.DebugContext(ctx, "invoking pack writer", slog.Any("args", cmd.Args))
	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("%w: starting %s: %w", ErrPackWriter, r.git(), err)
	}

	// Scan stderr for the empty-bundle sentinel while forwarding other
	// lines; concurrent with the stdin stream so neither pipe stalls.
	sawEmpty := make(chan bool, 1)
	go func() {
		found := false
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.Contains(strings.ToLower(line), emptyBundleSentinel) {
				found = true
				continue
			}
			fmt.Fprintln(r.stderr(), line)
		}
		sawEmpty <- found
	}()

	_, writeErr := req.WriteTo(stdin)
	if err := stdin.Close(); err != nil && writeErr == nil {
		writeErr = err
	}

	empty = <-sawEmpty
	waitErr := cmd.Wait()
	switch {
	case waitErr != nil && empty:
		return true, nil
	case waitErr != nil:
		return false, fmt.Errorf("%w: %w", ErrPackWriter, waitErr)
	case writeErr != nil:
		return false, fmt.Errorf("%w: writing pack request: %w", ErrPackWriter, writeErr)
	}
	return false, nil
}

// FetchBundle invokes the bundle fetcher against the staged bundle file,
// updating all refs in the repository.
func (r *Runner) FetchBundle(ctx context.Context, bundlePath string, quiet, dryRun bool) error {
	args := []string{"-C", r.gitDir, "fetch", "--force"}
	if quiet {
		args = append(args, "--quiet")
	}
	if dryRun {
		args = append(args, "--dry-run")
	}
	args = append(args, bundlePath, "*:*")
	cmd := exec.CommandContext(ctx, r.git(), args...)
	cmd.Stderr = r.stderr()

	slog.DebugContext(ctx, "invoking bundle fetcher", slog.Any("args", cmd.Args))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %w", ErrBundleFetcher, err)
	}
	return nil
}
