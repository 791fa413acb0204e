// Package actions holds the actions called by the git-ibundle subcommands.
package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/act3-ai/git-ibundle/internal/git"
	"github.com/act3-ai/git-ibundle/internal/gitcmd"
	"github.com/act3-ai/git-ibundle/internal/meta"
	"github.com/act3-ai/git-ibundle/pkg/apis"
	"github.com/act3-ai/git-ibundle/pkg/apis/git-ibundle.act3-ai.io/v1alpha1"
	"github.com/act3-ai/go-common/pkg/config"
)

// Error kinds fatal to a command. main maps ErrRefusedEmpty to exit status
// 3 and everything else to 1.
var (
	// ErrRefusedEmpty indicates create would produce an empty ibundle.
	ErrRefusedEmpty = errors.New("refusing to create an empty ibundle")
	// ErrIdentityMismatch indicates the destination belongs to a different
	// logical repository.
	ErrIdentityMismatch = errors.New("repository identity mismatch")
	// ErrBasisMissing indicates a required basis snapshot is absent.
	ErrBasisMissing = errors.New("basis snapshot missing")
	// ErrPrereqMissing indicates the destination object store lacks
	// prerequisite commits or pre-existing ref targets.
	ErrPrereqMissing = errors.New("prerequisites missing")
	// ErrConsistency indicates post-fetch verification disagrees with the
	// ibundle's claims.
	ErrConsistency = errors.New("consistency failure")
	// ErrUnsupportedRepo indicates a fetch into a non-bare repository.
	ErrUnsupportedRepo = errors.New("unsupported repository")
)

// Tool is the base action: the repository under operation and its snapshot
// store, plus configuration shared by every subcommand.
type Tool struct {
	version string

	// RepoPath locates the repository; "." by default.
	RepoPath string

	// ConfigFiles contains a list of potential configuration file locations.
	ConfigFiles []string

	// Out receives user-facing command output.
	Out io.Writer

	apiScheme *runtime.Scheme

	repo   *git.Repo
	store  *meta.Store
	runner *gitcmd.Runner
	cfg    *v1alpha1.Configuration
}

// NewTool creates a base action with default values.
func NewTool(version string, repoPath string, out io.Writer, cfgFiles []string) *Tool {
	if repoPath == "" {
		repoPath = "."
	}
	if out == nil {
		out = os.Stdout
	}
	return &Tool{
		version:     version,
		RepoPath:    repoPath,
		ConfigFiles: cfgFiles,
		Out:         out,
		apiScheme:   apis.NewScheme(),
	}
}

// Repo opens the repository if it hasn't been opened already.
func (t *Tool) Repo(ctx context.Context) (*git.Repo, error) {
	if t.repo == nil {
		slog.DebugContext(ctx, "opening repository", slog.String("path", t.RepoPath))
		repo, err := git.Open(t.RepoPath)
		if err != nil {
			return nil, err
		}
		t.repo = repo
	}
	return t.repo, nil
}

// Store returns the snapshot store rooted in the repository's git directory.
func (t *Tool) Store(ctx context.Context) (*meta.Store, error) {
	if t.store == nil {
		repo, err := t.Repo(ctx)
		if err != nil {
			return nil, err
		}
		t.store = meta.NewStore(repo.GitDir())
	}
	return t.store, nil
}

// Runner returns the git subprocess runner for the repository, honoring the
// configured git executable override.
func (t *Tool) Runner(ctx context.Context) (*gitcmd.Runner, error) {
	if t.runner == nil {
		repo, err := t.Repo(ctx)
		if err != nil {
			return nil, err
		}
		cfg, err := t.GetConfig(ctx)
		if err != nil {
			return nil, err
		}
		t.runner = gitcmd.NewRunner(repo.GitDir())
		t.runner.GitPath = cfg.GitExecutable
	}
	return t.runner, nil
}

// GetScheme returns the runtime scheme used for configuration file loading.
func (t *Tool) GetScheme() *runtime.Scheme {
	return t.apiScheme
}

// GetConfig loads Configuration using the current search path.
func (t *Tool) GetConfig(ctx context.Context) (*v1alpha1.Configuration, error) {
	if t.cfg != nil {
		return t.cfg, nil
	}
	c := &v1alpha1.Configuration{}

	slog.DebugContext(ctx, "searching for configuration files", slog.Any("cfgFiles", t.ConfigFiles))
	if err := config.Load(slog.Default(), t.GetScheme(), c, t.ConfigFiles); err != nil {
		return c, fmt.Errorf("loading configuration: %w", err)
	}
	t.cfg = c
	return c, nil
}

// printf writes user-facing output.
func (t *Tool) printf(format string, args ...any) {
	fmt.Fprintf(t.Out, format, args...)
}
