// Package gitmock mocks the internal git repository adaptor.
package gitmock

//go:generate go tool mockgen -package gitmock -destination ./repositorymock.gen.go github.com/act3-ai/git-ibundle/internal/git Repository
