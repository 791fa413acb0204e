// Package docs provides embedded documentation.
package docs

import (
	"embed"
)

// GeneralDocumentation is embedded general documentation.
//
//go:embed quick-start-guide.md
//go:embed user-guide.md
var GeneralDocumentation embed.FS

// Topics lists the embedded documentation topics in presentation order.
func Topics() []string {
	return []string{"quick-start-guide", "user-guide"}
}
