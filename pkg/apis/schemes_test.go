// Package apis defines api schemas.
package apis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/act3-ai/git-ibundle/pkg/apis/git-ibundle.act3-ai.io/v1alpha1"
)

func TestNewScheme(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		scheme := NewScheme()
		assert.NotNil(t, scheme)
		assert.True(t, scheme.Recognizes(v1alpha1.GroupVersion.WithKind("Configuration")))
	})
}
