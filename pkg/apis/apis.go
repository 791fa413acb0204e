// Package apis defines api schemas.
package apis

import (
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/act3-ai/git-ibundle/pkg/apis/git-ibundle.act3-ai.io/v1alpha1"
)

// NewScheme builds the runtime scheme holding all configuration versions.
func NewScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	if err := v1alpha1.AddToScheme(scheme); err != nil {
		panic(err)
	}
	return scheme
}
