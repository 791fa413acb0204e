// Package v1alpha1 defines the v1alpha1 schema.
//
// +kubebuilder:object:generate=true
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +kubebuilder:object:root=true

// Configuration type is used to store a user's current configuration settings.
type Configuration struct {
	metav1.TypeMeta `json:",inline"`

	ConfigurationSpec `json:",inline"`
}

// ConfigurationSpec is the actual configuration values.
type ConfigurationSpec struct {
	// Keep is the number of repo-meta sequence numbers `clean` retains by
	// default.
	Keep int `json:"keep,omitempty"`

	// GitExecutable overrides the git binary used for the pack writer and
	// bundle fetcher subprocesses.
	GitExecutable string `json:"gitExecutable,omitempty"`
}

// DefaultKeep is the retention applied when no configuration sets one.
const DefaultKeep = 20

// ConfigurationDefault defaults the fields in Configuration. The argument
// must be a Configuration.
func ConfigurationDefault(obj *Configuration) {
	if obj == nil {
		obj = &Configuration{}
	}

	// Default the TypeMeta
	obj.APIVersion = GroupVersion.String()
	obj.Kind = "Configuration"

	if obj.Keep == 0 {
		obj.Keep = DefaultKeep
	}
}
