// Package cienv detects continuous integration environments.
package cienv

import (
	"os"
	"strings"
)

var ciVariables = []string{"CI", "TRAVIS", "GITHUB_ACTIONS", "TF_BUILD"}

// Adapter implements ports.CIDetectorPort from environment variables.
type Adapter struct {
	lookupEnv func(string) (string, bool)
}

// New creates a detector reading the process environment.
func New() *Adapter {
	return &Adapter{lookupEnv: os.LookupEnv}
}

// RunningOnCI reports whether any well-known CI variable is set to true.
func (a *Adapter) RunningOnCI() bool {
	for _, name := range ciVariables {
		v, ok := a.lookupEnv(name)
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true
		}
	}
	return false
}
