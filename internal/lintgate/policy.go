package lintgate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// PolicyFileNameConstant is the repository-local policy file consulted
	// before each gate run.
	PolicyFileNameConstant = ".hookx.yaml"

	policyReadErrorTemplateConstant  = "failed to load lint policy: %w"
	policyParseErrorTemplateConstant = "failed to parse lint policy %s: %w"
)

// Policy describes repository-local overrides for the pre-commit gate.
type Policy struct {
	Linter          string   `yaml:"linter"`
	LinterArguments []string `yaml:"linter_args"`
	FileExtensions  []string `yaml:"extensions"`
	SuccessMarker   string   `yaml:"success_marker"`
}

// LoadPolicy reads the policy file from the repository root. The boolean
// reports whether a policy file was present; a missing file is a normal
// condition, not an error.
func LoadPolicy(repositoryRoot string) (Policy, bool, error) {
	policyPath := filepath.Join(strings.TrimSpace(repositoryRoot), PolicyFileNameConstant)

	contentBytes, readError := os.ReadFile(policyPath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return Policy{}, false, nil
		}
		return Policy{}, false, fmt.Errorf(policyReadErrorTemplateConstant, readError)
	}

	var policy Policy
	if unmarshalError := yaml.Unmarshal(contentBytes, &policy); unmarshalError != nil {
		return Policy{}, false, fmt.Errorf(policyParseErrorTemplateConstant, policyPath, unmarshalError)
	}

	return policy, true, nil
}

// apply overlays non-empty policy values onto the configuration.
func (policy Policy) apply(configuration CommandConfiguration) CommandConfiguration {
	merged := configuration

	if len(strings.TrimSpace(policy.Linter)) > 0 {
		merged.LinterName = policy.Linter
	}
	if len(policy.LinterArguments) > 0 {
		merged.LinterArguments = policy.LinterArguments
	}
	if len(policy.FileExtensions) > 0 {
		merged.FileExtensions = policy.FileExtensions
	}
	if len(strings.TrimSpace(policy.SuccessMarker)) > 0 {
		merged.SuccessMarker = policy.SuccessMarker
	}

	return merged
}
