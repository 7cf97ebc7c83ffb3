package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultProviderImport = "github.com/sghaida/autoprovide/provider"
	defaultImportAlias    = "provider"
	defaultField          = "provider"
)

// Imports controls how the generated file refers to the runtime package.
type Imports struct {
	// Provider is the import path of the provider package.
	Provider string `json:"provider" yaml:"provider"`

	// Alias is the local name used for that import in the generated file.
	Alias string `json:"alias" yaml:"alias"`
}

// Spec is the full input schema consumed by the generator.
type Spec struct {
	// Package is the target package; inferred from the output directory when empty.
	Package string `json:"package" yaml:"package"`

	// Host is the struct that owns the container.
	Host string `json:"host" yaml:"host"`

	// Capability is the interface every managed service satisfies.
	Capability string `json:"capability" yaml:"capability"`

	// Field is the host field holding *provider.Container[Capability].
	Field string `json:"field" yaml:"field"`

	// Constructor also emits New<Host>() with an empty container.
	Constructor bool `json:"constructor" yaml:"constructor"`

	// GetterName names the constrained getter; Try<GetterName> is emitted alongside.
	GetterName string `json:"getterName" yaml:"getterName"`

	Imports Imports `json:"imports" yaml:"imports"`
}

// loadSpec decodes a spec file, choosing the decoder by extension.
// Unknown fields are rejected so typos fail loudly.
func loadSpec(path string) (Spec, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, nil, err
	}

	var spec Spec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil {
			return Spec{}, nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return Spec{}, nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return Spec{}, nil, fmt.Errorf("unsupported spec extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
	return spec, raw, nil
}

// applyDefaults fills every optional field that is still empty.
func applyDefaults(spec *Spec, field, providerImport string) {
	if strings.TrimSpace(spec.Field) == "" {
		spec.Field = field
	}
	if strings.TrimSpace(spec.Field) == "" {
		spec.Field = defaultField
	}
	if strings.TrimSpace(spec.Imports.Provider) == "" {
		spec.Imports.Provider = providerImport
	}
	if strings.TrimSpace(spec.Imports.Provider) == "" {
		spec.Imports.Provider = defaultProviderImport
	}
	if strings.TrimSpace(spec.Imports.Alias) == "" {
		spec.Imports.Alias = defaultImportAlias
	}
	if strings.TrimSpace(spec.GetterName) == "" {
		spec.GetterName = spec.Host + "Get"
	}
}

// validateSpec checks required fields and that every name is a Go identifier.
func validateSpec(spec *Spec) error {
	var missingFields []string

	requireNonEmpty := func(fieldName, value string) {
		if strings.TrimSpace(value) == "" {
			missingFields = append(missingFields, fieldName)
		}
	}

	requireNonEmpty("package", spec.Package)
	requireNonEmpty("host", spec.Host)
	requireNonEmpty("capability", spec.Capability)

	if len(missingFields) > 0 {
		return fmt.Errorf("spec missing required fields: %v", missingFields)
	}

	idents := []struct{ name, value string }{
		{"package", spec.Package},
		{"host", spec.Host},
		{"capability", spec.Capability},
		{"field", spec.Field},
		{"getterName", spec.GetterName},
		{"imports.alias", spec.Imports.Alias},
	}
	for _, id := range idents {
		if !token.IsIdentifier(id.value) {
			return fmt.Errorf("spec field %s: %q is not a valid Go identifier", id.name, id.value)
		}
	}

	if spec.Imports.Alias == spec.Host || spec.Imports.Alias == spec.Capability {
		return fmt.Errorf("imports.alias %q collides with a type name; set imports.alias", spec.Imports.Alias)
	}
	if spec.GetterName == spec.Host {
		return fmt.Errorf("getterName %q collides with the host type", spec.GetterName)
	}
	return nil
}
