package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// templateData is the input passed to the Go template.
type templateData struct {
	Spec       Spec
	SpecSource string
	SpecHash   string
}

// request is one generation job, from a spec file or from flags.
type request struct {
	Spec Spec

	// Source is the spec path, or "flags".
	Source string

	// Raw is the spec file content; nil when the spec came from flags.
	Raw []byte

	OutPath string

	// Check compares against the existing file instead of writing it.
	Check bool
}

// generate validates req against the target package and writes the binding.
// It returns the path written, or checked when req.Check is set.
func generate(req request) (string, error) {
	if strings.TrimSpace(req.OutPath) == "" {
		return "", fmt.Errorf("missing output path")
	}

	outPath := filepath.Clean(req.OutPath)
	packageDir := filepath.Dir(outPath)
	spec := req.Spec

	scan, err := scanPackage(packageDir, spec.Imports.Provider)
	if err != nil {
		return "", fmt.Errorf("scan package: %w", err)
	}

	if strings.TrimSpace(spec.Package) == "" {
		spec.Package = scan.name
	} else if spec.Package != scan.name {
		return "", fmt.Errorf("spec package %q does not match package %q in %s", spec.Package, scan.name, packageDir)
	}

	if err := validateSpec(&spec); err != nil {
		return "", err
	}
	if err := checkBinding(scan, &spec); err != nil {
		return "", err
	}

	src, err := render(spec, req.Source, req.Raw)
	if err != nil {
		return "", err
	}

	if req.Check {
		if err := checkFresh(outPath, src); err != nil {
			return "", err
		}
		return outPath, nil
	}
	if err := writeFileAtomic(outPath, src, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", outPath, err)
	}
	return outPath, nil
}

// render executes the template and gofmt's the result.
func render(spec Spec, source string, raw []byte) ([]byte, error) {
	if raw == nil {
		b, err := json.Marshal(spec)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	if source == "" {
		source = "flags"
	}

	data := templateData{
		Spec:       spec,
		SpecSource: filepath.ToSlash(source),
		SpecHash:   sha256Hex(raw),
	}

	var out strings.Builder
	if err := genTemplate.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	formatted, err := format.Source([]byte(out.String()))
	if err != nil {
		return nil, fmt.Errorf("gofmt generated code: %w", err)
	}
	return formatted, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// genTemplate is the Go source template for the host binding.
var genTemplate = template.Must(
	template.New("autoprovide").Parse(`{{- $p := .Spec.Imports.Alias -}}
{{- $h := .Spec.Host -}}
{{- $c := .Spec.Capability -}}
// Code generated by autoprovide; DO NOT EDIT.
// source: {{.SpecSource}}
// sha256: {{.SpecHash}}

package {{.Spec.Package}}

import {{$p}} "{{.Spec.Imports.Provider}}"

var _ {{$p}}.Host[{{$c}}] = (*{{$h}})(nil)

// New{{$h}}Provider returns an empty container for {{$h}}.
func New{{$h}}Provider(opts ...{{$p}}.Option) *{{$p}}.Container[{{$c}}] {
	return {{$p}}.New[{{$c}}](append([]{{$p}}.Option{ {{- $p}}.WithName("{{$h}}")}, opts...)...)
}
{{- if .Spec.Constructor}}

// New{{$h}} returns a new {{$h}} with an empty container.
func New{{$h}}(opts ...{{$p}}.Option) *{{$h}} {
	return &{{$h}}{ {{- .Spec.Field}}: New{{$h}}Provider(opts...)}
}
{{- end}}

// Provider implements {{$p}}.Host.
func (h *{{$h}}) Provider() *{{$p}}.Container[{{$c}}] {
	return h.{{.Spec.Field}}
}

// Manage stores item under its concrete type and returns h for chaining.
// A service of the same type managed earlier is replaced.
func (h *{{$h}}) Manage(item {{$c}}) *{{$h}} {
	h.{{.Spec.Field}}.Manage(item)
	return h
}

// {{.Spec.GetterName}} returns the service managed under U.
// It panics if no U was managed on h.
func {{.Spec.GetterName}}[U {{$c}}](h *{{$h}}) U {
	return {{$p}}.Get[U](h.{{.Spec.Field}})
}

// Try{{.Spec.GetterName}} is {{.Spec.GetterName}} returning the failure instead of panicking.
func Try{{.Spec.GetterName}}[U {{$c}}](h *{{$h}}) (U, error) {
	return {{$p}}.TryGet[U](h.{{.Spec.Field}})
}
`),
)

// tempFile abstracts an os.File for testability.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes to a temporary file in the target directory and
// renames it over targetPath, so readers never observe a partial file.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	targetDir := filepath.Dir(targetPath)

	tmpFile, err := createTempFile(targetDir, filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	return renameFile(tmpPath, targetPath)
}
