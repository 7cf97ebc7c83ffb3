package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI invokes run and captures both streams.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// registryHostSource declares the container under a non-default field name.
const registryHostSource = "package svc\n\n" + providerImportLine + `

type Component interface{ provider.Capability }

type App struct {
	registry *provider.Container[Component]
}
`

func TestRun_Version(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "autoprovide dev\n", stdout)
	assert.Empty(t, stderr)
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantSub string
	}{
		{name: "missing out", args: []string{"generate", "--host", "App", "--capability", "Component"}, wantSub: "missing --out"},
		{name: "no spec and no host", args: []string{"generate", "-o", "x.gen.go"}, wantSub: "use --spec, or both --host and --capability"},
		{name: "host without capability", args: []string{"generate", "-o", "x.gen.go", "--host", "App"}, wantSub: "use --spec"},
		{name: "unknown flag", args: []string{"generate", "--bogus"}, wantSub: "unknown flag: --bogus"},
		{name: "stray argument", args: []string{"version", "extra"}, wantSub: "unexpected arguments: [extra]"},
		{name: "unknown command", args: []string{"frobnicate"}, wantSub: "unknown command"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tc.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, "autoprovide: ")
			assert.Contains(t, stderr, tc.wantSub)
		})
	}
}

func TestRun_GenerateFromFlags(t *testing.T) {
	t.Parallel()

	dir := newHostPackage(t)
	out := filepath.Join(dir, "app_provider.gen.go")

	code, _, stderr := runCLI(t, "generate",
		"--host", "App", "--capability", "Component", "--constructor",
		"-o", out, "--log-format", "json")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stderr, `"msg":"generated host binding"`)
	assert.Contains(t, stderr, `"host":"App"`)

	gen := readFileString(t, out)
	assert.Contains(t, gen, "// source: flags\n")
	assert.Contains(t, gen, "func NewApp(")
}

func TestRun_GenerateFromSpecFile(t *testing.T) {
	t.Parallel()

	dir := newHostPackage(t)
	specPath := writeTempFile(t, dir, "app.provide.json", string(minimalSpecJSON()))
	out := filepath.Join(dir, "app_provider.gen.go")

	code, _, stderr := runCLI(t, "gen", "-s", specPath, "-o", out, "--log-level", "error")
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stderr)

	gen := readFileString(t, out)
	assert.Contains(t, gen, "// source: "+filepath.ToSlash(specPath)+"\n")
	assert.Contains(t, gen, "// sha256: "+sha256Hex(minimalSpecJSON())+"\n")
	assert.Contains(t, gen, "func NewApp(")
}

func TestRun_FlagsOverrideSpecFile(t *testing.T) {
	t.Parallel()

	dir := newHostPackage(t)
	specPath := writeTempFile(t, dir, "app.provide.yaml", string(minimalSpecYAML()))
	out := filepath.Join(dir, "app_provider.gen.go")

	code, _, stderr := runCLI(t, "generate", "-s", specPath, "-o", out, "--getter", "Resolve")
	require.Equal(t, 0, code, stderr)

	gen := readFileString(t, out)
	assert.Contains(t, gen, "func Resolve[U Component](h *App) U {")
	assert.Contains(t, gen, "// source: "+filepath.ToSlash(specPath)+"\n")
	assert.NotContains(t, gen, sha256Hex(minimalSpecYAML()), "hash follows the effective spec once flags changed it")
}

func TestRun_GenerationErrors(t *testing.T) {
	t.Parallel()

	dir := newHostPackage(t)
	out := filepath.Join(dir, "app_provider.gen.go")

	code, _, stderr := runCLI(t, "generate", "--host", "Server", "--capability", "Component", "-o", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "autoprovide: host type Server not found in package svc")

	badSpec := writeTempFile(t, dir, "app.provide.toml", "host = 'App'\n")
	code, _, stderr = runCLI(t, "generate", "-s", badSpec, "-o", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unsupported spec extension")

	code, _, stderr = runCLI(t, "version", "--config", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "read config")
}

func TestRun_FieldFromConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTempFile(t, dir, "app.go", registryHostSource)
	cfg := writeTempFile(t, t.TempDir(), "autoprovide.yaml", "field: registry\n")
	out := filepath.Join(dir, "app_provider.gen.go")

	code, _, stderr := runCLI(t, "generate", "--host", "App", "--capability", "Component", "-o", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `has no field "provider"`)

	code, _, stderr = runCLI(t, "generate", "-c", cfg, "--host", "App", "--capability", "Component", "-o", out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, readFileString(t, out), "return h.registry")
}

func TestRun_FieldFromEnvironment(t *testing.T) {
	t.Setenv("AUTOPROVIDE_FIELD", "registry")

	dir := t.TempDir()
	writeTempFile(t, dir, "app.go", registryHostSource)
	out := filepath.Join(dir, "app_provider.gen.go")

	code, _, stderr := runCLI(t, "generate", "--host", "App", "--capability", "Component", "-o", out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, readFileString(t, out), "return h.registry")

	// An explicit flag still wins over the environment.
	code, _, stderr = runCLI(t, "generate", "--host", "App", "--capability", "Component", "--field", "provider", "-o", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `has no field "provider"`)
}

func TestNewLogger_LevelsAndFormats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	logger = newLogger("bogus", "text", &buf)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.False(t, logger.Enabled(t.Context(), slog.LevelDebug))
	logger.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")

	for _, lvl := range []string{"debug", "info", "error"} {
		assert.NotNil(t, newLogger(lvl, "text", &buf))
	}
}
