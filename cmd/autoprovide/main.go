package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// usageError marks invocation mistakes; run maps it to exit code 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

// run executes the CLI and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(stderr, "autoprovide:", err)

		var usage *usageError
		if errors.As(err, &usage) || strings.HasPrefix(err.Error(), "unknown command") {
			return 2
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// newRootCmd builds a fresh command tree with its own viper instance, so
// tests never share flag or config state.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "autoprovide",
		Short: "Generate provider bindings for host structs",
		Long: `autoprovide binds a host struct to a type-indexed provider.Container.
It checks the host and capability declarations, then writes a gofmt'd
*.gen.go file with the Provider/Manage methods and constrained getters.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"tool config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "log format: text or json")

	_ = v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(newGenerateCmd(v), newVersionCmd())
	return root
}

// initConfig layers defaults, an optional config file and AUTOPROVIDE_*
// environment variables. Changed flags win over all of them.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("field", defaultField)
	v.SetDefault("provider_import", defaultProviderImport)

	v.SetEnvPrefix("AUTOPROVIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}
	return nil
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &usageError{msg: fmt.Sprintf("unexpected arguments: %v", args)}
	}
	return nil
}

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	var (
		specPath string
		outPath  string
		check    bool
		fromFlag Spec
	)

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate the binding for one host struct",
		Example: `  autoprovide generate -s app.provide.yaml -o app_provider.gen.go
  autoprovide generate --host App --capability Component -o app_provider.gen.go`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(v.GetString("log.level"), v.GetString("log.format"), cmd.ErrOrStderr())

			req, err := buildRequest(cmd, v, specPath, outPath, fromFlag)
			if err != nil {
				return err
			}
			req.Check = check
			logger.Debug("generating host binding", "source", req.Source, "out", req.OutPath, "check", check)

			written, err := generate(req)
			if err != nil {
				return err
			}
			if check {
				logger.Info("host binding up to date", "out", written)
				return nil
			}
			logger.Info("generated host binding",
				"host", req.Spec.Host,
				"capability", req.Spec.Capability,
				"out", written,
			)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&specPath, "spec", "s", "", "path to a *.provide.json or *.provide.yaml spec")
	f.StringVarP(&outPath, "out", "o", "", "output .gen.go file path")
	f.BoolVar(&check, "check", false, "fail with a diff if the output file is stale; write nothing")
	f.StringVar(&fromFlag.Host, "host", "", "host struct name")
	f.StringVar(&fromFlag.Capability, "capability", "", "capability interface name")
	f.StringVar(&fromFlag.Field, "field", "", "container field on the host (default from config, else \"provider\")")
	f.StringVar(&fromFlag.Package, "package", "", "target package (default: inferred from the output directory)")
	f.StringVar(&fromFlag.GetterName, "getter", "", "name of the constrained getter (default <Host>Get)")
	f.BoolVar(&fromFlag.Constructor, "constructor", false, "also emit New<Host>()")
	f.StringVar(&fromFlag.Imports.Alias, "import-alias", "", "local name for the provider import")

	return cmd
}

// buildRequest merges the spec file (if any), changed flags and tool config.
func buildRequest(cmd *cobra.Command, v *viper.Viper, specPath, outPath string, fromFlag Spec) (request, error) {
	flags := cmd.Flags()

	if strings.TrimSpace(outPath) == "" {
		return request{}, &usageError{msg: "missing --out"}
	}
	if specPath == "" && (!flags.Changed("host") || !flags.Changed("capability")) {
		return request{}, &usageError{msg: "use --spec, or both --host and --capability"}
	}

	req := request{Source: "flags", OutPath: outPath}
	if specPath != "" {
		spec, raw, err := loadSpec(specPath)
		if err != nil {
			return request{}, err
		}
		req.Spec, req.Raw, req.Source = spec, raw, specPath
	}

	overlays := []struct {
		flag string
		dst  *string
		src  string
	}{
		{"host", &req.Spec.Host, fromFlag.Host},
		{"capability", &req.Spec.Capability, fromFlag.Capability},
		{"field", &req.Spec.Field, fromFlag.Field},
		{"package", &req.Spec.Package, fromFlag.Package},
		{"getter", &req.Spec.GetterName, fromFlag.GetterName},
		{"import-alias", &req.Spec.Imports.Alias, fromFlag.Imports.Alias},
	}
	for _, o := range overlays {
		if flags.Changed(o.flag) {
			*o.dst = o.src
			req.Raw = nil
		}
	}
	if flags.Changed("constructor") {
		req.Spec.Constructor = fromFlag.Constructor
		req.Raw = nil
	}

	applyDefaults(&req.Spec, v.GetString("field"), v.GetString("provider_import"))
	return req, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the autoprovide version",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "autoprovide", version)
			return err
		},
	}
}
