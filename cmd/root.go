// Package cmd provides the root command and CLI setup for mutenv.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutenv/internal/bootstrap"
	"gooze.dev/pkg/mutenv/internal/expression"
	"gooze.dev/pkg/mutenv/internal/hooks"
	"gooze.dev/pkg/mutenv/internal/integration"
	"gooze.dev/pkg/mutenv/internal/matcher"
	m "gooze.dev/pkg/mutenv/internal/model"
	"gooze.dev/pkg/mutenv/internal/mutate"
	"gooze.dev/pkg/mutenv/internal/report"
	"gooze.dev/pkg/mutenv/internal/world"
)

var matchPatterns []string
var ignorePatterns []string
var startPatterns []string
var requireTargets []string
var loadPathEntries []string
var envOverrides []string
var showTimings bool

const pathsHelp = `Positional arguments are load path roots to scan for analyzable
code (default: current directory).`

const rootLongDescription = `Mutenv assembles the analysis environment a mutation testing engine
consumes: it prepares the runtime world, discovers and names live code
objects, matches them into subjects against your patterns, and wires up
the test framework integration.

` + pathsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutenv",
		Short: "Mutation analysis environment bootstrapper",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringArrayVarP(&matchPatterns, matchFlagName, "m", viper.GetStringSlice(matchConfigKey), "match subjects whose expression starts with this pattern (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(matchFlagName), matchConfigKey)

	cmd.PersistentFlags().
		StringArrayVarP(&ignorePatterns, ignoreFlagName, "x", viper.GetStringSlice(ignoreConfigKey), "ignore subjects whose expression starts with this pattern (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(ignoreFlagName), ignoreConfigKey)

	cmd.PersistentFlags().
		StringArrayVarP(&startPatterns, startFlagName, "s", viper.GetStringSlice(startConfigKey), "skip subjects until one matches this start expression (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(startFlagName), startConfigKey)

	cmd.PersistentFlags().
		StringArrayVarP(&requireTargets, requireFlagName, "r", viper.GetStringSlice(requireConfigKey), "package to require into the world before discovery (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(requireFlagName), requireConfigKey)

	cmd.PersistentFlags().
		StringArrayVarP(&loadPathEntries, loadPathFlagName, "p", viper.GetStringSlice(loadPathConfigKey), "directory appended to the world's load path during infection (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(loadPathFlagName), loadPathConfigKey)

	cmd.PersistentFlags().
		StringArrayVarP(&envOverrides, envFlagName, "e", nil, "environment override KEY=VALUE applied during infection (can be repeated)")

	cmd.PersistentFlags().BoolVar(&showTimings, timingsFlagName, false, "print the per-phase timing table")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// runPipeline builds and runs the bootstrap over the given load path
// roots. Swapped out by command tests.
var runPipeline = func(ctx context.Context, cmd *cobra.Command, args []string, dryRun bool) (bootstrap.Env, *bootstrap.Recorder, error) {
	b, err := buildBootstrap(cmd, args)
	if err != nil {
		return bootstrap.Env{}, nil, err
	}

	var env bootstrap.Env

	if dryRun {
		env, err = b.CallTest(ctx)
	} else {
		env, err = b.Call(ctx)
	}

	return env, b.Recorder(), err
}

// buildBootstrap assembles the pipeline config from viper state and the
// load path roots given as positional arguments.
func buildBootstrap(cmd *cobra.Command, args []string) (*bootstrap.Bootstrap, error) {
	spec, err := matcher.ParseSpec(viper.GetStringSlice(matchConfigKey), viper.GetStringSlice(ignoreConfigKey))
	if err != nil {
		return nil, err
	}

	start, err := parseStartExpressions(viper.GetStringSlice(startConfigKey))
	if err != nil {
		return nil, err
	}

	overrides, err := parseEnvOverrides(envOverrides)
	if err != nil {
		return nil, err
	}

	for key, value := range viper.GetStringMapString(worldEnvKey) {
		if _, set := overrides[key]; !set {
			overrides[key] = value
		}
	}

	setup := integration.NewGoTestSetup()
	setup.Timeout = time.Duration(viper.GetInt64(integrationTimeoutKey)) * time.Second

	styled := isatty.IsTerminal(os.Stderr.Fd())

	cfg := bootstrap.Config{
		Matcher:              matcher.New(spec, mutate.NewASTGenerator()),
		StartExpressions:     start,
		EnvironmentVariables: overrides,
		LoadPaths:            toPaths(viper.GetStringSlice(loadPathConfigKey)),
		Requires:             viper.GetStringSlice(requireConfigKey),
		Reporter:             report.NewCLIReporter(cmd.ErrOrStderr(), styled),
		Parse:                expression.Parse,
		Integration:          setup,
		Hooks:                hooks.LoadConfig(viper.GetViper()),
	}

	return bootstrap.New(cfg, world.NewLocalWorld(parsePaths(args)...)), nil
}

func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"."}
	}

	return toPaths(args)
}

func toPaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func parseStartExpressions(texts []string) ([]expression.Expression, error) {
	exprs := make([]expression.Expression, 0, len(texts))

	for _, text := range texts {
		expr, err := expression.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("start expression: %w", err)
		}

		exprs = append(exprs, expr)
	}

	return exprs, nil
}

func parseEnvOverrides(pairs []string) (map[string]string, error) {
	overrides := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("environment override %q is not KEY=VALUE", pair)
		}

		overrides[key] = value
	}

	return overrides, nil
}
