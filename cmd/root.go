// slncross [solution], slncross convert [solution]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slncross/slncross/internal/config"
	"github.com/slncross/slncross/internal/convert"
	"github.com/slncross/slncross/internal/fetch"
	"github.com/slncross/slncross/internal/msg"
	"github.com/slncross/slncross/internal/sln"
)

var (
	flagConfig   string
	flagPlatform string
	flagOnly     string
	flagJobs     int
	flagEmit     EnumValue = NewEnumValue("cmake", map[string]string{
		"cmake": "CMakeLists.txt files for MinGW toolchains (default)",
		"json":  "Machine-readable target descriptions",
	})
)

func options() convert.Options {
	return convert.Options{
		Config:   flagConfig,
		Platform: flagPlatform,
		Emit:     flagEmit.Value(),
		Only:     flagOnly,
		Jobs:     flagJobs,
	}
}

// loadConfig reads the overrides file from dir and applies its patches.
func loadConfig(dir string) *config.Config {
	cfg, err := config.Load(filepath.Join(dir, config.Filename), config.Env{
		Config:   flagConfig,
		Platform: flagPlatform,
	})
	if err != nil {
		msg.Fatal("%v", err)
	}
	if err := cfg.ApplyPatches(dir); err != nil {
		msg.Fatal("%v", err)
	}
	return cfg
}

// locateSolution turns a source argument (directory, .sln path, or remote
// repository spec) into a local .sln path.
func locateSolution(source string) string {
	if fetch.IsRemote(source) {
		tmp, err := os.MkdirTemp("", "slncross-")
		if err != nil {
			msg.Fatal("%v", err)
		}
		msg.Info("fetching %s", source)
		if _, err := fetch.Source(source, tmp); err != nil {
			msg.Fatal("%v", err)
		}
		source = tmp
	}

	info, err := os.Stat(source)
	if err != nil {
		msg.Fatal("%v", err)
	}
	if !info.IsDir() {
		if !strings.HasSuffix(source, ".sln") {
			msg.Fatal("%s is not a solution file", source)
		}
		return source
	}

	path, err := sln.Discover(source)
	if err != nil {
		msg.Fatal("%v", err)
	}
	return path
}

func doConvert(cmd *cobra.Command, args []string) {
	source := "."
	if len(args) > 0 {
		source = args[0]
	}

	s, err := sln.Parse(locateSolution(source))
	if err != nil {
		msg.Fatal("%v", err)
	}

	opts := options()
	results, err := convert.Solution(s, opts, loadConfig(s.Dir))
	if err != nil {
		msg.Fatal("%v", err)
	}

	failed, err := convert.WriteSolution(s, results, opts)
	if err != nil {
		msg.Fatal("%v", err)
	}
	if len(failed) > 0 {
		msg.Fatal("%d of %d projects failed: %s", len(failed), len(results), strings.Join(failed, ", "))
	}
	msg.Info("converted %d projects for %s|%s", len(results), flagConfig, flagPlatform)
}

var rootCmd = &cobra.Command{
	Use:   "slncross [solution path]",
	Short: "Translate Visual Studio solutions into MinGW build descriptions",
	Long: `Translate Visual Studio solutions into MinGW build descriptions.
The source may be a directory, a .sln file, or a remote repository spec
such as gh:user/repo.`,
	Args: cobra.MaximumNArgs(1),
	Run:  doConvert,
}

var convertCmd = &cobra.Command{
	Use:   "convert [solution path]",
	Short: "Convert every C++ project of a solution",
	Long:  `Convert every C++ project of a solution. If no path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doConvert,
}

func init() {
	addConvertFlags(rootCmd)

	// slncross convert subcommand
	rootCmd.AddCommand(convertCmd)
	addConvertFlags(convertCmd)
}

func addConvertFlags(cmd *cobra.Command) {
	addKeyFlags(cmd)
	cmd.Flags().StringVar(&flagOnly, "only", "", `Convert only projects matching an expression, e.g. 'name startsWith "core"'`)
	cmd.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "Number of projects to resolve in parallel (0 = all CPUs)")
	cmd.Flags().VarP(&flagEmit, "emit", "e", "Output format, one of "+flagEmit.HelpString())
	cmd.RegisterFlagCompletionFunc("emit", flagEmit.CompletionFunc())
}

func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagConfig, "config-name", "c", "Release", "Build configuration to resolve")
	cmd.Flags().StringVarP(&flagPlatform, "platform", "p", "x64", "Target platform to resolve")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
