package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/slncross/slncross/internal/convert"
	"github.com/slncross/slncross/internal/msg"
)

var (
	flagName string
	flagOut  string
)

func doProject(cmd *cobra.Command, args []string) {
	path := args[0]
	opts := options()
	opts.Name = flagName

	text, warnings, err := convert.Project(path, opts, loadConfig(filepath.Dir(path)))
	if err != nil {
		msg.Fatal("%v", err)
	}
	for _, w := range warnings {
		msg.Warn("%s", w)
	}

	if flagOut == "" {
		fmt.Print(text)
		return
	}
	if err := os.WriteFile(flagOut, []byte(text), 0644); err != nil {
		msg.Fatal("%v", err)
	}
	msg.Info("wrote %s", flagOut)
}

var projectCmd = &cobra.Command{
	Use:   "project <file.vcxproj>",
	Short: "Convert a single project file",
	Long: `Convert a single project file and print the result. With --name, a
missing project file degrades to a glob-based target instead of an error.`,
	Args: cobra.ExactArgs(1),
	Run:  doProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	addKeyFlags(projectCmd)
	projectCmd.Flags().StringVarP(&flagName, "name", "n", "", "Target name override")
	projectCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write to a file instead of stdout")
	projectCmd.Flags().VarP(&flagEmit, "emit", "e", "Output format, one of "+flagEmit.HelpString())
	projectCmd.RegisterFlagCompletionFunc("emit", flagEmit.CompletionFunc())
}
