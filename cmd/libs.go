package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slncross/slncross/internal/msg"
	"github.com/slncross/slncross/internal/translate"
)

var (
	flagLibsAll        bool
	flagLibsDefaults   bool
	flagLibsCategories bool
)

func doLibs(cmd *cobra.Command, args []string) {
	switch {
	case flagLibsAll:
		printAllMappings()
	case flagLibsDefaults:
		for _, lib := range translate.DefaultLibraries() {
			fmt.Println(lib)
		}
	case flagLibsCategories:
		printCategories()
	case len(args) > 0:
		printLookups(args)
	default:
		msg.Fatal("nothing to do: pass library names or one of --all, --defaults, --categories")
	}
}

func printLookups(names []string) {
	tables := translate.DefaultTables()
	for _, name := range names {
		key := translate.NormalizeLibrary(name)
		mapped, known := tables.Libraries[key]
		switch {
		case !known:
			fmt.Printf("%-20s no mapping, dropped from link lines\n", name)
		case mapped == "":
			fmt.Printf("%-20s unavailable under MinGW\n", name)
		default:
			fmt.Printf("%-20s -l%s\n", name, mapped)
		}
	}
}

func printAllMappings() {
	mappings := translate.AllMappings()
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := mappings[k]
		if v == "" {
			v = "(unavailable)"
		}
		fmt.Printf("%-20s %s\n", k, v)
	}
}

func printCategories() {
	categories := translate.Categories()
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Printf("%s: %s\n", name, strings.Join(categories[name], ", "))
	}
}

var libsCmd = &cobra.Command{
	Use:   "libs [library name...]",
	Short: "Query the MSVC to MinGW library mapping",
	Long: `Query the MSVC to MinGW library mapping. Names are matched without
regard to case, path, or .lib suffix, so Ws2_32.lib and ws2_32 agree.`,
	Run: doLibs,
}

func init() {
	rootCmd.AddCommand(libsCmd)
	libsCmd.Flags().BoolVar(&flagLibsAll, "all", false, "Print every known mapping")
	libsCmd.Flags().BoolVar(&flagLibsDefaults, "defaults", false, "Print the default system library set")
	libsCmd.Flags().BoolVar(&flagLibsCategories, "categories", false, "Print libraries grouped by subsystem")
}
