package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slncross/slncross/internal/convert"
	"github.com/slncross/slncross/internal/msg"
	"github.com/slncross/slncross/internal/sln"
	"github.com/slncross/slncross/internal/vcxproj"
)

var flagDllsFirst bool

// kindRanks schedules libraries ahead of executables when dependency edges
// leave the choice open.
var kindRanks = map[string]int{
	"DynamicLibrary": 0,
	"StaticLibrary":  1,
	"Application":    2,
}

func doOrder(cmd *cobra.Command, args []string) {
	source := "."
	if len(args) > 0 {
		source = args[0]
	}

	s, err := sln.Parse(locateSolution(source))
	if err != nil {
		msg.Fatal("%v", err)
	}

	only, err := convert.ProjectFilter(flagOnly)
	if err != nil {
		msg.Fatal("%v", err)
	}
	filter := func(p *sln.Project) bool {
		return p.Type == sln.TypeCpp && strings.HasSuffix(p.Path, ".vcxproj") && only(p)
	}

	kinds := projectKinds(s, filter)
	var rank func(*sln.Project) int
	if flagDllsFirst {
		rank = func(p *sln.Project) int {
			r, ok := kindRanks[kinds[p.GUID]]
			if !ok {
				return 1
			}
			return r
		}
	}

	order, cyclic := s.BuildOrderBy(filter, rank)
	if len(cyclic) > 0 {
		names := make([]string, len(cyclic))
		for i, p := range cyclic {
			names[i] = p.Name
		}
		msg.Warn("dependency cycle between %s; appending them in declaration order", strings.Join(names, ", "))
	}

	for i, p := range order {
		kind := kinds[p.GUID]
		if kind == "" {
			kind = "?"
		}
		fmt.Printf("%2d. %-30s %-15s %s\n", i+1, p.Name, kind, p.Path)
	}
}

// projectKinds resolves the configuration type of every accepted project.
// Projects whose files cannot be parsed stay unranked; the order command
// still lists them.
func projectKinds(s *sln.Solution, filter func(*sln.Project) bool) map[string]string {
	key := vcxproj.NewKey(flagConfig, flagPlatform)
	kinds := make(map[string]string)
	for _, p := range s.Projects() {
		if !filter(p) {
			continue
		}
		proj, err := vcxproj.Parse(p.AbsPath)
		if err != nil {
			continue
		}
		rs := proj.Resolve(key, vcxproj.MacroEnv{})
		kinds[p.GUID] = rs.ConfigurationType
	}
	return kinds
}

var orderCmd = &cobra.Command{
	Use:   "order [solution path]",
	Short: "Print the dependency-ordered build sequence",
	Args:  cobra.MaximumNArgs(1),
	Run:   doOrder,
}

func init() {
	rootCmd.AddCommand(orderCmd)
	addKeyFlags(orderCmd)
	orderCmd.Flags().StringVar(&flagOnly, "only", "", "Restrict to projects matching an expression")
	orderCmd.Flags().BoolVar(&flagDllsFirst, "dlls-first", false, "Schedule library projects before executables where possible")
}
