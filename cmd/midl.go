package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slncross/slncross/internal/midl"
	"github.com/slncross/slncross/internal/msg"
	"github.com/slncross/slncross/internal/vcxproj"
)

var flagMidlStdout bool

func doMidl(cmd *cobra.Command, args []string) {
	for _, path := range args {
		if strings.HasSuffix(path, ".vcxproj") {
			proj, err := vcxproj.Parse(path)
			if err != nil {
				msg.Fatal("%v", err)
			}
			idls := proj.IdlFiles()
			if len(idls) == 0 {
				msg.Warn("%s lists no IDL files", path)
				continue
			}
			for _, rel := range idls {
				emitHeader(filepath.Join(proj.Dir, filepath.FromSlash(rel)))
			}
			continue
		}
		emitHeader(path)
	}
}

func emitHeader(idlPath string) {
	iface, err := midl.ParseFile(idlPath)
	if err != nil {
		msg.Fatal("%v", err)
	}

	stem := strings.TrimSuffix(filepath.Base(idlPath), filepath.Ext(idlPath))
	header := midl.GenerateHeader(iface, stem)

	if flagMidlStdout {
		fmt.Print(header)
		return
	}
	outPath := midl.HeaderPathFor(idlPath)
	if err := os.WriteFile(outPath, []byte(header), 0644); err != nil {
		msg.Fatal("%v", err)
	}
	msg.Info("wrote %s", outPath)
}

var midlCmd = &cobra.Command{
	Use:   "midl <file.idl|file.vcxproj...>",
	Short: "Generate RPC headers from IDL files",
	Long: `Generate RPC headers from IDL files, standing in for the MIDL
compiler on hosts that lack it. foo.idl produces foo_h.h next to it.
A .vcxproj argument expands to the IDL files the project declares.`,
	Args: cobra.MinimumNArgs(1),
	Run:  doMidl,
}

func init() {
	rootCmd.AddCommand(midlCmd)
	midlCmd.Flags().BoolVar(&flagMidlStdout, "stdout", false, "Print headers instead of writing files")
}
