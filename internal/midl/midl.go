// Package midl generates MIDL-compatible C headers from IDL sources by
// regex substitution, so RPC projects can cross-compile without the MIDL
// compiler. It is a standalone text tool, not coupled to project resolution.
package midl

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

type typedefDecl struct {
	StructName  string
	Body        string
	TypedefName string
}

type funcDecl struct {
	ReturnType string
	Name       string
	Params     string
}

// Interface is the parsed shape of one IDL file.
type Interface struct {
	Name     string
	UUID     string
	Version  string
	Typedefs []typedefDecl
	Funcs    []funcDecl
}

var (
	uuidRe    = regexp.MustCompile(`uuid\s*\(\s*([0-9a-fA-F-]+)\s*\)`)
	versionRe = regexp.MustCompile(`version\s*\(\s*(\d+\.\d+)\s*\)`)
	ifaceRe   = regexp.MustCompile(`interface\s+(\w+)`)
	typedefRe = regexp.MustCompile(`(?s)typedef\s+struct\s+(\w+)\s*\{([^}]+)\}\s*(\w+)\s*;`)
	funcRe    = regexp.MustCompile(`(?ms)^\s*(long|void|int|short|HRESULT)\s+(\w+)\s*\(([^;]*)\)\s*;(\s*//.*)?`)

	attrRe     = regexp.MustCompile(`\[\s*(unique|string|ref|in|out|context_handle|size_is\([^)]*\)|length_is\([^)]*\))\s*\]\s*`)
	wsRe       = regexp.MustCompile(`\s+`)
	hyperRe    = regexp.MustCompile(`\bhyper\b`)
	handleRe   = regexp.MustCompile(`\bhandle_t\b`)
	wcharPtrRe = regexp.MustCompile(`\bwchar_t\s*\*`)
)

// ParseFile parses an IDL file from disk.
func ParseFile(path string) (*Interface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Parse extracts the interface declaration, typedef structs, and function
// prototypes from IDL text.
func Parse(content string) *Interface {
	iface := &Interface{Version: "1.0"}

	if m := uuidRe.FindStringSubmatch(content); m != nil {
		iface.UUID = m[1]
	}
	if m := versionRe.FindStringSubmatch(content); m != nil {
		iface.Version = m[1]
	}
	if m := ifaceRe.FindStringSubmatch(content); m != nil {
		iface.Name = m[1]
	}

	for _, m := range typedefRe.FindAllStringSubmatch(content, -1) {
		iface.Typedefs = append(iface.Typedefs, typedefDecl{
			StructName:  m[1],
			Body:        convertTypes(attrRe.ReplaceAllString(m[2], "")),
			TypedefName: m[3],
		})
	}

	for _, m := range funcRe.FindAllStringSubmatch(content, -1) {
		params := cleanParams(m[3])
		// functions annotated "Not used" still exist in the stub files but
		// only ever take a binding handle
		if strings.Contains(strings.ToLower(m[4]), "not used") {
			params = "RPC_BINDING_HANDLE IDL_handle"
		}
		iface.Funcs = append(iface.Funcs, funcDecl{
			ReturnType: m[1],
			Name:       m[2],
			Params:     params,
		})
	}

	return iface
}

func cleanParams(params string) string {
	params = attrRe.ReplaceAllString(params, "")
	params = convertTypes(params)
	return strings.TrimSpace(wsRe.ReplaceAllString(params, " "))
}

func convertTypes(text string) string {
	text = hyperRe.ReplaceAllString(text, "__int64")
	text = handleRe.ReplaceAllString(text, "RPC_BINDING_HANDLE")
	text = wcharPtrRe.ReplaceAllString(text, "wchar_t*")
	return text
}

// GenerateHeader renders the header file the MIDL compiler would have
// produced for this interface. stem is the IDL file name without extension.
func GenerateHeader(iface *Interface, stem string) string {
	var sb strings.Builder
	line := func(s ...string) {
		for _, part := range s {
			sb.WriteString(part)
		}
		sb.WriteByte('\n')
	}

	guard := "__" + strings.ToUpper(stem) + "_H__"
	line("/* MIDL header - auto-generated by slncross from ", stem, ".idl */")
	line("#ifndef ", guard)
	line("#define ", guard)
	line()
	line("#ifndef __REQUIRED_RPCNDR_H_VERSION__")
	line("#define __REQUIRED_RPCNDR_H_VERSION__ 475")
	line("#endif")
	line()
	line("#include <rpc.h>")
	line("#include <rpcndr.h>")
	line()
	line("#ifndef COM_NO_WINDOWS_H")
	line("#include <windows.h>")
	line("#include <ole2.h>")
	line("#endif")
	line()
	line("#ifdef __cplusplus")
	line(`extern "C" {`)
	line("#endif")
	line()

	if iface.Name != "" {
		version := strings.ReplaceAll(iface.Version, ".", "_")
		line("/* Interface: ", iface.Name, " */")
		if iface.UUID != "" {
			line("/* UUID: ", iface.UUID, " */")
		}
		line()
		line("extern RPC_IF_HANDLE ", iface.Name, "_v", version, "_c_ifspec;")
		line("extern RPC_IF_HANDLE ", iface.Name, "_v", version, "_s_ifspec;")
		line()
	}

	if len(iface.Typedefs) > 0 {
		line("/* Type definitions */")
		for _, td := range iface.Typedefs {
			line("typedef struct ", td.StructName)
			line("{")
			line(td.Body)
			line("} ", td.TypedefName, ";")
			line()
		}
	}

	if len(iface.Funcs) > 0 {
		line("/* Function prototypes */")
		for _, fn := range iface.Funcs {
			if fn.Params != "" {
				line(fn.ReturnType, " ", fn.Name, "(", fn.Params, ");")
			} else {
				line(fn.ReturnType, " ", fn.Name, "(void);")
			}
		}
		line()
	}

	line("#ifdef __cplusplus")
	line("}")
	line("#endif")
	line()
	line("#endif /* ", guard, " */")

	return sb.String()
}

// HeaderPathFor returns the conventional output path for an IDL file's
// generated header, e.g. foo.idl -> foo_h.h.
func HeaderPathFor(idlPath string) string {
	stem := strings.TrimSuffix(filepath.Base(idlPath), filepath.Ext(idlPath))
	return filepath.Join(filepath.Dir(idlPath), stem+"_h.h")
}
