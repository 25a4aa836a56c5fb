package translate

// Static translation data: origin-toolchain vocabulary mapped onto the MinGW
// target. All tables are read-only process-wide constants; Tables carries
// per-run copies so config overrides never mutate them.

// switchTable maps MSVC compiler switches to their GCC equivalents. An empty
// value means the switch is a no-op on the target (GCC default behavior).
// A multi-flag value is space-separated and split on emission.
var switchTable = map[string]string{
	"/W0": "-w",
	"/W1": "-Wall",
	"/W2": "-Wall",
	"/W3": "-Wall",
	"/W4": "-Wall -Wextra",
	"/WX": "-Werror",

	"/Od": "-O0",
	"/O1": "-O1",
	"/O2": "-O2",
	"/Ox": "-O3",

	"/GS-": "", // MinGW has no stack protector by default
	"/GS":  "-fstack-protector",
	"/Gy":  "-ffunction-sections",
	"/GL":  "-flto",

	"/MT":  "-static",
	"/MTd": "-static",
	"/MD":  "", // dynamic CRT is the default
	"/MDd": "",

	"/EHsc": "-fexceptions",
	"/EHa":  "-fexceptions",

	"/Zi": "-g",
	"/ZI": "-g",

	"/RTC1": "", // no runtime-check equivalent

	"/fp:fast":    "-ffast-math",
	"/fp:precise": "",
	"/fp:strict":  "-frounding-math",

	"/Gd": "", // __cdecl is the default
	"/Gr": "-mrtd",
	"/Gz": "-mstackrealign",

	"/permissive-": "-fpermissive",

	"/std:c++14":     "-std=c++14",
	"/std:c++17":     "-std=c++17",
	"/std:c++20":     "-std=c++20",
	"/std:c++latest": "-std=c++20",

	"/Zc:wchar_t":  "",
	"/Zc:forScope": "",
	"/Zc:inline":   "",
}

// compatFlags is the fixed tail of cross-compilation switches appended after
// every translated option set. They compensate for behavioral differences no
// single origin flag maps onto.
var compatFlags = []string{
	"-Wno-deprecated-declarations",
	"-Wno-write-strings",
	"-municode",
	"-fno-strict-aliasing",
	"-fms-extensions",
	"-Wno-expansion-to-defined",
}

// cxxOnlyFlags never apply to the single-byte C source family when a project
// mixes both families.
var cxxOnlyFlags = map[string]bool{
	"-fexceptions": true,
	"-fpermissive": true,
}

// denyDefinitions are origin-toolchain-internal preprocessor tokens removed
// before emission: they either break the target toolchain or mean nothing
// there.
var denyDefinitions = map[string]bool{
	"_MBCS":                     true,
	"_AFXDLL":                   true,
	"_ATL_DLL":                  true,
	"VC_EXTRALEAN":              true,
	"_CRT_SECURE_NO_WARNINGS":   true,
	"_SCL_SECURE_NO_WARNINGS":   true,
	"_CRT_NONSTDC_NO_DEPRECATE": true,
	"_CRT_SECURE_NO_DEPRECATE":  true,
}

// essentialDefinitions are guaranteed present in every translated record.
var essentialDefinitions = []string{"WIN32", "_WINDOWS", "UNICODE", "_UNICODE", "SECURITY_WIN32"}

// libraryTable maps normalized (lower-case, suffix-stripped) Windows library
// names to their MinGW counterparts. An empty value marks a library with no
// target equivalent; names missing from the table entirely are likewise
// dropped from output.
var libraryTable = map[string]string{
	// core
	"kernel32": "kernel32",
	"user32":   "user32",
	"gdi32":    "gdi32",
	"ntdll":    "ntdll",

	// networking
	"ws2_32":   "ws2_32",
	"wsock32":  "wsock32",
	"iphlpapi": "iphlpapi",
	"winhttp":  "winhttp",
	"wininet":  "wininet",
	"mswsock":  "mswsock",
	"dnsapi":   "dnsapi",
	"fwpuclnt": "fwpuclnt",
	"rasapi32": "rasapi32",

	// security and crypto
	"secur32":  "secur32",
	"crypt32":  "crypt32",
	"bcrypt":   "bcrypt",
	"ncrypt":   "ncrypt",
	"advapi32": "advapi32",
	"wintrust": "wintrust",
	"cryptui":  "cryptui",
	"cryptnet": "cryptnet",
	"schannel": "schannel",
	"sspicli":  "sspicli",

	// shell and UI
	"shell32":  "shell32",
	"shlwapi":  "shlwapi",
	"comctl32": "comctl32",
	"comdlg32": "comdlg32",
	"uxtheme":  "uxtheme",
	"dwmapi":   "dwmapi",

	// COM / OLE
	"ole32":    "ole32",
	"oleaut32": "oleaut32",
	"uuid":     "uuid",
	"combase":  "combase",
	"propsys":  "propsys",

	// RPC
	"rpcrt4": "rpcrt4",
	"rpcns4": "rpcns4",

	// system services
	"psapi":    "psapi",
	"dbghelp":  "dbghelp",
	"version":  "version",
	"wtsapi32": "wtsapi32",
	"userenv":  "userenv",
	"powrprof": "powrprof",
	"setupapi": "setupapi",
	"cfgmgr32": "cfgmgr32",
	"newdev":   "newdev",

	// I/O and storage
	"mpr":      "mpr",
	"netapi32": "netapi32",
	"winspool": "winspool",
	"imm32":    "imm32",

	// graphics and multimedia
	"opengl32": "opengl32",
	"glu32":    "glu32",
	"winmm":    "winmm",
	"msimg32":  "msimg32",

	// ODBC
	"odbc32":   "odbc32",
	"odbccp32": "odbccp32",

	// debug and diagnostics
	"imagehlp": "imagehlp",
	"dbgeng":   "dbgeng",
	"wevtapi":  "wevtapi",
	"virtdisk": "virtdisk",
	"wbemuuid": "wbemuuid",
	"taskschd": "taskschd",
	"wmi":      "wmi",

	// Active Directory
	"activeds": "activeds",
	"adsiid":   "adsiid",

	"cabinet": "cabinet",

	// service control, kernel-mode: unavailable
	"svcctl":   "",
	"ntoskrnl": "",

	// runtime libraries
	"msvcrt":    "msvcrt",
	"msvcrtd":   "msvcrt",
	"ucrt":      "ucrt",
	"ucrtd":     "ucrt",
	"vcruntime": "", // handled by the MinGW runtime
	"libcmt":    "", // static CRT selected via -static instead
	"libcmtd":   "",

	// DirectX (limited support)
	"d3d9":        "d3d9",
	"d3d11":       "d3d11",
	"d3d12":       "d3d12",
	"dxgi":        "dxgi",
	"dxguid":      "dxguid",
	"d3dcompiler": "d3dcompiler_47",
	"dinput8":     "dinput8",
	"dsound":      "dsound",
	"dwrite":      "dwrite",
	"d2d1":        "d2d1",

	"synchronization": "synchronization",

	// UWP surface: mostly unavailable
	"windowsapp":       "",
	"runtimeobject":    "runtimeobject",
	"windows.data.pdf": "",

	"normaliz":            "normaliz",
	"sensorsapi":          "sensorsapi",
	"portabledeviceguids": "portabledeviceguids",
	"credui":              "credui",
	"hid":                 "hid",
	"bthprops":            "bthprops",
	"bluetoothapis":       "bluetoothapis",
	"urlmon":              "urlmon",
	"htmlhelp":            "htmlhelp",

	// Media Foundation (partial support)
	"mf":          "mf",
	"mfplat":      "mfplat",
	"mfuuid":      "mfuuid",
	"mfreadwrite": "mfreadwrite",

	"bits":    "bits",
	"comsvcs": "comsvcs",
	"httpapi": "httpapi",
	"authz":   "authz",
	"pdh":     "pdh",

	// ATL/MFC: not available in MinGW
	"atl":   "",
	"atlsd": "",
	"mfc":   "",

	"pthread":    "pthread",
	"pthreadgc2": "pthread",
}

// baselineLibraries are unioned into every translated library list: the
// origin format commonly omits libraries its own toolchain links implicitly.
var baselineLibraries = []string{
	"kernel32", "user32", "gdi32", "winspool", "comdlg32",
	"advapi32", "shell32", "ole32", "oleaut32", "uuid",
	"odbc32", "odbccp32", "ws2_32", "crypt32", "secur32",
	"rpcrt4", "ntdll", "shlwapi", "version", "psapi",
}

// defaultLibraries is the commonly-needed set surfaced by `slncross libs
// --defaults`.
var defaultLibraries = []string{
	"kernel32", "user32", "gdi32", "advapi32",
	"shell32", "ole32", "oleaut32", "uuid",
	"ws2_32", "crypt32", "secur32", "rpcrt4",
	"ntdll", "shlwapi", "version", "psapi",
	"comdlg32", "comctl32",
}

// libraryCategories groups libraries for documentation output.
var libraryCategories = map[string][]string{
	"core":       {"kernel32", "user32", "gdi32", "ntdll"},
	"networking": {"ws2_32", "wsock32", "iphlpapi", "winhttp", "wininet", "mswsock", "dnsapi"},
	"security":   {"secur32", "crypt32", "bcrypt", "ncrypt", "advapi32", "wintrust"},
	"shell":      {"shell32", "shlwapi", "comctl32", "comdlg32"},
	"com":        {"ole32", "oleaut32", "uuid", "rpcrt4"},
	"system":     {"psapi", "dbghelp", "version", "wtsapi32", "userenv", "setupapi"},
	"graphics":   {"opengl32", "glu32", "winmm", "d3d9", "d3d11", "dxgi"},
	"io":         {"mpr", "netapi32", "winspool"},
}
