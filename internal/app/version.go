package app

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Build information, set with -ldflags "-X github.com/agbru/bigcalc/internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

// HasVersionFlag reports whether args ask for the version. It is checked
// before flag parsing so that --version works with otherwise invalid
// arguments.
func HasVersionFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "--version", "-version", "-V":
			return true
		case "--":
			return false
		}
	}
	return false
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	commit, date := Commit, BuildDate
	if commit == "" {
		commit, date = vcsInfo()
	}
	fmt.Fprintf(out, "bigcalc %s\n", Version)
	if commit != "" {
		fmt.Fprintf(out, "  commit:  %s\n", commit)
	}
	if date != "" {
		fmt.Fprintf(out, "  built:   %s\n", date)
	}
	fmt.Fprintf(out, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// vcsInfo reads the revision stamped by the go command, if any.
func vcsInfo() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	var rev, at string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return rev, at
}
