package version

import (
	"flag"
	"fmt"
	"os"
)

func Flag() {
	if !flag.Parsed() {
		panic("version.Flag must be called after flag.Parse")
	}
	if *versionFlag {
		Print()
		os.Exit(0)
	}
}

func Print() {
	fmt.Fprintf( // ui.Printf would be a dependency cycle
		os.Stderr,
		"Bundlekit version %s-%s\n",
		Version,
		Commit,
	)
}

var (
	Commit  = "0000000" // replaced via -ldflags with the short Git commit
	Version = "1970.01" // replaced via -ldflags with the release version
)

var versionFlag = flag.Bool("version", false, "print Bundlekit version information and exit")
