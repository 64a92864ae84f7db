package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/cmdutil"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/version"
)

//go:generate go run ../../tools/dispatch-map/main.go -package main

func main() {

	// If we were invoked directly, expect to find a subcommand in the first
	// position. Reconfigure the arguments to make it look like we were invoked
	// via a symbolic link so as to unify dispatch and simplify argument
	// parsing after dispatch.
	executable, err := os.Executable()
	if err != nil {
		ui.Fatal(err)
	}
	if filepath.Base(os.Args[0]) == filepath.Base(executable) {
		if len(os.Args) < 2 {
			usage(1)
		}

		// Respond to `bundlekit -h` and `bundlekit -version` but not
		// `bundlekit * -h`, which is handled by each subcommand's Main.
		switch os.Args[1] {
		case "-h", "-help", "--help":
			usage(0)
		case "-version", "--version":
			version.Print()
			os.Exit(0)
		}

		os.Args = append([]string{fmt.Sprintf("bundlekit-%s", os.Args[1])}, os.Args[2:]...)
	}

	f, ok := dispatchMap[strings.TrimPrefix(os.Args[0], "bundlekit-")]
	if !ok {
		ui.Fatalf("%s not found", os.Args[0])
	}

	cmdutil.Chdir() // so prompt-response files are found from anywhere

	ctx := context.Background()
	f(awscfg.Main(ctx))

}

func usage(status int) {
	var commands []string
	for subcommand := range dispatchMap {
		commands = append(commands, subcommand)
	}
	sort.Strings(commands)

	ui.Print("Bundlekit packages services into versioned bundles and ships them to AWS")
	ui.Print("the following commands are available:")
	for _, command := range commands {
		ui.Printf("\tbundlekit %s", command)
	}

	os.Exit(status)
}
