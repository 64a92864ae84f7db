package cmdutil

import (
	"os"
)

const bundlekitRoot = "BUNDLEKIT_ROOT"

// Chdir changes the working directory to the value of the BUNDLEKIT_ROOT
// environment variable, if set and non-empty, so that the files caching
// responses to prompts (bundlekit.prefix and friends) are found no matter
// where a command's invoked from.
func Chdir() (err error) {
	if dirname := os.Getenv(bundlekitRoot); dirname != "" {
		err = os.Chdir(dirname)
	}
	return
}
