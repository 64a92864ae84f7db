package ui

import (
	"os"
	"strings"
)

// PromptFile wraps Prompt in ReadFile and os.WriteFile to avoid prompting
// at all on subsequent invocations.  If pathname exists, its contents
// (chomped) will be taken as the response to the prompt.  If not, the response
// to the prompt is written to pathname with a trailing newline and a notice is
// printed instructing the user to commit that file to version control.
func PromptFile(pathname string, args ...interface{}) (string, error) {
	b, err := os.ReadFile(pathname)
	s := strings.Trim(string(b), "\r\n")
	if err != nil {
		if len(args) == 0 {
			return s, nil
		}
		s, err = Prompt(args...)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(pathname, []byte(s+"\n"), 0666); err != nil {
			return "", err
		}
		Printf("%q written to %s, which you should commit to version control", s, pathname)
	}
	return s, nil
}
