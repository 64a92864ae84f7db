package randutil

import (
	"crypto/rand"
	"encoding/base32"
	"io"
	"strings"

	"github.com/bundlekit/bundlekit/ui"
)

// Suffix returns a short string suitable for tacking onto the end of a
// timestamp to make a unique, sortable bundle version.
func Suffix() string {
	b := make([]byte, 4)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		ui.Fatal(err)
	}
	return strings.ToUpper(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b))
}
