package info

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/bundle"
	"github.com/bundlekit/bundlekit/cmdutil"
	"github.com/bundlekit/bundlekit/registry"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/version"
	"gopkg.in/yaml.v3"
)

func Main(ctx context.Context, cfg *awscfg.Config, w io.Writer) {
	dirname := flag.String("dirname", "", "bundle directory to describe")
	tag := flag.String("tag", "", "NAME:VERSION of a bundle in the local repository to describe")
	format := cmdutil.SerializationFormatFlag(cmdutil.SerializationFormatText)
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit info {-dirname <dirname>|-tag <name:version>} [-format <format>] [-quiet]")
		flag.PrintDefaults()
	}
	flag.Parse()
	version.Flag()
	if *quiet {
		ui.Quiet()
	}
	if (*dirname == "") == (*tag == "") {
		ui.Fatal("exactly one of -dirname or -tag is required")
	}

	if *tag != "" {
		parsed := ui.Must2(bundle.ParseTag(*tag))
		store := ui.Must2(registry.NewLocalStore(""))
		r := ui.Must2(store.Get(ctx, parsed))

		scratch := ui.Must2(os.MkdirTemp("", "bundlekit-*"))
		defer os.RemoveAll(scratch)
		*dirname = filepath.Join(scratch, "content")
		ui.Must(store.Download(ctx, r.Tag(), *dirname))
	}
	b := ui.Must2(bundle.LoadFromDir(*dirname))
	m := b.Manifest

	switch format.String() {
	case cmdutil.SerializationFormatJSON:
		ui.PrettyPrintJSON(w, m)
	case cmdutil.SerializationFormatYAML:
		buf := ui.Must2(yaml.Marshal(m))
		fmt.Fprintf(w, "%s", buf)
	case cmdutil.SerializationFormatText:
		fmt.Fprintf(w, "Bundle: %s\n", m.Tag())
		fmt.Fprintf(w, "Created: %s\n", m.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(w, "Base image: %s\n", m.Env.BaseImage)
		fmt.Fprintf(w, "Port: %d\n", m.Env.Port)
		if len(m.Labels) > 0 {
			pairs := make([]string, 0, len(m.Labels))
			for key, value := range m.Labels {
				pairs = append(pairs, fmt.Sprintf("%s:%s", key, value))
			}
			fmt.Fprintf(w, "Labels: %s\n", strings.Join(pairs, ", "))
		}
		if len(m.APIs) > 0 {
			cells := ui.MakeTableCells(4, len(m.APIs)+1)
			cells[0][0] = "API"
			cells[0][1] = "ROUTE"
			cells[0][2] = "METHODS"
			cells[0][3] = "DOC"
			for i, api := range m.APIs {
				cells[i+1][0] = api.Name
				cells[i+1][1] = api.Route
				cells[i+1][2] = strings.Join(api.Methods, ",")
				cells[i+1][3] = api.Doc
			}
			ui.Ftable(w, cells)
		}
	default:
		ui.Fatal(cmdutil.SerializationFormatError(format.String()))
	}
}
