package scaffold

import (
	"context"
	"flag"
	"io"
	"strings"

	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/bundle"
	"github.com/bundlekit/bundlekit/cmdutil"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/version"
)

func Main(ctx context.Context, cfg *awscfg.Config, w io.Writer) {
	name := flag.String("name", "", "bundle name (required; a letter followed by letters, numbers, and underscores)")
	bundleVersion := flag.String("bundle-version", "", "bundle version (defaults to a generated timestamp version)")
	dirname := flag.String("dirname", "", "directory to scaffold the bundle in (defaults to the bundle name)")
	baseImage := flag.String("base-image", bundle.DefaultBaseImage, "base container image for the bundle's Dockerfile")
	port := flag.Int("port", 8080, "port the bundled service listens on")
	apis := cmdutil.StringSlice("api", "API to scaffold, as \"name=/route\" (may be repeated)")
	labels := cmdutil.StringSlice("label", "label to attach to the bundle, as \"key=value\" (may be repeated)")
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit scaffold -name <name> [-bundle-version <version>] [-dirname <dirname>] [-base-image <image>] [-port <port>] [-api <name=/route>[...]] [-label <key=value>[...]] [-quiet]")
		flag.PrintDefaults()
	}
	flag.Parse()
	version.Flag()
	if *quiet {
		ui.Quiet()
	}
	if *name == "" {
		ui.Fatal("-name is required")
	}
	if *dirname == "" {
		*dirname = *name
	}

	m := &bundle.Manifest{
		Name:    *name,
		Version: *bundleVersion,
		Labels:  map[string]string{},
		Env: bundle.Env{
			BaseImage: *baseImage,
			Port:      *port,
		},
	}
	for _, label := range labels.Slice() {
		key, value, ok := strings.Cut(label, "=")
		if !ok {
			ui.Fatalf("-label %q must take the form key=value", label)
		}
		m.Labels[key] = value
	}
	for _, api := range apis.Slice() {
		name, route, ok := strings.Cut(api, "=")
		if !ok {
			route = "/" + name
		}
		m.APIs = append(m.APIs, bundle.API{
			Name:    name,
			Route:   route,
			Methods: []string{"POST"},
		})
	}

	ui.Spinf("scaffolding %s in %s", *name, *dirname)
	if err := bundle.Scaffold(m, *dirname); err != nil {
		ui.Fatal(err)
	}
	ui.Stopf("scaffolded %s", m.Tag())
	ui.Printf("edit %s/app.py, then run `bundlekit containerize -dirname %s`", *dirname, *dirname)
}
