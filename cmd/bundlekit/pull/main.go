package pull

import (
	"context"
	"flag"
	"io"

	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/bundle"
	"github.com/bundlekit/bundlekit/registry"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/version"
)

func Main(ctx context.Context, cfg *awscfg.Config, w io.Writer) {
	tag := flag.String("tag", "", "NAME:VERSION of the bundle to pull (required; the version may be \"latest\")")
	dirname := flag.String("dirname", "", "also unpack the pulled bundle into this directory")
	noLabels := flag.Bool("no-labels", false, "don't carry the bundle's labels to the local repository")
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit pull -tag <name:version> [-dirname <dirname>] [-no-labels] [-quiet]")
		flag.PrintDefaults()
	}
	flag.Parse()
	version.Flag()
	if *quiet {
		ui.Quiet()
	}
	if *tag == "" {
		ui.Fatal("-tag is required")
	}
	parsed := ui.Must2(bundle.ParseTag(*tag))

	ui.Spinf("pulling %s", parsed)
	remote := ui.Must2(registry.NewRemoteStore(ctx, cfg))
	local := ui.Must2(registry.NewLocalStore(""))
	r, err := registry.Transfer(ctx, remote, local, parsed, !*noLabels)
	if err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	ui.Stopf("pulled %s", r.Tag())

	if *dirname != "" {
		ui.Must(local.Download(ctx, r.Tag(), *dirname))
		ui.Printf("unpacked %s into %s", r.Tag(), *dirname)
	}
}
