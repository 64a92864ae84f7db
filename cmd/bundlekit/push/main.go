package push

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
	tag := flag.String("tag", "", "NAME:VERSION of the bundle to push (required; the version may be \"latest\")")
	noLabels := flag.Bool("no-labels", false, "don't carry the bundle's labels to the remote repository")
	dirname := flag.String("dirname", "", "push this bundle directory instead of one from the local repository, registering it first")
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit push {-tag <name:version>|-dirname <dirname>} [-no-labels] [-quiet]")
		flag.PrintDefaults()
	}
	flag.Parse()
	version.Flag()
	if *quiet {
		ui.Quiet()
	}
	if (*tag == "") == (*dirname == "") {
		ui.Fatal("exactly one of -tag or -dirname is required")
	}

	local := ui.Must2(registry.NewLocalStore(""))

	// A bundle pushed straight from a directory is registered locally on
	// the way through so the local and remote repositories agree on it.
	if *dirname != "" {
		b := ui.Must2(bundle.LoadFromDir(*dirname))
		r := &registry.Record{
			Name:      b.Manifest.Name,
			Version:   b.Manifest.Version,
			CreatedAt: b.Manifest.CreatedAt,
			Labels:    b.Manifest.Labels,
		}
		ui.Must(local.Add(ctx, r))
		ui.Must(local.Upload(ctx, r.Tag(), *dirname))
		*tag = r.Tag().String()
	}
	parsed := ui.Must2(bundle.ParseTag(*tag))

	ui.Spinf("pushing %s", parsed)
	remote := ui.Must2(registry.NewRemoteStore(ctx, cfg))
	r, err := registry.Transfer(ctx, local, remote, parsed, !*noLabels)
	if err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	ui.Stopf("pushed %s to s3://%s", r.Tag(), remote.Bucket)
}
