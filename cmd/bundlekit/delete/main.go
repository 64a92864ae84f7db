package delete

import (
	"context"
	"flag"
	"io"
	"strings"

	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/bundle"
	"github.com/bundlekit/bundlekit/cmdutil"
	"github.com/bundlekit/bundlekit/registry"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/version"
)

func Main(ctx context.Context, cfg *awscfg.Config, w io.Writer) {
	tag := flag.String("tag", "", "NAME:VERSION of a single bundle to delete")
	name := flag.String("name", "", "delete every version of this bundle")
	labels := cmdutil.StringSlice("label", "delete bundles with this \"key=value\" label (may be repeated)")
	prune := flag.Bool("prune", false, "delete every bundle in the repository")
	remote := flag.Bool("remote", false, "delete from the remote repository instead of the local one")
	force := flag.Bool("force", false, "delete without asking for confirmation")
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit delete {-tag <name:version>|-name <name>|-label <key=value>[...]|-prune} [-remote] [-force] [-quiet]")
		flag.PrintDefaults()
	}
	flag.Parse()
	version.Flag()
	if *quiet {
		ui.Quiet()
	}

	selectors := 0
	for _, selected := range []bool{*tag != "", *name != "", labels.Len() > 0, *prune} {
		if selected {
			selectors++
		}
	}
	if selectors != 1 {
		ui.Fatal("exactly one of -tag, -name, -label, or -prune is required")
	}

	var store registry.Store
	if *remote {
		store = ui.Must2(registry.NewRemoteStore(ctx, cfg))
	} else {
		store = ui.Must2(registry.NewLocalStore(""))
	}

	confirm := func(r *registry.Record) (bool, error) {
		if *force {
			return true, nil
		}
		return ui.Confirmf("permanently delete %s? (yes/no)", r.Tag())
	}

	if *tag != "" {
		parsed := ui.Must2(bundle.ParseTag(*tag))
		r := ui.Must2(store.Get(ctx, parsed))
		if ok := ui.Must2(confirm(r)); !ok {
			return
		}
		ui.Must(store.Delete(ctx, r.Tag()))
		ui.Printf("deleted %s", r.Tag())
		return
	}

	q := registry.Query{Name: *name}
	if labels.Len() > 0 {
		q.LabelSelector = map[string]string{}
		for _, label := range labels.Slice() {
			key, value, ok := strings.Cut(label, "=")
			if !ok {
				ui.Fatalf("-label %q must take the form key=value", label)
			}
			q.LabelSelector[key] = value
		}
	}
	deleted := ui.Must2(registry.DeleteMany(ctx, store, q, confirm))
	ui.Printf("deleted %d bundles", deleted)
}
