package list

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/cmdutil"
	"github.com/bundlekit/bundlekit/registry"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/version"
	"gopkg.in/yaml.v3"
)

func Main(ctx context.Context, cfg *awscfg.Config, w io.Writer) {
	name := flag.String("name", "", "only list versions of this bundle")
	labels := cmdutil.StringSlice("label", "only list bundles with this \"key=value\" label (may be repeated)")
	offset := flag.Int("offset", 0, "skip this many bundles")
	limit := flag.Int("limit", 0, "list at most this many bundles")
	ascending := flag.Bool("ascending", false, "list oldest bundles first")
	remote := flag.Bool("remote", false, "list the remote repository instead of the local one")
	format := cmdutil.SerializationFormatFlag(cmdutil.SerializationFormatText)
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit list [-name <name>] [-label <key=value>[...]] [-offset <offset>] [-limit <limit>] [-ascending] [-remote] [-format <format>] [-quiet]")
		flag.PrintDefaults()
	}
	flag.Parse()
	version.Flag()
	if *quiet {
		ui.Quiet()
	}

	q := registry.Query{
		Name:      *name,
		Offset:    *offset,
		Limit:     *limit,
		Ascending: *ascending,
	}
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

	var store registry.Store
	if *remote {
		store = ui.Must2(registry.NewRemoteStore(ctx, cfg))
	} else {
		store = ui.Must2(registry.NewLocalStore(""))
	}
	records := ui.Must2(store.List(ctx, q))

	switch format.String() {
	case cmdutil.SerializationFormatJSON:
		ui.PrettyPrintJSON(w, records)
	case cmdutil.SerializationFormatYAML:
		buf := ui.Must2(yaml.Marshal(records))
		fmt.Fprintf(w, "%s", buf)
	case cmdutil.SerializationFormatText:
		cells := ui.MakeTableCells(5, len(records)+1)
		cells[0][0] = "NAME"
		cells[0][1] = "VERSION"
		cells[0][2] = "AGE"
		cells[0][3] = "STATUS"
		cells[0][4] = "LABELS"
		for i, r := range records {
			cells[i+1][0] = r.Name
			cells[i+1][1] = r.Version
			cells[i+1][2] = age(r.CreatedAt)
			cells[i+1][3] = r.UploadStatus
			cells[i+1][4] = formatLabels(r.Labels)
		}
		ui.Ftable(w, cells)
	default:
		ui.Fatal(cmdutil.SerializationFormatError(format.String()))
	}
}

func age(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d >= 48*time.Hour:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}

func formatLabels(labels map[string]string) string {
	pairs := make([]string, 0, len(labels))
	for key, value := range labels {
		pairs = append(pairs, fmt.Sprintf("%s:%s", key, value))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}
