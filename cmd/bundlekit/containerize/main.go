package containerize

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsecr"
	"github.com/bundlekit/bundlekit/bundle"
	"github.com/bundlekit/bundlekit/cmdutil"
	"github.com/bundlekit/bundlekit/dockerutil"
	"github.com/bundlekit/bundlekit/registry"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/version"
)

func Main(ctx context.Context, cfg *awscfg.Config, w io.Writer) {
	dirname := flag.String("dirname", "", "bundle directory to containerize")
	tag := flag.String("tag", "", "NAME:VERSION of a bundle in the local repository to containerize")
	imageTag := flag.String("t", "", "image tag to build (defaults to the bundle's name:version, lower-cased)")
	buildArgs := cmdutil.StringSlice("build-arg", "docker build argument, as \"key=value\" (may be repeated)")
	push := flag.Bool("push", false, "push the built image to the account's ECR registry")
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit containerize {-dirname <dirname>|-tag <name:version>} [-t <image:tag>] [-build-arg <key=value>[...]] [-push] [-quiet]")
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
	if *imageTag == "" {
		*imageTag = dockerutil.DefaultImageTag(b.Tag())
	}
	args := ui.Must2(dockerutil.ParseBuildArgs(buildArgs.Slice()))

	client := ui.Must2(dockerutil.New())
	defer client.Close()

	ui.Spinf("building %s from %s", *imageTag, *dirname)
	ui.Must(client.BuildImage(ctx, *dirname, *imageTag, args, w))
	ui.Stopf("built %s", *imageTag)

	if *push {
		repository, _, _ := strings.Cut(*imageTag, ":")
		ui.Must2(awsecr.EnsureRepository(ctx, cfg, repository))
		auth := ui.Must2(awsecr.AuthorizationToken(ctx, cfg))
		registryHost := ui.Must2(awsecr.Registry(ctx, cfg))

		remoteTag := fmt.Sprintf("%s/%s", registryHost, *imageTag)
		ui.Must(client.TagImage(ctx, *imageTag, remoteTag))
		ui.Spinf("pushing %s", remoteTag)
		ui.Must(client.PushImage(ctx, remoteTag, auth.Username, auth.Password, w))
		ui.Stopf("pushed %s", remoteTag)
	}
}
