package logs

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awscloudwatch"
	"github.com/bundlekit/bundlekit/naming"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/version"
)

func Main(ctx context.Context, cfg *awscfg.Config, w io.Writer) {
	name := flag.String("name", "", "deployment name to read logs for (required)")
	lambda := flag.Bool("lambda", false, "read the Lambda function's log group instead of the deployment's")
	since := flag.Duration("since", time.Hour, "how far back to begin reading logs")
	follow := flag.Bool("follow", false, "keep polling for new log events until interrupted")
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit logs -name <name> [-lambda] [-since <duration>] [-follow] [-quiet]")
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

	group := naming.LogGroup(*name)
	if *lambda {
		group = fmt.Sprintf("/aws/lambda/%s", *name)
	}
	start := time.Now().Add(-*since)
	print := func(event awscloudwatch.Event) {
		fmt.Fprintf(
			w,
			"%s %s\n",
			time.UnixMilli(aws.ToInt64(event.Timestamp)).Format(time.RFC3339),
			aws.ToString(event.Message),
		)
	}

	if *follow {
		ui.Must(awscloudwatch.Tail(ctx, cfg, group, start, print))
		return
	}
	events := ui.Must2(awscloudwatch.Events(ctx, cfg, group, start))
	for _, event := range events {
		print(event)
	}
}
