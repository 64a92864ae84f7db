// Package awscloudwatch wraps CloudWatch Logs for following the output of
// deployed bundles.
package awscloudwatch

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/tagging"
	"github.com/bundlekit/bundlekit/version"
)

type Event = types.FilteredLogEvent

func EnsureLogGroup(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
	retentionInDays int,
) error {
	client := cfg.CloudWatchLogs()
	_, err := client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(name),
		Tags: map[string]string{
			tagging.Manager:          tagging.Bundlekit,
			tagging.BundlekitVersion: version.Version,
		},
	})
	if err != nil && !awsutil.ErrorCodeIs(err, "ResourceAlreadyExistsException") {
		return err
	}
	_, err = client.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    aws.String(name),
		RetentionInDays: aws.Int32(int32(retentionInDays)),
	})
	return err
}

func DeleteLogGroup(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
) error {
	_, err := cfg.CloudWatchLogs().DeleteLogGroup(ctx, &cloudwatchlogs.DeleteLogGroupInput{
		LogGroupName: aws.String(name),
	})
	if awsutil.ErrorCodeIs(err, "ResourceNotFoundException") {
		return nil
	}
	return err
}

// Events returns every event in the log group since the given time, oldest
// first, following pagination to the end.
func Events(
	ctx context.Context,
	cfg *awscfg.Config,
	group string,
	since time.Time,
) ([]Event, error) {
	var events []Event
	paginator := cloudwatchlogs.NewFilterLogEventsPaginator(
		cfg.CloudWatchLogs(),
		&cloudwatchlogs.FilterLogEventsInput{
			LogGroupName: aws.String(group),
			StartTime:    aws.Int64(since.UnixMilli()),
		},
	)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		events = append(events, out.Events...)
	}
	return events, nil
}

// Tail calls f with each event since the given time and keeps polling for
// more until its context is canceled.
func Tail(
	ctx context.Context,
	cfg *awscfg.Config,
	group string,
	since time.Time,
	f func(Event),
) error {
	seen := make(map[string]int64) // event id -> timestamp in milliseconds
	for {
		events, err := Events(ctx, cfg, group, since)
		if err != nil {
			return err
		}
		for _, event := range events {
			id := aws.ToString(event.EventId)
			if _, ok := seen[id]; ok {
				continue
			}
			ts := aws.ToInt64(event.Timestamp)
			seen[id] = ts
			f(event)
			if t := time.UnixMilli(ts); t.After(since) {
				since = t
			}
		}
		pruneSeen(seen, since.UnixMilli())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

// pruneSeen drops dedup entries that have fallen behind the polling window.
// StartTime is inclusive, so events stamped exactly at the cutoff can come
// back and must stay.
func pruneSeen(seen map[string]int64, cutoff int64) {
	for id, ts := range seen {
		if ts < cutoff {
			delete(seen, id)
		}
	}
}
