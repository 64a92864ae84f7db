// Package awsssm wraps AWS Systems Manager for running shell scripts on
// provisioned hosts without opening inbound ports.
package awsssm

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsutil"
)

const runShellScriptDocument = "AWS-RunShellScript"

type CommandInvocation = ssm.GetCommandInvocationOutput

// AgentOnline reports whether the SSM Agent on the given instance has
// registered and is responding to pings.
func AgentOnline(
	ctx context.Context,
	cfg *awscfg.Config,
	instanceId string,
) (bool, error) {
	out, err := cfg.SSM().DescribeInstanceInformation(ctx, &ssm.DescribeInstanceInformationInput{
		Filters: []types.InstanceInformationStringFilter{{
			Key:    aws.String("InstanceIds"),
			Values: []string{instanceId},
		}},
	})
	if err != nil {
		return false, err
	}
	for _, info := range out.InstanceInformationList {
		if info.PingStatus == types.PingStatusOnline {
			return true, nil
		}
	}
	return false, nil
}

// WaitUntilAgentOnline blocks until the SSM Agent registers, which on a
// freshly provisioned host happens a minute or two after the instance
// reaches the running state.
func WaitUntilAgentOnline(
	ctx context.Context,
	cfg *awscfg.Config,
	instanceId string,
) error {
	attempts := 0
	for range awsutil.JitteredExponentialBackoff(2*time.Second, 15*time.Second) {
		online, err := AgentOnline(ctx, cfg, instanceId)
		if err != nil {
			return err
		}
		if online {
			return nil
		}
		if attempts++; attempts > 60 {
			break
		}
	}
	return fmt.Errorf("SSM Agent on %s took too long to come online", instanceId)
}

// RunShellScript sends the given commands to the instance and returns the
// command ID for use with WaitForCommand. A non-empty logGroup mirrors the
// command's output to CloudWatch Logs.
func RunShellScript(
	ctx context.Context,
	cfg *awscfg.Config,
	instanceId, comment, logGroup string,
	commands []string,
) (string, error) {
	in := &ssm.SendCommandInput{
		Comment:      aws.String(comment),
		DocumentName: aws.String(runShellScriptDocument),
		InstanceIds:  []string{instanceId},
		Parameters: map[string][]string{
			"commands": commands,
		},
	}
	if logGroup != "" {
		in.CloudWatchOutputConfig = &types.CloudWatchOutputConfig{
			CloudWatchLogGroupName:  aws.String(logGroup),
			CloudWatchOutputEnabled: true,
		}
	}
	out, err := cfg.SSM().SendCommand(ctx, in)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.Command.CommandId), nil
}

// WaitForCommand polls the command invocation until it leaves the pending
// and in-progress states. A non-success terminal status is an error that
// includes the command's standard error.
func WaitForCommand(
	ctx context.Context,
	cfg *awscfg.Config,
	commandId, instanceId string,
) (*CommandInvocation, error) {
	attempts := 0
	for range awsutil.JitteredExponentialBackoff(2*time.Second, 15*time.Second) {
		out, err := cfg.SSM().GetCommandInvocation(ctx, &ssm.GetCommandInvocationInput{
			CommandId:  aws.String(commandId),
			InstanceId: aws.String(instanceId),
		})

		// InvocationDoesNotExist is expected for a beat after SendCommand.
		if awsutil.ErrorCodeIs(err, "InvocationDoesNotExist") {
			continue
		} else if err != nil {
			return nil, err
		}

		switch out.Status {
		case types.CommandInvocationStatusPending, types.CommandInvocationStatusInProgress, types.CommandInvocationStatusDelayed:
		case types.CommandInvocationStatusSuccess:
			return out, nil
		default:
			return out, fmt.Errorf(
				"command %s %s: %s",
				commandId,
				out.Status,
				aws.ToString(out.StandardErrorContent),
			)
		}
		if attempts++; attempts > 120 {
			break
		}
	}
	return nil, fmt.Errorf("command %s took too long to finish", commandId)
}
