// Package awslambda wraps the Lambda API for deploying containerized
// bundles as functions.
package awslambda

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/tagging"
	"github.com/bundlekit/bundlekit/version"
)

type Function = types.FunctionConfiguration

// EnsureFunction creates or updates a function backed by a container image
// in ECR. Updates are applied in two steps, code then configuration, with a
// wait in between because Lambda refuses concurrent updates.
func EnsureFunction(
	ctx context.Context,
	cfg *awscfg.Config,
	name, roleArn, imageURI string,
	environment map[string]string,
	memoryMB, timeoutSeconds int,
) (*Function, error) {
	client := cfg.Lambda()

	out, err := client.CreateFunction(ctx, &lambda.CreateFunctionInput{
		Code: &types.FunctionCode{
			ImageUri: aws.String(imageURI),
		},
		Environment: &types.Environment{
			Variables: environment,
		},
		FunctionName: aws.String(name),
		MemorySize:   aws.Int32(int32(memoryMB)),
		PackageType:  types.PackageTypeImage,
		Role:         aws.String(roleArn),
		Tags: map[string]string{
			tagging.Manager:          tagging.Bundlekit,
			tagging.Name:             name,
			tagging.BundlekitVersion: version.Version,
		},
		Timeout: aws.Int32(int32(timeoutSeconds)),
	})
	if awsutil.ErrorCodeIs(err, "ResourceConflictException") {

		if _, err := client.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
			FunctionName: aws.String(name),
			ImageUri:     aws.String(imageURI),
		}); err != nil {
			return nil, err
		}
		if err := waitUntilSettled(ctx, cfg, name); err != nil {
			return nil, err
		}

		if _, err := client.UpdateFunctionConfiguration(ctx, &lambda.UpdateFunctionConfigurationInput{
			Environment: &types.Environment{
				Variables: environment,
			},
			FunctionName: aws.String(name),
			MemorySize:   aws.Int32(int32(memoryMB)),
			Role:         aws.String(roleArn),
			Timeout:      aws.Int32(int32(timeoutSeconds)),
		}); err != nil {
			return nil, err
		}
		if err := waitUntilSettled(ctx, cfg, name); err != nil {
			return nil, err
		}

		return GetFunction(ctx, cfg, name)
	} else if err != nil {
		return nil, err
	}

	if err := waitUntilSettled(ctx, cfg, name); err != nil {
		return nil, err
	}
	return &Function{
		FunctionArn:  out.FunctionArn,
		FunctionName: out.FunctionName,
		Role:         out.Role,
		State:        out.State,
	}, nil
}

// EnsureFunctionURL gives the function a public HTTPS endpoint and returns
// its URL.
func EnsureFunctionURL(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
) (string, error) {
	client := cfg.Lambda()
	out, err := client.CreateFunctionUrlConfig(ctx, &lambda.CreateFunctionUrlConfigInput{
		AuthType:     types.FunctionUrlAuthTypeNone,
		FunctionName: aws.String(name),
	})
	if awsutil.ErrorCodeIs(err, "ResourceConflictException") {
		get, err := client.GetFunctionUrlConfig(ctx, &lambda.GetFunctionUrlConfigInput{
			FunctionName: aws.String(name),
		})
		if err != nil {
			return "", err
		}
		return aws.ToString(get.FunctionUrl), nil
	} else if err != nil {
		return "", err
	}

	// AuthType NONE still requires an explicit allow for unauthenticated
	// invocation.
	if _, err := client.AddPermission(ctx, &lambda.AddPermissionInput{
		Action:              aws.String("lambda:InvokeFunctionUrl"),
		FunctionName:        aws.String(name),
		FunctionUrlAuthType: types.FunctionUrlAuthTypeNone,
		Principal:           aws.String("*"),
		StatementId:         aws.String("public-function-url"),
	}); err != nil && !awsutil.ErrorCodeIs(err, "ResourceConflictException") {
		return "", err
	}

	return aws.ToString(out.FunctionUrl), nil
}

func DeleteFunction(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
) error {
	_, err := cfg.Lambda().DeleteFunction(ctx, &lambda.DeleteFunctionInput{
		FunctionName: aws.String(name),
	})
	if awsutil.ErrorCodeIs(err, "ResourceNotFoundException") {
		return nil
	}
	return err
}

func GetFunction(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
) (*Function, error) {
	out, err := cfg.Lambda().GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		return nil, err
	}
	return out.Configuration, nil
}

func waitUntilSettled(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
) error {
	attempts := 0
	for range awsutil.JitteredExponentialBackoff(time.Second, 10*time.Second) {
		f, err := GetFunction(ctx, cfg, name)
		if err != nil {
			return err
		}
		if f.State != types.StatePending &&
			f.LastUpdateStatus != types.LastUpdateStatusInProgress {
			return nil
		}
		if attempts++; attempts > 60 {
			break
		}
	}
	return fmt.Errorf("function %s took too long to settle", name)
}
