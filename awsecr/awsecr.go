// Package awsecr wraps the ECR API for pushing containerized bundles.
package awsecr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/tagging"
	"github.com/bundlekit/bundlekit/version"
)

type Repository = types.Repository

// Auth is a decoded ECR authorization token, good for about 12 hours.
type Auth struct {
	Username, Password, ProxyEndpoint string
}

// Registry returns the docker-style hostname for the account's private
// registry in the configured region.
func Registry(ctx context.Context, cfg *awscfg.Config) (string, error) {
	accountNumber, err := cfg.AccountNumber(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", accountNumber, cfg.Region()), nil
}

func EnsureRepository(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
) (*Repository, error) {
	client := cfg.ECR()
	out, err := client.CreateRepository(ctx, &ecr.CreateRepositoryInput{
		ImageScanningConfiguration: &types.ImageScanningConfiguration{
			ScanOnPush: true,
		},
		RepositoryName: aws.String(name),
		Tags: []types.Tag{
			{Key: aws.String(tagging.Manager), Value: aws.String(tagging.Bundlekit)},
			{Key: aws.String(tagging.BundlekitVersion), Value: aws.String(version.Version)},
		},
	})
	if awsutil.ErrorCodeIs(err, "RepositoryAlreadyExistsException") {
		describe, err := client.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
			RepositoryNames: []string{name},
		})
		if err != nil {
			return nil, err
		}
		return &describe.Repositories[0], nil
	} else if err != nil {
		return nil, err
	}
	return out.Repository, nil
}

// AuthorizationToken fetches and decodes docker credentials for the
// account's private registry.
func AuthorizationToken(ctx context.Context, cfg *awscfg.Config) (*Auth, error) {
	out, err := cfg.ECR().GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return nil, err
	}
	if len(out.AuthorizationData) == 0 {
		return nil, fmt.Errorf("no ECR authorization data")
	}
	data := out.AuthorizationData[0]
	decoded, err := base64.StdEncoding.DecodeString(aws.ToString(data.AuthorizationToken))
	if err != nil {
		return nil, err
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return nil, fmt.Errorf("malformed ECR authorization token")
	}
	return &Auth{
		Username:      username,
		Password:      password,
		ProxyEndpoint: aws.ToString(data.ProxyEndpoint),
	}, nil
}
