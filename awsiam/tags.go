package awsiam

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/bundlekit/bundlekit/tagging"
	"github.com/bundlekit/bundlekit/version"
)

func tagsFor(name string) []types.Tag {
	return []types.Tag{
		{Key: aws.String(tagging.Manager), Value: aws.String(tagging.Bundlekit)},
		{Key: aws.String(tagging.Name), Value: aws.String(name)},
		{Key: aws.String(tagging.BundlekitVersion), Value: aws.String(version.Version)},
	}
}
