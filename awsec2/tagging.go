package awsec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/tagging"
)

type Tag = types.Tag

func CreateTags(
	ctx context.Context,
	cfg *awscfg.Config,
	resourceIds []string,
	tags tagging.Map,
) error {
	_, err := cfg.EC2().CreateTags(ctx, &ec2.CreateTagsInput{
		Resources: resourceIds,
		Tags:      tagStructs(tags),
	})
	return err
}

func tagStructs(tags tagging.Map) []types.Tag {
	structs := make([]types.Tag, 0, len(tags))
	for key, value := range tags {
		structs = append(structs, types.Tag{
			Key:   aws.String(key),
			Value: aws.String(value),
		})
	}
	return structs
}
