package awsec2

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/bundlekit/bundlekit/awscfg"
)

const (
	ARM = "arm64"
	X86 = "x86_64"
)

type Image = types.Image

func DescribeImages(
	ctx context.Context,
	cfg *awscfg.Config,
	filters []types.Filter,
) ([]Image, error) {
	var images []Image
	paginator := ec2.NewDescribeImagesPaginator(cfg.EC2(), &ec2.DescribeImagesInput{
		Filters: filters,
		Owners:  []string{"amazon"},
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		images = append(images, out.Images...)
	}
	return images, nil
}

// LatestAmazonLinuxAMI finds the most recently created Amazon Linux 2023 AMI
// for the given architecture.
func LatestAmazonLinuxAMI(
	ctx context.Context,
	cfg *awscfg.Config,
	arch string,
) (*Image, error) {
	images, err := DescribeImages(ctx, cfg, []types.Filter{
		{
			Name:   aws.String("architecture"),
			Values: []string{arch},
		},
		{
			Name:   aws.String("name"),
			Values: []string{"al2023-ami-2023.*"},
		},
		{
			Name:   aws.String("state"),
			Values: []string{"available"},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no Amazon Linux AMI found for %s", arch)
	}
	sort.Slice(images, func(i, j int) bool {
		return aws.ToString(images[i].CreationDate) > aws.ToString(images[j].CreationDate)
	})
	return &images[0], nil
}
