package awsec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/bundlekit/bundlekit/awscfg"
)

type VPC = types.Vpc

// DefaultVPC finds the region's default VPC, which is where provisioned
// hosts land unless told otherwise.
func DefaultVPC(ctx context.Context, cfg *awscfg.Config) (*VPC, error) {
	out, err := cfg.EC2().DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: []types.Filter{{
			Name:   aws.String("is-default"),
			Values: []string{"true"},
		}},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Vpcs) == 0 {
		return nil, fmt.Errorf("no default VPC in %s", cfg.Region())
	}
	return &out.Vpcs[0], nil
}
