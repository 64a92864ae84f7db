package awsec2

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/tagging"
	"github.com/bundlekit/bundlekit/version"
	"github.com/google/uuid"
)

type Instance = types.Instance

func DescribeInstance(
	ctx context.Context,
	cfg *awscfg.Config,
	instanceId string,
) (*Instance, error) {
	out, err := cfg.EC2().DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceId},
	})
	if err != nil {
		return nil, err
	}
	for _, reservation := range out.Reservations {
		for _, instance := range reservation.Instances {
			if aws.ToString(instance.InstanceId) == instanceId {
				return &instance, nil
			}
		}
	}
	return nil, fmt.Errorf("instance %s not found", instanceId)
}

// DescribeInstancesByName finds instances carrying the given Name tag which
// are not already terminated or on their way there.
func DescribeInstancesByName(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
) ([]Instance, error) {
	out, err := cfg.EC2().DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String(fmt.Sprintf("tag:%s", tagging.Name)),
				Values: []string{name},
			},
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"pending", "running", "stopping", "stopped"},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	var instances []Instance
	for _, reservation := range out.Reservations {
		instances = append(instances, reservation.Instances...)
	}
	return instances, nil
}

func RunInstance(
	ctx context.Context,
	cfg *awscfg.Config,
	name, iamInstanceProfile string,
	imageId string,
	instanceType types.InstanceType,
	securityGroupId string,
	rootVolumeSize int,
	userData string, // plain text; it's base64-encoded on the way out
	tags tagging.Map,
) (*Instance, error) {
	defaults := tagging.Map{
		tagging.Manager: tagging.Bundlekit,
		tagging.Name:    name,
	}
	in := &ec2.RunInstancesInput{
		BlockDeviceMappings: []types.BlockDeviceMapping{{
			DeviceName: aws.String("/dev/xvda"),
			Ebs: &types.EbsBlockDevice{
				DeleteOnTermination: aws.Bool(true),
				VolumeSize:          aws.Int32(int32(rootVolumeSize)),
				VolumeType:          types.VolumeTypeGp3,
			},
		}},
		ClientToken: aws.String(uuid.NewString()), // so SDK retries don't double-provision
		IamInstanceProfile: &types.IamInstanceProfileSpecification{
			Name: aws.String(iamInstanceProfile),
		},
		ImageId:          aws.String(imageId),
		InstanceType:     instanceType,
		MaxCount:         aws.Int32(1),
		MinCount:         aws.Int32(1),
		SecurityGroupIds: []string{securityGroupId},
		TagSpecifications: []types.TagSpecification{
			{
				ResourceType: types.ResourceTypeInstance,
				Tags: tagStructs(tagging.Merge(
					defaults,
					tagging.Map{tagging.BundlekitVersion: version.Version},
					tags,
				)),
			},
			{
				ResourceType: types.ResourceTypeVolume,
				Tags:         tagStructs(defaults),
			},
		},
	}
	if userData != "" {
		in.UserData = aws.String(base64.StdEncoding.EncodeToString([]byte(userData)))
	}
	out, err := cfg.EC2().RunInstances(ctx, in)
	if err != nil {
		return nil, err
	}
	return &out.Instances[0], nil
}

func TerminateInstance(
	ctx context.Context,
	cfg *awscfg.Config,
	instanceId string,
) error {
	_, err := cfg.EC2().TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceId},
	})
	return err
}

func WaitUntilRunning(
	ctx context.Context,
	cfg *awscfg.Config,
	instanceId string,
) (instance *Instance, err error) {
	attempts := 0
	for range awsutil.JitteredExponentialBackoff(time.Second, 10*time.Second) {
		if instance, err = DescribeInstance(ctx, cfg, instanceId); err != nil {
			return
		}
		switch instance.State.Name {
		case types.InstanceStateNameRunning:
			return
		case types.InstanceStateNamePending:
		default:
			return nil, fmt.Errorf(
				"instance %s unexpectedly %s",
				instanceId,
				instance.State.Name,
			)
		}
		if attempts++; attempts > 60 {
			break
		}
	}
	return nil, fmt.Errorf("instance %s took too long to start", instanceId)
}
