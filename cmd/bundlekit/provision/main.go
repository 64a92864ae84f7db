package provision

import (
	"context"
	"flag"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsec2"
	"github.com/bundlekit/bundlekit/awsiam"
	"github.com/bundlekit/bundlekit/awsssm"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/bundle"
	"github.com/bundlekit/bundlekit/policies"
	"github.com/bundlekit/bundlekit/registry"
	"github.com/bundlekit/bundlekit/tagging"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/userdata"
	"github.com/bundlekit/bundlekit/version"
)

const roleName = "BundlekitHost"

func Main(ctx context.Context, cfg *awscfg.Config, w io.Writer) {
	name := flag.String("name", "bundlekit-host", "Name tag for the provisioned instance and its security group")
	instanceType := flag.String("instance-type", "t3.micro", "EC2 instance type to launch")
	port := flag.Int("port", 8080, "service port to open in the security group")
	volumeSize := flag.Int("volume-size", 30, "root volume size in GiB")
	tag := flag.String("bundle", "", "NAME:VERSION of a pushed bundle to fetch onto the host during boot")
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit provision [-name <name>] [-instance-type <type>] [-port <port>] [-volume-size <GiB>] [-bundle <name:version>] [-quiet]")
		flag.PrintDefaults()
	}
	flag.Parse()
	version.Flag()
	if *quiet {
		ui.Quiet()
	}

	// The IAM side of the guide: the ec2:* policy, a role EC2 can assume,
	// and an instance profile to carry it, plus the managed policies the
	// SSM Agent and ECR pulls need.
	ui.Spinf("configuring IAM for %s", roleName)
	policyArn, err := awsiam.EnsurePolicy(
		ctx,
		cfg,
		policies.InstanceOperationsName,
		policies.InstanceOperations,
	)
	if err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	if _, err := awsiam.EnsureRoleWithPolicy(
		ctx,
		cfg,
		roleName,
		policies.EC2TrustPolicy,
		policyArn,
		policies.AmazonSSMManagedInstanceCore,
		policies.AmazonEC2ContainerRegistryReadOnly,
		policies.CloudWatchAgentServerPolicy,
	); err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	ui.Stop("ok")

	config := userdata.Config{Port: *port}
	var tags tagging.Map
	if *tag != "" {
		parsed := ui.Must2(bundle.ParseTag(*tag))
		tags = tagging.Map{tagging.Bundle: parsed.String()}
		remote := ui.Must2(registry.NewRemoteStore(ctx, cfg))

		bucketPolicyArn := ui.Must2(awsiam.EnsurePolicy(
			ctx,
			cfg,
			policies.HostPolicyName,
			policies.BundleBucketAccess(remote.Bucket),
		))
		ui.Must(awsiam.AttachRolePolicy(ctx, cfg, roleName, bucketPolicyArn))

		config.BundleURL = ui.Must2(remote.ArchiveURL(ctx, parsed, time.Hour))
	}

	if _, err := awsiam.EnsureInstanceProfile(ctx, cfg, roleName); err != nil {
		ui.Fatal(err)
	}

	ui.Spinf("finding the default VPC and a fresh Amazon Linux AMI in %s", cfg.Region())
	vpc, err := awsec2.DefaultVPC(ctx, cfg)
	if err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	image, err := awsec2.LatestAmazonLinuxAMI(ctx, cfg, awsec2.X86)
	if err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	ui.Stopf("%s in %s", aws.ToString(image.ImageId), aws.ToString(vpc.VpcId))

	securityGroup := ui.Must2(awsec2.EnsureSecurityGroup(
		ctx,
		cfg,
		aws.ToString(vpc.VpcId),
		*name,
		[]int{22, 80, *port},
	))

	script := ui.Must2(userdata.Render(config))

	ui.Spinf("launching a %s instance", *instanceType)
	var instance *awsec2.Instance
	attempts := 0
	for range awsutil.JitteredExponentialBackoff(time.Second, 10*time.Second) {
		instance, err = awsec2.RunInstance(
			ctx,
			cfg,
			*name,
			roleName,
			aws.ToString(image.ImageId),
			ec2types.InstanceType(*instanceType),
			aws.ToString(securityGroup.GroupId),
			*volumeSize,
			script,
			tags,
		)

		// A freshly created instance profile takes a few seconds to become
		// visible to EC2.
		if awsutil.ErrorCodeIs(err, "InvalidParameterValue") {
			if attempts++; attempts < 10 {
				continue
			}
		}
		break
	}
	if err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	instanceId := aws.ToString(instance.InstanceId)
	ui.Stopf("launched %s", instanceId)

	ui.Spin("waiting for the instance to start")
	instance, err = awsec2.WaitUntilRunning(ctx, cfg, instanceId)
	if err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	ui.Stopf("running at %s", aws.ToString(instance.PublicDnsName))

	ui.Spin("waiting for the SSM Agent to register")
	if err := awsssm.WaitUntilAgentOnline(ctx, cfg, instanceId); err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	ui.Stop("online")

	ui.Printf("provisioned %s (%s)", instanceId, aws.ToString(instance.PublicDnsName))
	ui.Printf("run `bundlekit deploy -platform instance -name %s -image <image:tag>` to deploy a containerized bundle", *name)
}
