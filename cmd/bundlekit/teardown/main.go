package teardown

import (
	"context"
	"flag"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awscloudwatch"
	"github.com/bundlekit/bundlekit/awsec2"
	"github.com/bundlekit/bundlekit/awsiam"
	"github.com/bundlekit/bundlekit/awslambda"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/naming"
	"github.com/bundlekit/bundlekit/policies"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/version"
)

func Main(ctx context.Context, cfg *awscfg.Config, w io.Writer) {
	name := flag.String("name", "bundlekit-host", "Name tag of the provisioned instance(s) to terminate")
	function := flag.String("function", "", "also delete this Lambda function and its log group")
	deleteIAM := flag.Bool("delete-iam", false, "also delete the roles, instance profile, and policies Bundlekit created")
	force := flag.Bool("force", false, "tear down without asking for confirmation")
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit teardown [-name <name>] [-function <name>] [-delete-iam] [-force] [-quiet]")
		flag.PrintDefaults()
	}
	flag.Parse()
	version.Flag()
	if *quiet {
		ui.Quiet()
	}

	instances := ui.Must2(awsec2.DescribeInstancesByName(ctx, cfg, *name))
	for _, instance := range instances {
		instanceId := aws.ToString(instance.InstanceId)
		if !*force {
			if ok := ui.Must2(ui.Confirmf("terminate %s? (yes/no)", instanceId)); !ok {
				continue
			}
		}
		ui.Spinf("terminating %s", instanceId)
		if err := awsec2.TerminateInstance(ctx, cfg, instanceId); err != nil {
			ui.Fatal(ui.StopErr(err))
		}
		ui.Stop("terminated")
	}
	if len(instances) == 0 {
		ui.Printf("no instances named %s", *name)
	}

	if *function != "" {
		if *force || ui.Must2(ui.Confirmf("delete the %s function? (yes/no)", *function)) {
			ui.Must(awslambda.DeleteFunction(ctx, cfg, *function))
			ui.Must(awscloudwatch.DeleteLogGroup(ctx, cfg, naming.LogGroup(*function)))
			ui.Printf("deleted %s", *function)
		}
	}

	if *deleteIAM {
		if !*force {
			if ok := ui.Must2(ui.Confirm("delete Bundlekit's IAM roles and policies? (yes/no)")); !ok {
				return
			}
		}
		accountNumber := ui.Must2(cfg.AccountNumber(ctx))

		// The instance profile references the role and the role references
		// the policies, so teardown runs in the opposite order from
		// provisioning.
		if err := awsiam.DeleteInstanceProfile(ctx, cfg, "BundlekitHost"); err != nil &&
			!awsutil.ErrorCodeIs(err, awsiam.NoSuchEntity) {
			ui.Fatal(err)
		}
		for _, roleName := range []string{"BundlekitHost", "BundlekitLambda"} {
			if err := awsiam.DeleteRole(ctx, cfg, roleName); err != nil &&
				!awsutil.ErrorCodeIs(err, awsiam.NoSuchEntity) {
				ui.Fatal(err)
			}
		}
		for _, policyName := range []string{
			policies.InstanceOperationsName,
			policies.HostPolicyName,
		} {
			if err := awsiam.DeletePolicy(
				ctx,
				cfg,
				awsiam.PolicyARN(accountNumber, policyName),
			); err != nil && !awsutil.ErrorCodeIs(err, awsiam.NoSuchEntity) {
				ui.Fatal(err)
			}
		}
		ui.Print("deleted Bundlekit's IAM resources")
	}
}
