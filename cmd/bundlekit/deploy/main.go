package deploy

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awscloudwatch"
	"github.com/bundlekit/bundlekit/awsec2"
	"github.com/bundlekit/bundlekit/awsecr"
	"github.com/bundlekit/bundlekit/awsiam"
	"github.com/bundlekit/bundlekit/awslambda"
	"github.com/bundlekit/bundlekit/awsssm"
	"github.com/bundlekit/bundlekit/cmdutil"
	"github.com/bundlekit/bundlekit/dockerutil"
	"github.com/bundlekit/bundlekit/naming"
	"github.com/bundlekit/bundlekit/policies"
	"github.com/bundlekit/bundlekit/tagging"
	"github.com/bundlekit/bundlekit/ui"
	"github.com/bundlekit/bundlekit/version"
)

const (
	platformInstance = "instance"
	platformLambda   = "lambda"

	lambdaRoleName = "BundlekitLambda"

	logRetentionInDays = 30
)

func Main(ctx context.Context, cfg *awscfg.Config, w io.Writer) {
	platform := flag.String("platform", platformInstance, `where to deploy - "instance" for a provisioned EC2 host, "lambda" for a Lambda function`)
	image := flag.String("image", "", "image tag built by `bundlekit containerize` (required)")
	name := flag.String("name", "", "deployment name (defaults to the image's repository name)")
	host := flag.String("host", "bundlekit-host", "Name tag of the provisioned instance to deploy to")
	instanceId := flag.String("instance-id", "", "deploy to this instance instead of looking one up by Name tag")
	port := flag.Int("port", 8080, "port to publish on the instance")
	memory := flag.Int("memory", 1024, "Lambda function memory in MiB")
	timeout := flag.Int("timeout", 30, "Lambda function timeout in seconds")
	env := cmdutil.StringSlice("env", "environment variable for the deployed bundle, as \"key=value\" (may be repeated)")
	quiet := flag.Bool("quiet", false, "suppress status and diagnostic output")
	flag.Usage = func() {
		ui.Print("Usage: bundlekit deploy -image <image:tag> [-platform instance|lambda] [-name <name>] [-host <name>|-instance-id <id>] [-port <port>] [-memory <MiB>] [-timeout <seconds>] [-env <key=value>[...]] [-quiet]")
		flag.PrintDefaults()
	}
	flag.Parse()
	version.Flag()
	if *quiet {
		ui.Quiet()
	}
	if *image == "" {
		ui.Fatal("-image is required")
	}
	ui.Must(dockerutil.ValidateTag(*image))
	repository, _, _ := strings.Cut(*image, ":")
	if *name == "" {
		*name = repository
	}

	environment := map[string]string{}
	for _, pair := range env.Slice() {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			ui.Fatalf("-env %q must take the form key=value", pair)
		}
		environment[key] = value
	}

	// Both platforms pull from the account's private registry, so the image
	// has to be there first.
	ui.Must2(awsecr.EnsureRepository(ctx, cfg, repository))
	auth := ui.Must2(awsecr.AuthorizationToken(ctx, cfg))
	registryHost := ui.Must2(awsecr.Registry(ctx, cfg))
	remoteImage := fmt.Sprintf("%s/%s", registryHost, *image)

	client := ui.Must2(dockerutil.New())
	defer client.Close()
	ui.Must(client.TagImage(ctx, *image, remoteImage))
	ui.Spinf("pushing %s", remoteImage)
	ui.Must(client.PushImage(ctx, remoteImage, auth.Username, auth.Password, w))
	ui.Stopf("pushed %s", remoteImage)

	switch *platform {
	case platformInstance:
		deployInstance(ctx, cfg, *name, *host, *instanceId, registryHost, *image, *port, environment)
	case platformLambda:
		deployLambda(ctx, cfg, *name, remoteImage, environment, *memory, *timeout)
	default:
		ui.Fatalf("-platform %q not supported", *platform)
	}
}

func deployInstance(
	ctx context.Context,
	cfg *awscfg.Config,
	name, host, instanceId, registryHost, image string,
	port int,
	environment map[string]string,
) {
	if instanceId == "" {
		instances := ui.Must2(awsec2.DescribeInstancesByName(ctx, cfg, host))
		if len(instances) == 0 {
			ui.Fatalf("no instance named %s; run `bundlekit provision -name %s` first", host, host)
		}
		instanceId = aws.ToString(instances[0].InstanceId)
	}

	logGroup := naming.LogGroup(name)
	ui.Must(awscloudwatch.EnsureLogGroup(ctx, cfg, logGroup, logRetentionInDays))

	envArgs := ""
	for key, value := range environment {
		envArgs += fmt.Sprintf(" -e %s=%s", key, value)
	}
	commands := []string{
		fmt.Sprintf(
			"aws ecr get-login-password --region %s | docker login --username AWS --password-stdin %s",
			cfg.Region(),
			registryHost,
		),
		fmt.Sprintf("docker pull %s/%s", registryHost, image),
		fmt.Sprintf("docker rm -f %s 2>/dev/null || true", name),
		fmt.Sprintf(
			"docker run -d --restart unless-stopped -p %d:%d%s --name %s %s/%s",
			port,
			port,
			envArgs,
			name,
			registryHost,
			image,
		),
	}

	ui.Spinf("deploying %s to %s", image, instanceId)
	commandId, err := awsssm.RunShellScript(
		ctx,
		cfg,
		instanceId,
		fmt.Sprintf("bundlekit deploy %s", name),
		logGroup,
		commands,
	)
	if err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	invocation, err := awsssm.WaitForCommand(ctx, cfg, commandId, instanceId)
	if err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	ui.Stopf("deployed (command %s)", commandId)
	if out := aws.ToString(invocation.StandardOutputContent); out != "" {
		ui.Print(out)
	}
	ui.Must(awsec2.CreateTags(ctx, cfg, []string{instanceId}, tagging.Map{
		tagging.Bundle: image,
	}))
	ui.Printf("run `bundlekit logs -name %s` to follow the deployment's output", name)
}

func deployLambda(
	ctx context.Context,
	cfg *awscfg.Config,
	name, imageURI string,
	environment map[string]string,
	memory, timeout int,
) {
	role := ui.Must2(awsiam.EnsureRoleWithPolicy(
		ctx,
		cfg,
		lambdaRoleName,
		policies.LambdaTrustPolicy,
		policies.AWSLambdaBasicExecutionRole,
	))

	ui.Spinf("deploying %s as a Lambda function", name)
	if _, err := awslambda.EnsureFunction(
		ctx,
		cfg,
		name,
		role.Arn,
		imageURI,
		environment,
		memory,
		timeout,
	); err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	url, err := awslambda.EnsureFunctionURL(ctx, cfg, name)
	if err != nil {
		ui.Fatal(ui.StopErr(err))
	}
	ui.Stopf("deployed %s", name)
	ui.Printf("serving at <%s>", url)
	ui.Printf("run `bundlekit logs -name %s -lambda` to follow the function's output", name)
}
