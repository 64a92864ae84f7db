package awscfg

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/bundlekit/bundlekit/naming"
)

// RoleArnEnvVar, when set, makes every subcommand assume the named role
// before doing anything else. Useful when operators authenticate to a shared
// account and Bundlekit's resources live behind a dedicated role.
const RoleArnEnvVar = "BUNDLEKIT_ROLE_ARN"

// Main returns the arguments necessary for a typical subcommand's Main
// function so that it can be called as Main(awscfg.Main(ctx)).
func Main(ctx context.Context) (context.Context, *Config, io.Writer) {
	cfg := Must(NewConfig(ctx))
	if roleArn := os.Getenv(RoleArnEnvVar); roleArn != "" {
		cfg = Must(cfg.AssumeRole(ctx, roleArn, naming.Bundlekit, time.Hour))
	}
	return ctx, cfg, os.Stdout
}
