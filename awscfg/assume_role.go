package awscfg

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// AssumeRole returns a Config whose clients authenticate as roleArn,
// chaining off the receiver's credentials. It confirms the credentials work
// before returning so that callers fail fast with a useful error instead of
// deep inside some later API call.
func (c *Config) AssumeRole(
	ctx context.Context,
	roleArn, roleSessionName string,
	duration time.Duration,
) (*Config, error) {
	cfg := &Config{
		cfg:     c.cfg.Copy(),
		clients: map[string]interface{}{},
	}
	cfg.cfg.Credentials = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(
		sts.NewFromConfig(c.cfg),
		roleArn,
		func(options *stscreds.AssumeRoleOptions) {
			options.Duration = duration
			options.RoleSessionName = roleSessionName
		},
	))
	if _, err := cfg.Identity(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}
