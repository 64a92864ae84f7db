package awscfg

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// AccountNumber returns the 12-digit account number of the AWS account the
// ambient credentials authenticate to. The underlying GetCallerIdentity call
// is memoized for the life of the Config.
func (c *Config) AccountNumber(ctx context.Context) (string, error) {
	identity, err := c.Identity(ctx)
	if err != nil {
		return "", err
	}
	return aws.ToString(identity.Account), nil
}

func (c *Config) Identity(ctx context.Context) (*sts.GetCallerIdentityOutput, error) {
	c.mu.Lock()
	identity := c.identity
	c.mu.Unlock()
	if identity != nil {
		return identity, nil
	}
	identity, err := c.STS().GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.identity = identity
	c.mu.Unlock()
	return identity, nil
}
