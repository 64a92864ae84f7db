package awscfg

import (
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// client memoizes service client construction so that repeated calls during
// a single command don't each pay for middleware setup.
func client[T any](c *Config, key string, construct func() T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.clients[key]; ok {
		return v.(T)
	}
	v := construct()
	c.clients[key] = v
	return v
}

func (c *Config) CloudWatchLogs() *cloudwatchlogs.Client {
	return client(c, "cloudwatchlogs", func() *cloudwatchlogs.Client {
		return cloudwatchlogs.NewFromConfig(c.cfg)
	})
}

func (c *Config) DynamoDB() *dynamodb.Client {
	return client(c, "dynamodb", func() *dynamodb.Client { return dynamodb.NewFromConfig(c.cfg) })
}

func (c *Config) EC2() *ec2.Client {
	return client(c, "ec2", func() *ec2.Client { return ec2.NewFromConfig(c.cfg) })
}

func (c *Config) ECR() *ecr.Client {
	return client(c, "ecr", func() *ecr.Client { return ecr.NewFromConfig(c.cfg) })
}

func (c *Config) IAM() *iam.Client {
	return client(c, "iam", func() *iam.Client { return iam.NewFromConfig(c.cfg) })
}

func (c *Config) Lambda() *lambda.Client {
	return client(c, "lambda", func() *lambda.Client { return lambda.NewFromConfig(c.cfg) })
}

func (c *Config) S3() *s3.Client {
	return client(c, "s3", func() *s3.Client { return s3.NewFromConfig(c.cfg) })
}

func (c *Config) SSM() *ssm.Client {
	return client(c, "ssm", func() *ssm.Client { return ssm.NewFromConfig(c.cfg) })
}

func (c *Config) STS() *sts.Client {
	return client(c, "sts", func() *sts.Client { return sts.NewFromConfig(c.cfg) })
}
