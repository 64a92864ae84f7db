package policies

import "fmt"

const (
	InstanceOperationsName = "BundlekitInstanceOperations"
	HostPolicyName         = "BundlekitHost"
)

var (
	// InstanceOperations is the policy the provisioning guide has operators
	// paste into the IAM console, reproduced exactly, VisualEditor0 Sid and
	// all.
	InstanceOperations = &Document{
		Statement: []Statement{{
			Sid:      "VisualEditor0",
			Effect:   Allow,
			Action:   []string{"ec2:*"},
			Resource: []string{"*"},
		}},
	}

	// EC2TrustPolicy lets EC2 instances assume the host role via their
	// instance profile.
	EC2TrustPolicy = AssumeRolePolicyDocument(&Principal{
		Service: []string{"ec2.amazonaws.com"},
	})

	// LambdaTrustPolicy lets the Lambda service assume the execution role for
	// deployed functions.
	LambdaTrustPolicy = AssumeRolePolicyDocument(&Principal{
		Service: []string{"lambda.amazonaws.com"},
	})
)

// BundleBucketAccess grants read access to the bundle repository bucket so
// that provisioned hosts can fetch bundle archives without long-lived
// credentials.
func BundleBucketAccess(bucket string) *Document {
	return &Document{
		Statement: []Statement{{
			Action: []string{"s3:GetObject", "s3:ListBucket"},
			Resource: []string{
				fmt.Sprintf("arn:aws:s3:::%s", bucket),
				fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		}},
	}
}
