package awsiam

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/policies"
)

type Role struct {
	Arn, Name string
}

func AttachRolePolicy(
	ctx context.Context,
	cfg *awscfg.Config,
	roleName, policyArn string,
) error {
	_, err := cfg.IAM().AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  aws.String(roleName),
		PolicyArn: aws.String(policyArn),
	})
	return err
}

func CreateRole(
	ctx context.Context,
	cfg *awscfg.Config,
	roleName string,
	assumeRolePolicyDoc *policies.Document,
) (*Role, error) {
	docJSON, err := assumeRolePolicyDoc.Marshal()
	if err != nil {
		return nil, err
	}
	out, err := cfg.IAM().CreateRole(ctx, &iam.CreateRoleInput{
		AssumeRolePolicyDocument: aws.String(docJSON),
		RoleName:                 aws.String(roleName),
		Tags:                     tagsFor(roleName),
	})
	if err != nil {
		return nil, err
	}
	time.Sleep(10e9) // give IAM time to become consistent (TODO do it gracefully)
	return roleFromAPI(out.Role), nil
}

func DeleteRole(ctx context.Context, cfg *awscfg.Config, roleName string) error {
	client := cfg.IAM()
	out, err := client.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
		RoleName: aws.String(roleName),
	})
	if err != nil {
		return err
	}
	for _, attached := range out.AttachedPolicies {
		if _, err := client.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
			PolicyArn: attached.PolicyArn,
			RoleName:  aws.String(roleName),
		}); err != nil {
			return err
		}
	}
	_, err = client.DeleteRole(ctx, &iam.DeleteRoleInput{
		RoleName: aws.String(roleName),
	})
	return err
}

func EnsureRole(
	ctx context.Context,
	cfg *awscfg.Config,
	roleName string,
	assumeRolePolicyDoc *policies.Document,
) (*Role, error) {
	defer time.Sleep(1e9) // avoid Throttling: Rate exceeded
	role, err := CreateRole(ctx, cfg, roleName, assumeRolePolicyDoc)
	if awsutil.ErrorCodeIs(err, EntityAlreadyExists) {
		role, err = GetRole(ctx, cfg, roleName)
		if err != nil {
			return nil, err
		}

		docJSON, err := assumeRolePolicyDoc.Marshal()
		if err != nil {
			return nil, err
		}
		if _, err := cfg.IAM().UpdateAssumeRolePolicy(ctx, &iam.UpdateAssumeRolePolicyInput{
			PolicyDocument: aws.String(docJSON),
			RoleName:       aws.String(roleName),
		}); err != nil {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	if _, err := cfg.IAM().TagRole(ctx, &iam.TagRoleInput{
		RoleName: aws.String(roleName),
		Tags:     tagsFor(roleName),
	}); err != nil {
		return nil, err
	}

	return role, nil
}

// EnsureRoleWithPolicy is EnsureRole plus attaching the given managed policy
// ARNs, tolerating policies that are already attached.
func EnsureRoleWithPolicy(
	ctx context.Context,
	cfg *awscfg.Config,
	roleName string,
	assumeRolePolicyDoc *policies.Document,
	policyArns ...string,
) (*Role, error) {
	role, err := EnsureRole(ctx, cfg, roleName, assumeRolePolicyDoc)
	if err != nil {
		return nil, err
	}
	for _, policyArn := range policyArns {
		if err := AttachRolePolicy(ctx, cfg, roleName, policyArn); err != nil {
			return nil, err
		}
	}
	return role, nil
}

func GetRole(ctx context.Context, cfg *awscfg.Config, roleName string) (*Role, error) {
	out, err := cfg.IAM().GetRole(ctx, &iam.GetRoleInput{
		RoleName: aws.String(roleName),
	})
	if err != nil {
		return nil, err
	}
	return roleFromAPI(out.Role), nil
}

func roleFromAPI(role *types.Role) *Role {
	return &Role{
		Arn:  aws.ToString(role.Arn),
		Name: aws.ToString(role.RoleName),
	}
}
