package awsiam

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/policies"
)

// maxPolicyVersions is the hard AWS limit on customer managed policy
// versions.
const maxPolicyVersions = 5

func CreatePolicy(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
	doc *policies.Document,
) (string, error) {
	docJSON, err := doc.Marshal()
	if err != nil {
		return "", err
	}
	out, err := cfg.IAM().CreatePolicy(ctx, &iam.CreatePolicyInput{
		PolicyDocument: aws.String(docJSON),
		PolicyName:     aws.String(name),
		Tags:           tagsFor(name),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.Policy.Arn), nil
}

func DeletePolicy(ctx context.Context, cfg *awscfg.Config, policyArn string) error {
	client := cfg.IAM()
	out, err := client.ListPolicyVersions(ctx, &iam.ListPolicyVersionsInput{
		PolicyArn: aws.String(policyArn),
	})
	if err != nil {
		return err
	}
	for _, v := range out.Versions {
		if v.IsDefaultVersion {
			continue // deleted along with the policy itself
		}
		if _, err := client.DeletePolicyVersion(ctx, &iam.DeletePolicyVersionInput{
			PolicyArn: aws.String(policyArn),
			VersionId: v.VersionId,
		}); err != nil {
			return err
		}
	}
	_, err = client.DeletePolicy(ctx, &iam.DeletePolicyInput{
		PolicyArn: aws.String(policyArn),
	})
	return err
}

// EnsurePolicy creates the named customer managed policy or, if it already
// exists, makes the given document its new default version, pruning the
// oldest version first if the policy's at AWS' five-version limit.
func EnsurePolicy(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
	doc *policies.Document,
) (string, error) {
	policyArn, err := CreatePolicy(ctx, cfg, name, doc)
	if !awsutil.ErrorCodeIs(err, EntityAlreadyExists) {
		return policyArn, err
	}

	accountNumber, err := cfg.AccountNumber(ctx)
	if err != nil {
		return "", err
	}
	policyArn = PolicyARN(accountNumber, name)

	client := cfg.IAM()
	out, err := client.ListPolicyVersions(ctx, &iam.ListPolicyVersionsInput{
		PolicyArn: aws.String(policyArn),
	})
	if err != nil {
		return "", err
	}
	if len(out.Versions) >= maxPolicyVersions {
		if _, err := client.DeletePolicyVersion(ctx, &iam.DeletePolicyVersionInput{
			PolicyArn: aws.String(policyArn),
			VersionId: oldestDeletableVersion(out.Versions).VersionId,
		}); err != nil {
			return "", err
		}
	}

	docJSON, err := doc.Marshal()
	if err != nil {
		return "", err
	}
	if _, err := client.CreatePolicyVersion(ctx, &iam.CreatePolicyVersionInput{
		PolicyArn:      aws.String(policyArn),
		PolicyDocument: aws.String(docJSON),
		SetAsDefault:   true,
	}); err != nil {
		return "", err
	}
	return policyArn, nil
}

func PolicyARN(accountNumber, name string) string {
	return fmt.Sprintf("arn:aws:iam::%s:policy/%s", accountNumber, name)
}

func oldestDeletableVersion(versions []types.PolicyVersion) types.PolicyVersion {
	deletable := make([]types.PolicyVersion, 0, len(versions))
	for _, v := range versions {
		if !v.IsDefaultVersion {
			deletable = append(deletable, v)
		}
	}
	sort.Slice(deletable, func(i, j int) bool {
		return aws.ToTime(deletable[i].CreateDate).Before(aws.ToTime(deletable[j].CreateDate))
	})
	return deletable[0]
}
