// Package awss3 wraps the S3 API for managing the archive side of remote
// bundle repositories.
package awss3

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/policies"
	"github.com/bundlekit/bundlekit/tagging"
	"github.com/bundlekit/bundlekit/version"
)

// EnsureBucket creates a private, versioned bucket or confirms one already
// exists. The bucket policy, tags, versioning configuration, and public
// access block are (re)applied unconditionally so drift heals itself.
func EnsureBucket(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
	policy *policies.Document,
) error {
	client := cfg.S3()

	in := &s3.CreateBucketInput{
		ACL:    types.BucketCannedACLPrivate,
		Bucket: aws.String(name),
	}
	if region := cfg.Region(); region != "us-east-1" { // the one region you can't name
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	if _, err := client.CreateBucket(ctx, in); err != nil &&
		!awsutil.ErrorCodeIs(err, "BucketAlreadyOwnedByYou") {
		return err
	}

	if _, err := client.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(name),
		PublicAccessBlockConfiguration: &types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(true),
			BlockPublicPolicy:     aws.Bool(true),
			IgnorePublicAcls:      aws.Bool(true),
			RestrictPublicBuckets: aws.Bool(true),
		},
	}); err != nil {
		return err
	}

	if policy != nil {
		docJSON, err := policy.Marshal()
		if err != nil {
			return err
		}
		if _, err := client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(name),
			Policy: aws.String(docJSON),
		}); err != nil {
			return err
		}
	}

	if _, err := client.PutBucketTagging(ctx, &s3.PutBucketTaggingInput{
		Bucket: aws.String(name),
		Tagging: &types.Tagging{TagSet: []types.Tag{
			{Key: aws.String(tagging.Manager), Value: aws.String(tagging.Bundlekit)},
			{Key: aws.String(tagging.BundlekitVersion), Value: aws.String(version.Version)},
		}},
	}); err != nil {
		return err
	}

	if _, err := client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: aws.String(name),
		VersioningConfiguration: &types.VersioningConfiguration{
			Status: types.BucketVersioningStatusEnabled,
		},
	}); err != nil {
		return err
	}

	return nil
}

func DeleteObject(
	ctx context.Context,
	cfg *awscfg.Config,
	bucket, key string,
) error {
	_, err := cfg.S3().DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

// GetObject returns the object's body, which the caller must close.
func GetObject(
	ctx context.Context,
	cfg *awscfg.Config,
	bucket, key string,
) (io.ReadCloser, error) {
	out, err := cfg.S3().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

func HeadObject(
	ctx context.Context,
	cfg *awscfg.Config,
	bucket, key string,
) (exists bool, err error) {
	_, err = cfg.S3().HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if awsutil.ErrorCodeIs(err, "NotFound") {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func PutObject(
	ctx context.Context,
	cfg *awscfg.Config,
	bucket, key string,
	body io.Reader,
) error {
	_, err := cfg.S3().PutObject(ctx, &s3.PutObjectInput{
		Body:   body,
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

// PresignGetObject returns a time-limited URL a host can fetch a bundle
// archive from without its own S3 credentials.
func PresignGetObject(
	ctx context.Context,
	cfg *awscfg.Config,
	bucket, key string,
	expires time.Duration,
) (string, error) {
	out, err := s3.NewPresignClient(cfg.S3()).PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(expires),
	)
	if err != nil {
		return "", err
	}
	return out.URL, nil
}
