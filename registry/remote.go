package registry

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsdynamodb"
	"github.com/bundlekit/bundlekit/awss3"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/bundle"
	"github.com/bundlekit/bundlekit/naming"
	"github.com/sethvargo/go-retry"
)

// RemoteStore keeps bundle archives in S3 and the index in DynamoDB.
type RemoteStore struct {
	Bucket, Table string

	cfg *awscfg.Config
}

// NewRemoteStore names the bucket and table for the caller's account and
// ensures both exist.
func NewRemoteStore(ctx context.Context, cfg *awscfg.Config) (*RemoteStore, error) {
	accountNumber, err := cfg.AccountNumber(ctx)
	if err != nil {
		return nil, err
	}
	s := &RemoteStore{
		Bucket: naming.RepositoryBucket(accountNumber),
		Table:  naming.RepositoryTable(),
		cfg:    cfg,
	}

	if err := awss3.EnsureBucket(ctx, cfg, s.Bucket, nil); err != nil {
		return nil, err
	}
	if err := awsdynamodb.EnsureTable(
		ctx,
		cfg,
		s.Table,
		[]awsdynamodb.Attribute{
			{AttributeName: aws.String("Name"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("Version"), AttributeType: types.ScalarAttributeTypeS},
		},
		[]awsdynamodb.KeyElement{
			{AttributeName: aws.String("Name"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("Version"), KeyType: types.KeyTypeRange},
		},
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RemoteStore) Add(ctx context.Context, r *Record) error {
	err := awsdynamodb.PutItemIfAbsent(ctx, s.cfg, s.Table, "Version", itemFromRecord(r))
	if awsutil.ErrorCodeIs(err, "ConditionalCheckFailedException") {
		return alreadyRegistered(r.Tag())
	}
	return err
}

func (s *RemoteStore) Delete(ctx context.Context, tag bundle.Tag) error {
	r, err := s.Get(ctx, tag)
	if err != nil {
		return err
	}
	if err := awss3.DeleteObject(ctx, s.cfg, s.Bucket, s.key(r.Tag())); err != nil {
		return err
	}
	return awsdynamodb.DeleteItem(ctx, s.cfg, s.Table, keyItem(r.Tag()))
}

func (s *RemoteStore) Download(ctx context.Context, tag bundle.Tag, dirname string) error {
	r, err := s.Get(ctx, tag)
	if err != nil {
		return err
	}
	if r.UploadStatus != UploadStatusDone {
		return fmt.Errorf(
			"%s has upload status %s; only %s bundles can be downloaded",
			r.Tag(),
			r.UploadStatus,
			UploadStatusDone,
		)
	}
	body, err := awss3.GetObject(ctx, s.cfg, s.Bucket, s.key(r.Tag()))
	if err != nil {
		return err
	}
	defer body.Close()
	return bundle.Extract(body, dirname)
}

func (s *RemoteStore) Get(ctx context.Context, tag bundle.Tag) (*Record, error) {
	if tag.Version == bundle.Latest {
		records, err := s.List(ctx, Query{Name: tag.Name})
		if err != nil {
			return nil, err
		}
		if r := latest(records); r != nil {
			return r, nil
		}
		return nil, notFound(tag)
	}
	item, err := awsdynamodb.GetItem(ctx, s.cfg, s.Table, keyItem(tag))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound(tag)
	}
	return recordFromItem(item)
}

func (s *RemoteStore) List(ctx context.Context, q Query) ([]*Record, error) {
	var (
		items []awsdynamodb.Item
		err   error
	)
	if q.Name != "" {
		items, err = awsdynamodb.Query(
			ctx,
			s.cfg,
			s.Table,
			"#n = :n",
			map[string]string{"#n": "Name"},
			awsdynamodb.Item{":n": &types.AttributeValueMemberS{Value: q.Name}},
		)
	} else {
		items, err = awsdynamodb.Scan(ctx, s.cfg, s.Table)
	}
	if err != nil {
		return nil, err
	}
	var records []*Record
	for _, item := range items {
		r, err := recordFromItem(item)
		if err != nil {
			return nil, err
		}
		if matches(r, q) {
			records = append(records, r)
		}
	}
	return page(records, q), nil
}

// Upload archives the bundle directory and puts it in S3, retrying
// transient failures, and records the upload's progress in the index so
// half-uploaded bundles are never mistaken for good ones.
func (s *RemoteStore) Upload(ctx context.Context, tag bundle.Tag, dirname string) error {
	buf := &bytes.Buffer{}
	if err := bundle.Archive(dirname, buf); err != nil {
		return err
	}

	if err := s.setUploadStatus(ctx, tag, UploadStatusUploading); err != nil {
		return err
	}
	err := retry.Do(
		ctx,
		retry.WithMaxRetries(4, retry.NewExponential(time.Second)),
		func(ctx context.Context) error {
			if err := awss3.PutObject(
				ctx,
				s.cfg,
				s.Bucket,
				s.key(tag),
				bytes.NewReader(buf.Bytes()),
			); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		},
	)
	if err != nil {
		if err2 := s.setUploadStatus(ctx, tag, UploadStatusError); err2 != nil {
			return err2
		}
		return err
	}
	return s.setUploadStatus(ctx, tag, UploadStatusDone)
}

// ArchiveURL presigns a time-limited download for the tag's archive so a
// host can fetch it during boot without S3 credentials of its own.
func (s *RemoteStore) ArchiveURL(
	ctx context.Context,
	tag bundle.Tag,
	expires time.Duration,
) (string, error) {
	r, err := s.Get(ctx, tag)
	if err != nil {
		return "", err
	}
	if r.UploadStatus != UploadStatusDone {
		return "", fmt.Errorf("%s has upload status %s", r.Tag(), r.UploadStatus)
	}
	return awss3.PresignGetObject(ctx, s.cfg, s.Bucket, s.key(r.Tag()), expires)
}

func (s *RemoteStore) key(tag bundle.Tag) string {
	return fmt.Sprintf("%s/%s", tag.Name, bundle.ArchiveFilename(tag))
}

func (s *RemoteStore) setUploadStatus(ctx context.Context, tag bundle.Tag, status string) error {
	r, err := s.Get(ctx, tag)
	if err != nil {
		return err
	}
	r.UploadStatus = status
	return awsdynamodb.PutItem(ctx, s.cfg, s.Table, itemFromRecord(r))
}

func itemFromRecord(r *Record) awsdynamodb.Item {
	item := awsdynamodb.Item{
		"Name":      &types.AttributeValueMemberS{Value: r.Name},
		"Version":   &types.AttributeValueMemberS{Value: r.Version},
		"CreatedAt": &types.AttributeValueMemberS{Value: r.CreatedAt.UTC().Format(time.RFC3339)},
	}
	if r.UploadStatus != "" {
		item["UploadStatus"] = &types.AttributeValueMemberS{Value: r.UploadStatus}
	}
	if len(r.Labels) > 0 {
		labels := make(map[string]types.AttributeValue, len(r.Labels))
		for key, value := range r.Labels {
			labels[key] = &types.AttributeValueMemberS{Value: value}
		}
		item["Labels"] = &types.AttributeValueMemberM{Value: labels}
	}
	return item
}

func keyItem(tag bundle.Tag) awsdynamodb.Item {
	return awsdynamodb.Item{
		"Name":    &types.AttributeValueMemberS{Value: tag.Name},
		"Version": &types.AttributeValueMemberS{Value: tag.Version},
	}
}

func recordFromItem(item awsdynamodb.Item) (*Record, error) {
	r := &Record{}
	if v, ok := item["Name"].(*types.AttributeValueMemberS); ok {
		r.Name = v.Value
	}
	if v, ok := item["Version"].(*types.AttributeValueMemberS); ok {
		r.Version = v.Value
	}
	if r.Name == "" || r.Version == "" {
		return nil, fmt.Errorf("malformed index item %v", item)
	}
	if v, ok := item["CreatedAt"].(*types.AttributeValueMemberS); ok {
		t, err := time.Parse(time.RFC3339, v.Value)
		if err != nil {
			return nil, err
		}
		r.CreatedAt = t
	}
	if v, ok := item["UploadStatus"].(*types.AttributeValueMemberS); ok {
		r.UploadStatus = v.Value
	}
	if v, ok := item["Labels"].(*types.AttributeValueMemberM); ok {
		r.Labels = make(map[string]string, len(v.Value))
		for key, value := range v.Value {
			if s, ok := value.(*types.AttributeValueMemberS); ok {
				r.Labels[key] = s.Value
			}
		}
	}
	return r, nil
}
