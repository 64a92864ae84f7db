// Package awsdynamodb wraps the DynamoDB API for the index side of remote
// bundle repositories.
package awsdynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/awsutil"
	"github.com/bundlekit/bundlekit/tagging"
	"github.com/bundlekit/bundlekit/version"
)

type (
	Attribute      = types.AttributeDefinition
	AttributeValue = types.AttributeValue
	Item           = map[string]types.AttributeValue
	KeyElement     = types.KeySchemaElement
)

// EnsureTable creates an on-demand table or, if it already exists, updates
// and re-tags it.
func EnsureTable(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
	attrs []Attribute,
	key []KeyElement,
) error {
	client := cfg.DynamoDB()
	tags := []types.Tag{
		{Key: aws.String(tagging.Manager), Value: aws.String(tagging.Bundlekit)},
		{Key: aws.String(tagging.BundlekitVersion), Value: aws.String(version.Version)},
	}

	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		AttributeDefinitions: attrs,
		BillingMode:          types.BillingModePayPerRequest,
		KeySchema:            key,
		TableName:            aws.String(name),
		Tags:                 tags,
	})
	if awsutil.ErrorCodeIs(err, "ResourceInUseException") {
		if _, err := client.UpdateTable(ctx, &dynamodb.UpdateTableInput{
			AttributeDefinitions: attrs,
			BillingMode:          types.BillingModePayPerRequest,
			TableName:            aws.String(name),
		}); err != nil && !awsutil.ErrorMessageHasPrefix(
			err,
			"The requested value equals the current value",
		) {
			return err
		}
		arn, err := tableARN(ctx, cfg, name)
		if err != nil {
			return err
		}
		_, err = client.TagResource(ctx, &dynamodb.TagResourceInput{
			ResourceArn: aws.String(arn),
			Tags:        tags,
		})
		return err
	} else if err != nil {
		return err
	}

	return waitUntilActive(ctx, cfg, name)
}

func DeleteItem(
	ctx context.Context,
	cfg *awscfg.Config,
	table string,
	key Item,
) error {
	_, err := cfg.DynamoDB().DeleteItem(ctx, &dynamodb.DeleteItemInput{
		Key:       key,
		TableName: aws.String(table),
	})
	return err
}

func GetItem(
	ctx context.Context,
	cfg *awscfg.Config,
	table string,
	key Item,
) (Item, error) {
	out, err := cfg.DynamoDB().GetItem(ctx, &dynamodb.GetItemInput{
		ConsistentRead: aws.Bool(true),
		Key:            key,
		TableName:      aws.String(table),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

// PutItem writes the item unconditionally; use PutItemIfAbsent to refuse
// overwrites.
func PutItem(
	ctx context.Context,
	cfg *awscfg.Config,
	table string,
	item Item,
) error {
	_, err := cfg.DynamoDB().PutItem(ctx, &dynamodb.PutItemInput{
		Item:      item,
		TableName: aws.String(table),
	})
	return err
}

func PutItemIfAbsent(
	ctx context.Context,
	cfg *awscfg.Config,
	table, hashKeyAttr string,
	item Item,
) error {
	_, err := cfg.DynamoDB().PutItem(ctx, &dynamodb.PutItemInput{
		ConditionExpression: aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{
			"#k": hashKeyAttr,
		},
		Item:      item,
		TableName: aws.String(table),
	})
	return err
}

// Query returns every item matching the key condition, following pagination
// to the end.
func Query(
	ctx context.Context,
	cfg *awscfg.Config,
	table, keyConditionExpression string,
	names map[string]string,
	values Item,
) ([]Item, error) {
	var items []Item
	paginator := dynamodb.NewQueryPaginator(cfg.DynamoDB(), &dynamodb.QueryInput{
		ConsistentRead:            aws.Bool(true),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		KeyConditionExpression:    aws.String(keyConditionExpression),
		TableName:                 aws.String(table),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
	}
	return items, nil
}

// Scan returns every item in the table, following pagination to the end.
func Scan(
	ctx context.Context,
	cfg *awscfg.Config,
	table string,
) ([]Item, error) {
	var items []Item
	paginator := dynamodb.NewScanPaginator(cfg.DynamoDB(), &dynamodb.ScanInput{
		ConsistentRead: aws.Bool(true),
		TableName:      aws.String(table),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
	}
	return items, nil
}

func tableARN(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
) (string, error) {
	out, err := cfg.DynamoDB().DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.Table.TableArn), nil
}

func waitUntilActive(
	ctx context.Context,
	cfg *awscfg.Config,
	name string,
) error {
	attempts := 0
	for range awsutil.JitteredExponentialBackoff(time.Second, 10*time.Second) {
		out, err := cfg.DynamoDB().DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(name),
		})
		if err != nil {
			return err
		}
		if out.Table.TableStatus == types.TableStatusActive {
			return nil
		}
		if attempts++; attempts > 60 {
			break
		}
	}
	return fmt.Errorf("table %s took too long to become active", name)
}
