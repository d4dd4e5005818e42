package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/vzahanych/weather-processor/internal/config"
	"github.com/vzahanych/weather-processor/internal/forecast"
)

// PutItemAPI is the slice of the DynamoDB client used here.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type DynamoClient struct {
	api PutItemAPI
}

func NewDynamoClientWithAPI(api PutItemAPI) *DynamoClient {
	return &DynamoClient{api: api}
}

// NewDynamoClient loads the default AWS configuration (environment, shared
// files, execution role) and builds a DynamoDB client from it.
func NewDynamoClient(ctx context.Context, cfg config.StorageConfig) (*DynamoClient, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	api := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewDynamoClientWithAPI(api), nil
}

func (c *DynamoClient) PutRecord(ctx context.Context, table string, record forecast.WeatherRecord) (Ack, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return Ack{}, fmt.Errorf("marshaling record: %w", err)
	}

	out, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		var respErr *smithyhttp.ResponseError
		if errors.As(err, &respErr) {
			return Ack{StatusCode: respErr.HTTPStatusCode()}, err
		}
		return Ack{}, err
	}

	return ackFromMetadata(out), nil
}

// ackFromMetadata reads the HTTP status of the put from the raw response the
// SDK keeps in the result metadata. The SDK only returns a nil error for
// 2xx responses, so a missing raw response is read as 200.
func ackFromMetadata(out *dynamodb.PutItemOutput) Ack {
	ack := Ack{StatusCode: http.StatusOK}
	if out == nil {
		return ack
	}

	if id, ok := awsmiddleware.GetRequestIDMetadata(out.ResultMetadata); ok {
		ack.RequestID = id
	}

	if resp, ok := awsmiddleware.GetRawResponse(out.ResultMetadata).(*smithyhttp.Response); ok && resp != nil && resp.Response != nil {
		ack.StatusCode = resp.StatusCode
	}

	return ack
}
