package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// S3Config configures an S3Backend.
type S3Config struct {
	AccessKeyID     string `json:"access_key_id,omitempty"`
	AccessKeySecret string `json:"access_key_secret,omitempty"`
	Endpoint        string `json:"endpoint,omitempty"`
	Scheme          string `json:"scheme,omitempty"`
	BucketName      string `json:"bucket_name,omitempty"`
	Region          string `json:"region,omitempty"`
	ObjectPrefix    string `json:"object_prefix,omitempty"`
}

// S3Backend stores archives in an S3 compatible bucket.
type S3Backend struct {
	// objectPrefix is prepended to every key.
	objectPrefix       string
	bucketName         string
	endpointWithScheme string
	client             *s3.Client
}

// NewS3Backend creates a backend. Endpoint defaults to s3.amazonaws.com
// and Scheme to https; BucketName and Region are required. Static
// credentials are used when both key fields are set, the default AWS
// credential chain otherwise.
func NewS3Backend(ctx context.Context, cfg *S3Config) (*S3Backend, error) {
	c := *cfg
	if c.Endpoint == "" {
		c.Endpoint = "s3.amazonaws.com"
	}
	if c.Scheme == "" {
		c.Scheme = "https"
	}
	if c.BucketName == "" || c.Region == "" {
		return nil, errors.New("invalid S3 configuration: missing bucket name or region")
	}
	endpointWithScheme := fmt.Sprintf("%s://%s", c.Scheme, c.Endpoint)

	awsConfig, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load default AWS config")
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = &endpointWithScheme
		o.Region = c.Region
		o.UsePathStyle = true
		if len(c.AccessKeySecret) > 0 && len(c.AccessKeyID) > 0 {
			o.Credentials = credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.AccessKeySecret, "")
		}
	})

	return &S3Backend{
		objectPrefix:       c.ObjectPrefix,
		bucketName:         c.BucketName,
		endpointWithScheme: endpointWithScheme,
		client:             client,
	}, nil
}

func (b *S3Backend) objectKey(key string) string {
	return b.objectPrefix + key
}

func (b *S3Backend) Fetch(ctx context.Context, key string) ([]byte, error) {
	objectKey := b.objectKey(key)
	output, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &b.bucketName,
		Key:    &objectKey,
	})
	if err != nil {
		var responseError *awshttp.ResponseError
		if errors.As(err, &responseError) && responseError.ResponseError.HTTPStatusCode() == http.StatusNotFound {
			return nil, errors.Wrap(ErrNotFound, objectKey)
		}
		return nil, errors.Wrapf(err, "get object %s from s3 backend %s", objectKey, b.endpointWithScheme)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read object body")
	}
	return data, nil
}

func (b *S3Backend) Upload(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	objectKey := b.objectKey(key)

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucketName),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return errors.Wrapf(err, "upload archive %s to s3 backend %s", objectKey, b.endpointWithScheme)
	}

	logrus.Debugf("uploaded archive %s to s3 backend %s, costs %s", objectKey, b.endpointWithScheme, time.Since(start))
	return nil
}

func (b *S3Backend) Type() string {
	return TypeS3
}
