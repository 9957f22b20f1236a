// Package s3 replicates collections as JSON objects in an S3 compatible
// bucket (AWS S3 or MinIO). Each collection is one object under the
// configured prefix; the pushing device is stored as object metadata.
package s3

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/logging"
)

const (
	backend       = "s3"
	defaultRegion = "us-east-1"
	defaultPrefix = "instantbox"
	deviceIDKey   = "device-id"
)

// Config holds explicit construction parameters. Credentials fall back to
// the default AWS chain when AccessKeyID is empty.
type Config struct {
	Bucket          string
	Region          string
	Prefix          string
	Endpoint        string // optional, e.g. a MinIO URL
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// HTTPClient overrides the SDK transport.
	HTTPClient *http.Client
}

// Replica implements ports.Replication on S3.
type Replica struct {
	client *awss3.Client
	bucket string
	prefix string
}

// New creates a replica from cfg.
func New(ctx context.Context, cfg Config) (*Replica, error) {
	if cfg.Bucket == "" {
		return nil, errors.NewConfigError(backend, "bucket required", nil)
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.NewConfigError(backend, "failed to load AWS config", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
		// S3 compatible stores reject aws-chunked trailers.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	logging.FromContext(ctx).Debug().
		Str("bucket", cfg.Bucket).
		Str("region", region).
		Str("endpoint", cfg.Endpoint).
		Msg("S3 replica configured")

	return &Replica{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

// Key returns the object key for collection.
func (r *Replica) Key(collection string) string {
	return path.Join(r.prefix, collection+".json")
}

// Push implements ports.Replication.
func (r *Replica) Push(ctx context.Context, collection string, data []byte, deviceID string) error {
	_, err := r.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.Key(collection)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{deviceIDKey: deviceID},
	})
	if err != nil {
		return classify("push", collection, err)
	}
	return nil
}

// Fetch implements ports.Replication.
func (r *Replica) Fetch(ctx context.Context, collection string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.Key(collection)),
	})
	if err != nil {
		if errorCode(err) == "NoSuchKey" {
			return nil, nil
		}
		return nil, classify("fetch", collection, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, classify("fetch", collection, err)
	}
	return data, nil
}

// Ping checks that the bucket exists and is reachable.
func (r *Replica) Ping(ctx context.Context) error {
	if _, err := r.client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(r.bucket)}); err != nil {
		return classify("ping", "", err)
	}
	return nil
}

func classify(op, collection string, err error) error {
	return errors.NewReplicationError(backend, op, collection, kindOf(err), err)
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func kindOf(err error) errors.ReplicationKind {
	switch errorCode(err) {
	case "NoSuchBucket", "NotFound":
		return errors.ReplicationSchemaMissing
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "Forbidden":
		return errors.ReplicationAuth
	case "QuotaExceeded", "SlowDown", "EntityTooLarge":
		return errors.ReplicationQuota
	case "":
	default:
		return errors.ReplicationUnknown
	}

	var netErr net.Error
	switch {
	case stderrors.As(err, &netErr),
		stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return errors.ReplicationNetwork
	}
	return errors.ReplicationUnknown
}
