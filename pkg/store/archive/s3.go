package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/moodvestor/report-relay/pkg/models/domain"
	"github.com/rs/zerolog"
)

const DefaultRegion = "us-east-1"

// ObjectAPI is the subset of the S3 client the archiver needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type S3 struct {
	client ObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// LoadAWSConfig resolves credentials from the default chain, optionally pinned to a
// shared profile.
func LoadAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithDefaultRegion(DefaultRegion),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return cfg, nil
}

func NewS3FromConfig(cfg aws.Config, bucket, prefix string) *S3 {
	return NewS3(s3.NewFromConfig(cfg), bucket, prefix)
}

func NewS3(client ObjectAPI, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

func (a *S3) key(name string) string {
	return a.prefix + name
}

func (a *S3) Store(ctx context.Context, report domain.Report) (string, error) {
	data, err := encode(report)
	if err != nil {
		return "", err
	}

	key := a.key(ObjectName(report.ID(), a.now()))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put s3://%s/%s: %w", a.bucket, key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", a.bucket, key)
	zerolog.Ctx(ctx).Debug().Str("location", location).Int("bytes", len(data)).Msg("report archived")
	return location, nil
}

func (a *S3) List(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry
	var continuationToken *string

	for {
		resp, err := a.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(a.bucket),
			Prefix:            aws.String(a.prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list s3://%s/%s: %w", a.bucket, a.prefix, err)
		}

		for _, obj := range resp.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), a.prefix)
			if strings.Contains(name, "/") {
				continue
			}
			id, at, ok := ParseObjectName(name)
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				Name:       name,
				ReportID:   id,
				ArchivedAt: at,
				Size:       aws.ToInt64(obj.Size),
			})
		}

		if !aws.ToBool(resp.IsTruncated) {
			break
		}
		continuationToken = resp.NextContinuationToken
	}

	if entries == nil {
		entries = []Entry{}
	}
	return newest(entries, limit), nil
}

func (a *S3) Open(ctx context.Context, name string) ([]byte, error) {
	if !ValidName(name) {
		return nil, ErrNotFound
	}

	resp, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key(name)),
	})
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", a.bucket, a.key(name), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived report: %w", err)
	}
	return data, nil
}
