package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client used by [S3]. *s3.Client
// satisfies it.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3 stores artifacts as objects in an S3-compatible bucket.
type S3 struct {
	api    S3API
	bucket string
	prefix string
}

var _ Store = (*S3)(nil)

// NewS3 returns a store writing under bucket/prefix. prefix may be empty.
func NewS3(api S3API, bucket, prefix string) *S3 {
	return &S3{api: api, bucket: bucket, prefix: prefix}
}

// S3Options describes how to reach an S3-compatible endpoint.
type S3Options struct {
	Region    string
	Endpoint  string // empty for AWS
	AccessKey string
	SecretKey string
	PathStyle bool
}

// NewS3Client builds an *s3.Client from static credentials. Endpoint and
// PathStyle support MinIO, R2 and similar services.
func NewS3Client(o S3Options) *s3.Client {
	opts := s3.Options{
		Region:       o.Region,
		UsePathStyle: o.PathStyle,
	}
	if o.Endpoint != "" {
		opts.BaseEndpoint = aws.String(o.Endpoint)
	}
	if o.AccessKey != "" {
		creds := aws.Credentials{AccessKeyID: o.AccessKey, SecretAccessKey: o.SecretKey, Source: "agribrain"}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return s3.New(opts)
}

func (s *S3) String() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

func (s *S3) key(name string) *string {
	if s.prefix == "" {
		return aws.String(name)
	}
	return aws.String(s.prefix + "/" + name)
}

func (s *S3) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(name),
	})
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("storage: open %s: %w", name, os.ErrNotExist)
		}
		return nil, fmt.Errorf("storage: open %s: %w", name, err)
	}
	return out.Body, nil
}

// Create buffers the artifact in memory and uploads it with a single
// PutObject on Close. Index artifacts are small enough for this.
func (s *S3) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	return &s3Upload{ctx: ctx, store: s, name: name}, nil
}

func (s *S3) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(name),
	})
	if err == nil {
		return true, nil
	}
	if notFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("storage: head %s: %w", name, err)
}

func (s *S3) Remove(ctx context.Context, name string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(name),
	})
	if err != nil && !notFound(err) {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}

type s3Upload struct {
	ctx    context.Context
	store  *S3
	name   string
	buf    bytes.Buffer
	closed bool
}

func (u *s3Upload) Write(p []byte) (int, error) {
	if u.closed {
		return 0, errors.New("storage: write after close")
	}
	return u.buf.Write(p)
}

func (u *s3Upload) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	_, err := u.store.api.PutObject(u.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.store.bucket),
		Key:           u.store.key(u.name),
		Body:          bytes.NewReader(u.buf.Bytes()),
		ContentLength: aws.Int64(int64(u.buf.Len())),
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", u.name, err)
	}
	return nil
}

func notFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NotFound", "NoSuchKey":
		return true
	}
	return false
}
