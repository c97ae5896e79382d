// Package artifacts loads the trained model, encoders and scaler from a local
// directory or an S3-compatible bucket.
package artifacts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source opens artifact objects by name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Location describes where name is read from, for logs and errors.
	Location(name string) string
}

// FileSource reads artifacts from a directory.
type FileSource struct {
	dir string
}

// NewFileSource returns a Source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Open opens dir/name.
func (s *FileSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(s.Location(name))
}

// Location returns the file path of name.
func (s *FileSource) Location(name string) string {
	return filepath.Join(s.dir, name)
}

// ObjectGetter is the subset of the S3 client the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads artifacts from bucket/prefix.
type S3Source struct {
	client ObjectGetter
	bucket string
	prefix string
}

// S3Option applies a configuration option to the S3 client.
type S3Option func(*s3Settings)

type s3Settings struct {
	region    string
	endpoint  string
	accessKey string
	secretKey string
	client    ObjectGetter
}

// WithRegion sets the bucket region.
func WithRegion(region string) S3Option {
	return func(s *s3Settings) {
		if region != "" {
			s.region = region
		}
	}
}

// WithEndpoint points the client at an S3-compatible endpoint (MinIO, R2)
// and switches to path-style addressing.
func WithEndpoint(endpoint string) S3Option {
	return func(s *s3Settings) {
		s.endpoint = endpoint
	}
}

// WithStaticCredentials uses fixed keys instead of the default chain.
func WithStaticCredentials(accessKey, secretKey string) S3Option {
	return func(s *s3Settings) {
		s.accessKey = accessKey
		s.secretKey = secretKey
	}
}

// WithClient injects a ready client, skipping AWS config loading.
func WithClient(c ObjectGetter) S3Option {
	return func(s *s3Settings) {
		s.client = c
	}
}

// NewS3Source builds a Source over bucket/prefix.
func NewS3Source(ctx context.Context, bucket, prefix string, opts ...S3Option) (*S3Source, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is empty", ErrArtifactLoad)
	}
	settings := &s3Settings{region: "us-east-1"}
	for _, opt := range opts {
		opt(settings)
	}

	src := &S3Source{client: settings.client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
	if src.client != nil {
		return src, nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(settings.region)}
	if settings.accessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.accessKey, settings.secretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: aws config: %w", ErrArtifactLoad, err)
	}
	src.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.endpoint != "" {
			o.BaseEndpoint = aws.String(settings.endpoint)
			o.UsePathStyle = true
		}
	})
	return src, nil
}

// Open fetches the object for name.
func (s *S3Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return out.Body, nil
}

// Location returns the s3:// URL of name.
func (s *S3Source) Location(name string) string {
	return "s3://" + s.bucket + "/" + s.key(name)
}

func (s *S3Source) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}
