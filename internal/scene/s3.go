package scene

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/vtree/internal/errors"
)

// ObjectGetter is the part of the S3 API scenes are read through.
// *s3.Client implements it.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures the S3 client built for s3:// scene URIs.
type S3Options struct {
	// Region is the bucket region. Empty uses the SDK's default chain.
	Region string

	// Endpoint overrides the service endpoint, e.g. a local MinIO.
	Endpoint string

	// PathStyle forces path-style addressing.
	PathStyle bool

	// AccessKeyID and SecretAccessKey, when both set, replace the default
	// credential chain with static credentials.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// Anonymous sends unsigned requests, for public buckets.
	Anonymous bool
}

// NewS3Client creates an S3 client from opts. Credentials and region are
// resolved by the SDK's default chain (environment, shared config and
// profiles, SSO, instance metadata) unless opts overrides them.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	switch {
	case opts.Anonymous:
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}))
	case opts.AccessKeyID != "" && opts.SecretAccessKey != "":
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.New(errors.CodeSceneRead).WithDetail("load AWS configuration").Wrap(err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.PathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// S3Source reads scene files from S3.
type S3Source struct {
	client ObjectGetter
}

// NewS3Source creates a source reading through client.
func NewS3Source(client ObjectGetter) *S3Source {
	return &S3Source{client: client}
}

// Read fetches the object at an s3://bucket/key URI.
func (s *S3Source) Read(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, ok := parseS3URI(uri)
	if !ok {
		return nil, errors.New(errors.CodeSceneRead).
			WithDetailf("malformed S3 URI %q", uri).
			WithSuggestion("Use s3://bucket/path/to/scene.yaml")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New(errors.CodeSceneRead).WithDetailf("get %s", uri).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New(errors.CodeSceneRead).WithDetailf("read %s", uri).Wrap(err)
	}
	return data, nil
}

// parseS3URI splits s3://bucket/key.
func parseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
