package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"yt-sentiment/shared/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// blobAPI is the slice of the S3 client the gateway actually uses, so tests
// can substitute a deterministic fake.
type blobAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// BlobStore uploads, downloads and lists named byte blobs in one remote
// container. Uploads overwrite; there is no versioning.
type BlobStore struct {
	api    blobAPI
	bucket string
}

// ConnectionSettings is the parsed form of the pre-shared connection string.
type ConnectionSettings struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
}

// ParseConnectionString parses "AccessKey=...;SecretKey=...;Region=...;Endpoint=..."
// (keys case-insensitive, order free, empty segments ignored).
func ParseConnectionString(raw string) (*ConnectionSettings, error) {
	settings := &ConnectionSettings{}
	for _, segment := range strings.Split(raw, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		key, value, found := strings.Cut(segment, "=")
		if !found {
			return nil, fmt.Errorf("malformed connection string segment %q", segment)
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "accesskey":
			settings.AccessKey = strings.TrimSpace(value)
		case "secretkey":
			settings.SecretKey = strings.TrimSpace(value)
		case "region":
			settings.Region = strings.TrimSpace(value)
		case "endpoint":
			settings.Endpoint = strings.TrimSpace(value)
		default:
			return nil, fmt.Errorf("unknown connection string key %q", key)
		}
	}
	if settings.AccessKey == "" || settings.SecretKey == "" {
		return nil, fmt.Errorf("connection string must include AccessKey and SecretKey")
	}
	return settings, nil
}

// NewBlobStore builds the gateway. Credential selection: the connection
// string when configured for it, otherwise the explicit key pair, otherwise
// the ambient default credential chain.
func NewBlobStore(ctx context.Context, cfg *config.BlobConfig) (*BlobStore, error) {
	var (
		awsCfg   aws.Config
		endpoint = cfg.AccountURL
		err      error
	)

	switch {
	case cfg.ConnectionStringAuth() && cfg.ConnectionString != "":
		settings, parseErr := ParseConnectionString(cfg.ConnectionString)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid blob connection string: %w", parseErr)
		}
		if settings.Endpoint != "" {
			endpoint = settings.Endpoint
		}
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(settings.Region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(settings.AccessKey, settings.SecretKey, ""),
			),
		)
	case cfg.AccessKeyID != "" && cfg.SecretAccessKey != "":
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
		)
	default:
		// Ambient credential chain (environment, shared config, instance role).
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load blob storage credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &BlobStore{api: client, bucket: cfg.Container}, nil
}

// Upload stores a local file under blobName, overwriting any existing blob.
func (b *BlobStore) Upload(ctx context.Context, blobName, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	_, err = b.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(blobName),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", blobName, err)
	}

	log.Printf("Uploaded %s to %s", localPath, blobName)
	return nil
}

// Download fetches a blob into localPath, creating parent directories first.
func (b *BlobStore) Download(ctx context.Context, blobName, localPath string) error {
	if dir := filepath.Dir(localPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", localPath, err)
		}
	}

	resp, err := b.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(blobName),
	})
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", blobName, err)
	}
	defer resp.Body.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	log.Printf("Downloaded %s to %s", blobName, localPath)
	return nil
}

// List returns every blob name with the given prefix, following continuation
// tokens until the listing is complete.
func (b *BlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	var continuation *string

	for {
		input := &s3.ListObjectsV2Input{
			Bucket:            aws.String(b.bucket),
			ContinuationToken: continuation,
		}
		if prefix != "" {
			input.Prefix = aws.String(prefix)
		}

		resp, err := b.api.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs with prefix %q: %w", prefix, err)
		}

		for _, obj := range resp.Contents {
			if obj.Key != nil {
				names = append(names, *obj.Key)
			}
		}

		if resp.IsTruncated == nil || !*resp.IsTruncated {
			break
		}
		continuation = resp.NextContinuationToken
	}

	return names, nil
}
