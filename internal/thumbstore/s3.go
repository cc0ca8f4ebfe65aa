package thumbstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"photocat/internal/catalog"
	"photocat/internal/config"
)

// S3Store keeps thumbnail blobs in an S3 bucket under
// <prefix>/<folderID>/<fileName>. Useful when the catalog database is small
// and local but thumbnails should survive machine loss.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Store creates an S3-backed thumbnail store from config. Credentials
// come from the config when set, otherwise from the default AWS chain
// (environment, shared config, instance role).
func NewS3Store(cfg config.ThumbnailStoreConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 thumbnail store requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		prefix:   strings.Trim(cfg.S3Prefix, "/"),
	}, nil
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

// Put stores thumbnail bytes for a folder/file-name pair.
func (s *S3Store) Put(folderID, fileName string, data []byte) error {
	_, err := s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(catalog.BlobKey(folderID, fileName))),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("uploading thumbnail: %w", err)
	}
	return nil
}

// Get retrieves thumbnail bytes for a folder/file-name pair.
func (s *S3Store) Get(folderID, fileName string) ([]byte, error) {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(catalog.BlobKey(folderID, fileName))),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("thumbnail not found: %s/%s", folderID, fileName)
		}
		return nil, fmt.Errorf("downloading thumbnail: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading thumbnail body: %w", err)
	}
	return data, nil
}

// Contains reports whether a blob exists for the pair.
func (s *S3Store) Contains(folderID, fileName string) (bool, error) {
	_, err := s.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(catalog.BlobKey(folderID, fileName))),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking thumbnail: %w", err)
	}
	return true, nil
}

// List returns the keys of every stored blob.
func (s *S3Store) List() ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("listing thumbnails: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if s.prefix != "" {
				key = strings.TrimPrefix(key, s.prefix+"/")
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Delete removes a single blob by key.
func (s *S3Store) Delete(key string) error {
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("deleting thumbnail: %w", err)
	}
	return nil
}

// DeleteFolder removes every blob belonging to a folder.
func (s *S3Store) DeleteFolder(folderID string) error {
	if folderID == "" {
		return fmt.Errorf("folder id must not be empty")
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.objectKey(folderID + "/")),
	}
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return fmt.Errorf("listing folder thumbnails: %w", err)
		}
		for _, obj := range page.Contents {
			_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return fmt.Errorf("deleting thumbnail %s: %w", aws.ToString(obj.Key), err)
			}
		}
	}
	return nil
}

// Compile-time check that S3Store implements catalog.ThumbnailStore
var _ catalog.ThumbnailStore = (*S3Store)(nil)
