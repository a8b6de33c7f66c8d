package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/sdp-dev/tech-audit-scraper/internal/apperrors"
	"github.com/sdp-dev/tech-audit-scraper/internal/models"
)

// Option configures the S3 store.
type Option func(*s3Store)

// Bucket sets the target bucket.
func Bucket(bucket string) Option {
	return func(s *s3Store) {
		s.bucket = bucket
	}
}

// AWSConfig overrides the AWS client configuration.
func AWSConfig(cfg *aws.Config) Option {
	return func(s *s3Store) {
		s.awsConfig = cfg
	}
}

// NewS3 creates an S3-backed snapshot store.
func NewS3(option Option, options ...Option) SnapshotStore {
	s := new(s3Store)
	option(s)
	for _, apply := range options {
		apply(s)
	}

	s.s3 = s3.New(session.Must(session.NewSession(s.awsConfig)))
	s.uploader = s3manager.NewUploaderWithClient(s.s3)
	return s
}

type s3Store struct {
	bucket    string
	awsConfig *aws.Config
	s3        *s3.S3
	uploader  *s3manager.Uploader
}

func (s *s3Store) ReadSnapshot(ctx context.Context, key string) (*models.Snapshot, error) {
	obj, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, apperrors.NewStorage("failed to read snapshot s3://"+s.bucket+"/"+key, err)
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, apperrors.NewStorage("failed to read snapshot body", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, apperrors.NewStorage("failed to decode stored snapshot", err)
	}
	return &snapshot, nil
}

func (s *s3Store) WriteSnapshot(ctx context.Context, key string, snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.NewStorage("failed to encode snapshot", err)
	}

	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return apperrors.NewStorage("failed to upload snapshot s3://"+s.bucket+"/"+key, err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	if rerr, ok := err.(awserr.RequestFailure); ok && rerr.StatusCode() == 404 {
		return true
	}
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
		return true
	}
	return false
}
