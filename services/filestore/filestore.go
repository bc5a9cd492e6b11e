// Package filestore addresses artifact binary content in S3. Branch clones
// share content by location, so the store is append-only from the branch
// lifecycle's point of view: nothing here deletes a blob another branch may
// still reference.
package filestore

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/config"
)

// ContentStore reads and writes artifact content blobs by location key.
type ContentStore interface {
	Upload(fIn io.ReadSeeker, key string) error
	Download(fOut io.WriterAt, key string) (int64, error)
	Test() error
}

// S3ContentStore is the S3-backed ContentStore.
type S3ContentStore struct {
	Bucket     *string
	AWSSession *session.Session
	S3         *s3.S3
	Logger     *zap.Logger
}

var _ ContentStore = (*S3ContentStore)(nil)

// NewAWSSession instantiates a connection to AWS.
func NewAWSSession(conf config.ContentStoreConfiguration, logger *zap.Logger) *session.Session {
	sessionConfig := &aws.Config{
		Region: aws.String(conf.Region),
	}
	if conf.Endpoint != "" {
		sessionConfig.Endpoint = aws.String(conf.Endpoint)
		sessionConfig.S3ForcePathStyle = aws.Bool(true)
	}
	accessKeyID := os.Getenv(config.MCF_AWS_ACCESS_KEY_ID)
	secretKey := os.Getenv(config.MCF_AWS_SECRET_ACCESS_KEY)
	if len(accessKeyID) > 0 && len(secretKey) > 0 {
		logger.Info("aws.credentials", zap.String("provider", "environment variables"))
		sessionConfig.Credentials = credentials.NewStaticCredentials(accessKeyID, secretKey, "")
	} else {
		logger.Info("aws.credentials", zap.String("provider", "iam role"))
	}
	return session.New(sessionConfig)
}

// NewS3ContentStore creates a ContentStore against the configured bucket.
func NewS3ContentStore(conf config.ContentStoreConfiguration, logger *zap.Logger) *S3ContentStore {
	sess := NewAWSSession(conf, logger)
	return &S3ContentStore{
		Bucket:     aws.String(conf.Bucket),
		AWSSession: sess,
		S3:         s3.New(sess),
		Logger:     logger,
	}
}

// Upload writes a content blob under the given location key.
func (s *S3ContentStore) Upload(fIn io.ReadSeeker, key string) error {
	uploader := s3manager.NewUploader(s.AWSSession)
	_, err := uploader.Upload(&s3manager.UploadInput{
		Body:   fIn,
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	return err
}

// Download reads a content blob by its location key.
func (s *S3ContentStore) Download(fOut io.WriterAt, key string) (int64, error) {
	downloader := s3manager.NewDownloader(s.AWSSession)
	return downloader.Download(fOut, &s3.GetObjectInput{Bucket: s.Bucket, Key: aws.String(key)})
}

// Test round-trips a small probe object to verify the bucket is reachable
// and writable. Used by the service diagnostic command.
func (s *S3ContentStore) Test() error {
	key := fmt.Sprintf("diagnostics/probe-%d", time.Now().UnixNano())
	payload := []byte("mcf content store probe")
	if err := s.Upload(bytes.NewReader(payload), key); err != nil {
		return fmt.Errorf("cannot write to bucket %s: %v", aws.StringValue(s.Bucket), err)
	}
	buf := aws.NewWriteAtBuffer(make([]byte, 0, len(payload)))
	if _, err := s.Download(buf, key); err != nil {
		return fmt.Errorf("cannot read from bucket %s: %v", aws.StringValue(s.Bucket), err)
	}
	if !bytes.Equal(buf.Bytes(), payload) {
		return fmt.Errorf("probe object corrupted in bucket %s", aws.StringValue(s.Bucket))
	}
	s.S3.DeleteObject(&s3.DeleteObjectInput{Bucket: s.Bucket, Key: aws.String(key)})
	return nil
}
