package services

import (
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	UploadsBucket   = "uploads"
	DocumentsBucket = "documents"
)

type StorageService interface {
	Upload(bucket, key string, body io.ReadSeeker, contentType string) (string, error)
	Download(bucket, key string) (io.ReadCloser, error)
	Delete(bucket, key string) error
}

type s3StorageService struct {
	client *s3.S3
	region string
	prefix string
}

func NewS3StorageService() (StorageService, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "eu-north-1"
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &s3StorageService{
		client: s3.New(sess),
		region: region,
		prefix: os.Getenv("S3_BUCKET_PREFIX"),
	}, nil
}

func (s *s3StorageService) bucketName(bucket string) string {
	if s.prefix == "" {
		return bucket
	}
	return s.prefix + "-" + bucket
}

func (s *s3StorageService) Upload(bucket, key string, body io.ReadSeeker, contentType string) (string, error) {
	name := s.bucketName(bucket)

	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(name),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", name, s.region, key)
	return url, nil
}

func (s *s3StorageService) Download(bucket, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName(bucket)),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

func (s *s3StorageService) Delete(bucket, key string) error {
	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName(bucket)),
		Key:    aws.String(key),
	})
	return err
}
