package s3svc

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3tui/pkg/dto"
)

// HeadObject returns the metadata of an object (of a given version when version is not empty).
func (s *Service) HeadObject(ctx context.Context, bucket, key, version string) (dto.ObjectDetail, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if version != "" {
		input.VersionId = aws.String(version)
	}
	o, err := s.awsS3Client.HeadObject(ctx, input)
	if err != nil {
		s.log.Debug("HeadObject failed", slog.String("key", key), slog.String("error", err.Error()))
		return dto.ObjectDetail{}, classifyAWS("HeadObject", err)
	}

	storageClass := string(o.StorageClass)
	if storageClass == "" {
		storageClass = "STANDARD"
	}
	return dto.ObjectDetail{
		Bucket:       bucket,
		Key:          key,
		Name:         dto.BaseName(key),
		Size:         aws.ToInt64(o.ContentLength),
		LastModified: aws.ToTime(o.LastModified),
		ETag:         aws.ToString(o.ETag),
		ContentType:  aws.ToString(o.ContentType),
		StorageClass: storageClass,
		VersionID:    aws.ToString(o.VersionId),
		Metadata:     o.Metadata,
	}, nil
}

// GetObject streams the content of an object.
func (s *Service) GetObject(ctx context.Context, bucket, key, version string) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if version != "" {
		input.VersionId = aws.String(version)
	}
	o, err := s.awsS3Client.GetObject(ctx, input)
	if err != nil {
		s.log.Debug("GetObject failed", slog.String("key", key), slog.String("error", err.Error()))
		return nil, classifyAWS("GetObject", err)
	}
	return o.Body, nil
}
