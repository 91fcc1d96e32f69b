package s3svc

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3tui/pkg/dto"
)

// ListBuckets returns a list of all S3 buckets accessible with the current credentials.
// When a bucket is configured, only that bucket is returned and no request is made.
func (s *Service) ListBuckets(ctx context.Context) ([]dto.BucketEntry, error) {
	if s.cfg.Bucket != "" {
		return []dto.BucketEntry{{Name: s.cfg.Bucket}}, nil
	}
	s.log.Debug("Listing buckets")

	buckets := []dto.BucketEntry{}
	paginator := s3.NewListBucketsPaginator(s.awsS3Client, &s3.ListBucketsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.log.Error("Failed to list buckets", slog.String("error", err.Error()))
			return nil, classifyAWS("ListBuckets", err)
		}
		for _, bucket := range page.Buckets {
			buckets = append(buckets, dto.BucketEntry{
				Name:         aws.ToString(bucket.Name),
				CreationDate: aws.ToTime(bucket.CreationDate),
			})
		}
	}

	s.log.Debug("Listed buckets", slog.Int("count", len(buckets)))
	return buckets, nil
}
