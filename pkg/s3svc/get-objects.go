package s3svc

import (
	"context"
	"iter"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3tui/pkg/dto"
)

// ListObjects returns the pages of objects and common prefixes directly under prefix.
// Each page is fetched when the previous one has been consumed.
func (s *Service) ListObjects(ctx context.Context, bucket, prefix, delimiter string) iter.Seq2[dto.ListingPage, error] {
	return func(yield func(dto.ListingPage, error) bool) {
		s.log.Debug("ListObjects", slog.String("bucket", bucket), slog.String("prefix", prefix))
		paginator := s3.NewListObjectsV2Paginator(s.awsS3Client, &s3.ListObjectsV2Input{
			Bucket:    aws.String(bucket),
			Prefix:    aws.String(prefix),
			Delimiter: aws.String(delimiter),
		})

		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield(dto.ListingPage{}, classifyAWS("ListObjects", err))
				return
			}

			result := dto.ListingPage{
				ContinuationToken: aws.ToString(page.NextContinuationToken),
			}
			for _, cp := range page.CommonPrefixes {
				result.CommonPrefixes = append(result.CommonPrefixes,
					dto.NewPrefixEntry(aws.ToString(cp.Prefix), prefix))
			}
			for _, obj := range page.Contents {
				key := aws.ToString(obj.Key)
				// the marker object of the listed directory itself
				if key == prefix {
					continue
				}
				result.Objects = append(result.Objects, dto.ObjectEntry{
					Segment:      dto.SegmentOf(key, prefix),
					Key:          key,
					Size:         aws.ToInt64(obj.Size),
					LastModified: aws.ToTime(obj.LastModified),
					ETag:         aws.ToString(obj.ETag),
					StorageClass: string(obj.StorageClass),
				})
			}
			if !yield(result, nil) {
				return
			}
		}
	}
}
