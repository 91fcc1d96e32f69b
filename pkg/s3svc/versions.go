package s3svc

import (
	"cmp"
	"context"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3tui/pkg/dto"
)

// ListVersions returns the versions and delete markers of key, newest first.
// Unversioned buckets return a single version with the "null" id.
func (s *Service) ListVersions(ctx context.Context, bucket, key string) ([]dto.VersionEntry, error) {
	versions := []dto.VersionEntry{}
	paginator := s3.NewListObjectVersionsPaginator(s.awsS3Client, &s3.ListObjectVersionsInput{
		Bucket: aws.String(bucket),
		Prefix: aws.String(key),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyAWS("ListVersions", err)
		}
		for _, v := range page.Versions {
			// the prefix also matches longer keys
			if aws.ToString(v.Key) != key {
				continue
			}
			versions = append(versions, dto.VersionEntry{
				VersionID:    aws.ToString(v.VersionId),
				Size:         aws.ToInt64(v.Size),
				LastModified: aws.ToTime(v.LastModified),
				ETag:         aws.ToString(v.ETag),
				IsLatest:     aws.ToBool(v.IsLatest),
			})
		}
		for _, m := range page.DeleteMarkers {
			if aws.ToString(m.Key) != key {
				continue
			}
			versions = append(versions, dto.VersionEntry{
				VersionID:      aws.ToString(m.VersionId),
				LastModified:   aws.ToTime(m.LastModified),
				IsLatest:       aws.ToBool(m.IsLatest),
				IsDeleteMarker: true,
			})
		}
	}

	sortVersions(versions)
	return versions, nil
}

func sortVersions(versions []dto.VersionEntry) {
	slices.SortStableFunc(versions, func(a, b dto.VersionEntry) int {
		return cmp.Compare(b.LastModified.UnixNano(), a.LastModified.UnixNano())
	})
}
