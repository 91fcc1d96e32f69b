package s3svc

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sgaunet/s3tui/pkg/config"
)

// ErrNoConsole is returned by ConsoleURL for custom endpoints.
var ErrNoConsole = errors.New("management console is only available for AWS S3")

const consoleBase = "https://s3.console.aws.amazon.com/s3"

// ConsoleURL returns the AWS management console page of a bucket (empty
// prefix and key), a prefix (empty key) or an object.
func ConsoleURL(cfg config.S3Config, bucket, prefix, key string) (string, error) {
	if cfg.Endpoint != "" {
		return "", ErrNoConsole
	}
	if bucket == "" {
		return consoleBase + "/buckets", nil
	}

	q := url.Values{}
	if cfg.Region != "" {
		q.Set("region", cfg.Region)
	}
	if key != "" {
		q.Set("prefix", key)
		return fmt.Sprintf("%s/object/%s?%s", consoleBase, url.PathEscape(bucket), q.Encode()), nil
	}
	if prefix != "" {
		q.Set("prefix", prefix)
		q.Set("showversions", "false")
	}
	u := fmt.Sprintf("%s/buckets/%s", consoleBase, url.PathEscape(bucket))
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u, nil
}

// ObjectURI returns the s3:// URI of a key.
func ObjectURI(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}

// ObjectARN returns the ARN of a key.
func ObjectARN(bucket, key string) string {
	return "arn:aws:s3:::" + bucket + "/" + key
}

// ObjectURL returns the URL of a key: path style under a custom endpoint,
// virtual-hosted style on AWS.
func ObjectURL(cfg config.S3Config, bucket, key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), bucket, escaped)
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, escaped)
}
