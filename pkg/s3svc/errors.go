package s3svc

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
)

var notFoundCodes = map[string]bool{
	"NoSuchKey":     true,
	"NoSuchBucket":  true,
	"NoSuchVersion": true,
	"NotFound":      true,
}

// classifyAWS maps an AWS SDK error to ErrNotFound or ErrGatewayUnavailable.
// Context errors are returned wrapped but unclassified.
func classifyAWS(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var nsk *types.NoSuchKey
	var nf *types.NotFound
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsk) || errors.As(err, &nf) || errors.As(err, &nsb) {
		return wrap(op, ErrNotFound, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && notFoundCodes[apiErr.ErrorCode()] {
		return wrap(op, ErrNotFound, err)
	}
	return wrap(op, ErrGatewayUnavailable, err)
}

// classifyMinio does the same for minio-go errors.
func classifyMinio(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if notFoundCodes[minio.ToErrorResponse(err).Code] {
		return wrap(op, ErrNotFound, err)
	}
	return wrap(op, ErrGatewayUnavailable, err)
}
