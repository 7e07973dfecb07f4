package aws

import (
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client creates a new S3 client from AWS config. Path style addressing
// is forced when a custom endpoint is configured since LocalStack does not
// serve virtual-host buckets.
func NewS3Client(cfg sdkaws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if CustomEndpoint() != "" {
			o.UsePathStyle = true
		}
	})
}
