package refdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// FetchArtifacts downloads the three reference artifacts from the training
// pipeline's S3 bucket into destDir, overwriting any stale local copies.
// Called at startup before Load when a bucket is configured; a failed fetch
// is fatal for the same reason a malformed artifact is.
func FetchArtifacts(ctx context.Context, bucket, prefix, destDir string, log zerolog.Logger) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create artifacts dir: %w", err)
	}

	downloader := manager.NewDownloader(s3.NewFromConfig(cfg))

	for _, name := range []string{ScalerFile, CentroidFile, PersonaFile} {
		key := name
		if prefix != "" {
			key = prefix + "/" + name
		}

		f, err := os.Create(filepath.Join(destDir, name))
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}

		n, err := downloader.Download(ctx, f, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("download s3://%s/%s: %w", bucket, key, err)
		}
		if closeErr != nil {
			return fmt.Errorf("write %s: %w", name, closeErr)
		}

		log.Info().Str("artifact", name).Int64("bytes", n).Msg("Downloaded reference artifact")
	}

	return nil
}
