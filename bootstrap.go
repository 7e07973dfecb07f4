package main

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/bhataakib02/retail-app/common/logger"
	"github.com/bhataakib02/retail-app/database"
	"github.com/bhataakib02/retail-app/events"
	awspkg "github.com/bhataakib02/retail-app/pkg/aws"
	"github.com/bhataakib02/retail-app/session"
	"github.com/bhataakib02/retail-app/storage"
	"go.uber.org/zap"
)

// initLogger builds the process logger. With CloudWatch enabled every line
// is also shipped to the configured log group; the returned func flushes it.
func initLogger(ctx context.Context, cfg *Config, awsCfg *sdkaws.Config) (*zap.Logger, func(), error) {
	if !cfg.CloudWatchEnabled || awsCfg == nil {
		log, err := logger.Initialize(cfg.Env)
		return log, func() {}, err
	}
	cw, cwErr := awspkg.NewCloudWatchLogsClient(ctx, *awsCfg, cfg.CloudWatchLogGroup, serviceName)
	if cwErr != nil {
		log, err := logger.Initialize(cfg.Env)
		if err != nil {
			return nil, nil, err
		}
		log.Warn("CloudWatch logging disabled", zap.Error(cwErr))
		return log, func() {}, nil
	}
	log, err := logger.InitializeWithWriter(cfg.Env, cw)
	if err != nil {
		_ = cw.Close()
		return nil, nil, err
	}
	return log, func() { _ = cw.Close() }, nil
}

// newSessionStore uses Redis when REDIS_URL is set and falls back to
// process memory otherwise.
func newSessionStore(ctx context.Context, cfg *Config, log *zap.Logger) (session.Store, func()) {
	if cfg.RedisURL == "" {
		log.Info("Using in-memory session store")
		return session.NewMemoryStore(), func() {}
	}
	client, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Using Redis session store")
	return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }
}

// newImageStore picks S3 when a bucket is configured, the upload folder
// otherwise.
func newImageStore(cfg *Config, awsCfg *sdkaws.Config) (storage.ImageStore, error) {
	if cfg.S3BucketImages != "" && awsCfg != nil {
		return storage.NewS3Store(awspkg.NewS3Client(*awsCfg), cfg.S3BucketImages, cfg.S3ImagePrefix), nil
	}
	return storage.NewLocalStore(cfg.UploadFolder)
}

// newPublisher fans order events out to SNS and Kafka when either is
// configured.
func newPublisher(cfg *Config, awsCfg *sdkaws.Config, log *zap.Logger) (events.Publisher, func()) {
	var (
		pubs    events.MultiPublisher
		closers []func()
	)
	if cfg.OrderSNSTopic != "" && awsCfg != nil {
		pubs = append(pubs, events.NewSNSPublisher(awspkg.NewSNSClient(*awsCfg), cfg.OrderSNSTopic))
		log.Info("Publishing order events to SNS", zap.String("topic", cfg.OrderSNSTopic))
	}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.OrderEventTopic))
		pubs = append(pubs, kp)
		closers = append(closers, func() {
			if err := kp.Close(); err != nil {
				log.Warn("Failed to close Kafka writer", zap.Error(err))
			}
		})
		log.Info("Publishing order events to Kafka", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	if len(pubs) == 0 {
		return events.NopPublisher{}, closeAll
	}
	return pubs, closeAll
}
