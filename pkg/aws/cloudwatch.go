package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

const (
	defaultLogGroup   = "/retail-app/services"
	logRetentionDays  = 30
	logFlushInterval  = 2 * time.Second
	maxBufferedEvents = 500
)

// LogsAPI is the slice of the CloudWatch Logs client used here.
type LogsAPI interface {
	CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	PutRetentionPolicy(ctx context.Context, params *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
	CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// CloudWatchLogsClient is an io.Writer that buffers log lines and ships
// them to a per-process log stream in batches. Close flushes what is left.
type CloudWatchLogsClient struct {
	api    LogsAPI
	group  string
	stream string

	mu      sync.Mutex
	pending []types.InputLogEvent

	flushNow chan struct{}
	done     chan struct{}
	closed   sync.Once
	wg       sync.WaitGroup
}

func NewCloudWatchLogsClient(ctx context.Context, cfg sdkaws.Config, logGroupName, serviceName string) (*CloudWatchLogsClient, error) {
	return newLogsClient(ctx, cloudwatchlogs.NewFromConfig(cfg), logGroupName, serviceName, logFlushInterval)
}

func newLogsClient(ctx context.Context, api LogsAPI, group, service string, every time.Duration) (*CloudWatchLogsClient, error) {
	if group == "" {
		group = defaultLogGroup
	}
	host, _ := os.Hostname()
	c := &CloudWatchLogsClient{
		api:      api,
		group:    group,
		stream:   fmt.Sprintf("%s/%s/%d", service, host, time.Now().Unix()),
		flushNow: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	if err := c.setup(ctx); err != nil {
		return nil, err
	}
	c.wg.Add(1)
	go c.loop(every)
	return c, nil
}

func (c *CloudWatchLogsClient) setup(ctx context.Context) error {
	_, err := c.api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{LogGroupName: sdkaws.String(c.group)})
	var exists *types.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return fmt.Errorf("create log group %s: %w", c.group, err)
	}
	if _, err := c.api.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    sdkaws.String(c.group),
		RetentionInDays: sdkaws.Int32(logRetentionDays),
	}); err != nil {
		return fmt.Errorf("set retention on %s: %w", c.group, err)
	}
	if _, err := c.api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  sdkaws.String(c.group),
		LogStreamName: sdkaws.String(c.stream),
	}); err != nil {
		return fmt.Errorf("create log stream %s: %w", c.stream, err)
	}
	return nil
}

// Write queues one log line. It never fails the caller.
func (c *CloudWatchLogsClient) Write(p []byte) (int, error) {
	event := types.InputLogEvent{
		Message:   sdkaws.String(string(p)),
		Timestamp: sdkaws.Int64(time.Now().UnixMilli()),
	}

	c.mu.Lock()
	c.pending = append(c.pending, event)
	full := len(c.pending) >= maxBufferedEvents
	c.mu.Unlock()

	if full {
		select {
		case c.flushNow <- struct{}{}:
		default:
		}
	}
	return len(p), nil
}

func (c *CloudWatchLogsClient) loop(every time.Duration) {
	defer c.wg.Done()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
		case <-c.flushNow:
		case <-c.done:
			c.flush()
			return
		}
		c.flush()
	}
}

func (c *CloudWatchLogsClient) flush() {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := c.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  sdkaws.String(c.group),
		LogStreamName: sdkaws.String(c.stream),
		LogEvents:     batch,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cloudwatch logs: dropped %d events: %v\n", len(batch), err)
	}
}

// Sync satisfies zapcore.WriteSyncer.
func (c *CloudWatchLogsClient) Sync() error {
	c.flush()
	return nil
}

// Close stops the background loop after a final flush.
func (c *CloudWatchLogsClient) Close() error {
	c.closed.Do(func() { close(c.done) })
	c.wg.Wait()
	return nil
}
