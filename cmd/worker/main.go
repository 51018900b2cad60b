package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"resume-diagnosis/internal/bootstrap"
	"resume-diagnosis/internal/shared/config"
	"resume-diagnosis/internal/shared/metrics"
	"resume-diagnosis/internal/shared/telemetry"
	"resume-diagnosis/internal/workerproc"
)

const (
	defaultRegion             = "us-east-1"
	defaultVisibilitySeconds  = 300
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	queueURL := strings.TrimSpace(os.Getenv("SQS_QUEUE_URL"))
	if queueURL == "" {
		log.Fatal("SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibilitySeconds := envInt("SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	region := strings.TrimSpace(cfg.AWSRegion)
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	// The worker also sweeps expired documents so retention holds even
	// when the API process is down.
	go app.Sweeper.Run(ctx)

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	log.Printf("worker started queue=%s concurrency=%d visibility=%ds", queueURL, concurrency, visibilitySeconds)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("receive message: %v", err)
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, sqsClient, queueURL, app.DiagnosisService, m)
			}(msg)
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func handleMessage(ctx context.Context, client sqsAPI, queueURL string, processor workerproc.Processor, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	err := workerproc.HandleMessage(ctx, processor, body)
	if err == nil {
		decoded, _, _ := workerproc.ParseMessage(body)
		if deleteMessage(ctx, client, queueURL, msg, decoded.DiagnosisID, decoded.RequestID) {
			telemetry.Info("worker.diagnosis.completed", baseFields(msg, decoded.DiagnosisID, decoded.RequestID))
			metrics.IncDiagnosisJobsCompleted()
		}
		return
	}

	// Malformed payloads never become valid on redelivery; delete them so
	// they do not cycle through the queue until expiry.
	var empty workerproc.ErrEmptyBody
	var decode workerproc.ErrDecode
	var missing workerproc.ErrMissingDiagnosisID
	switch {
	case errors.As(err, &empty):
		fields := baseFields(msg, "", "")
		fields["body_len"] = 0
		telemetry.Error("worker.diagnosis.empty_body", fields)
		if deleteMessage(ctx, client, queueURL, msg, "", "") {
			metrics.IncDiagnosisJobsDeletedUnrecoverable()
		}
	case errors.As(err, &decode):
		fields := baseFields(msg, "", "")
		fields["body_len"] = decode.Meta.BodyLen
		fields["body_sha256"] = decode.Meta.BodySHA
		fields["error"] = decode.Error()
		telemetry.Error("worker.diagnosis.decode_failed", fields)
		if deleteMessage(ctx, client, queueURL, msg, "", "") {
			metrics.IncDiagnosisJobsDeletedUnrecoverable()
		}
	case errors.As(err, &missing):
		fields := baseFields(msg, "", missing.RequestID)
		fields["body_len"] = missing.Meta.BodyLen
		fields["body_sha256"] = missing.Meta.BodySHA
		telemetry.Error("worker.diagnosis.missing_id", fields)
		if deleteMessage(ctx, client, queueURL, msg, "", missing.RequestID) {
			metrics.IncDiagnosisJobsDeletedUnrecoverable()
		}
	default:
		fields := baseFields(msg, "", "")
		fields["error"] = err.Error()
		telemetry.Error("worker.diagnosis.failed", fields)
		metrics.IncDiagnosisJobsFailed()
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, diagnosisID, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, diagnosisID, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.diagnosis.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, diagnosisID, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.diagnosis.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, diagnosisID, requestID string) map[string]any {
	fields := map[string]any{
		"diagnosis_id":   diagnosisID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
