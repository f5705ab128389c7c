// Package lambda wires CloudFormation lifecycle events to the
// certificate resource handlers.
package lambda

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"certificate-validator/internal/acm"
	"certificate-validator/internal/aws"
	"certificate-validator/internal/config"
	"certificate-validator/internal/provider"
	"certificate-validator/internal/resources"
	"certificate-validator/internal/route53"
	"certificate-validator/internal/version"
)

// Options adjusts event processing for local invocations.
type Options struct {
	// DryRun logs the final response instead of delivering it to the
	// ResponseURL.
	DryRun bool
}

// newSender builds the response sender. Overridden in tests to capture
// deliveries.
var newSender = func(cfg config.Config, opts Options, logger *slog.Logger) provider.Sender {
	return provider.NewHTTPSender(cfg.ResponseTimeout, opts.DryRun, logger)
}

// Start runs the Lambda runtime loop.
func Start() {
	lambda.Start(HandleEvent)
}

// HandleEvent processes a single lifecycle event with production wiring.
// It is the function registered with the Lambda runtime.
func HandleEvent(ctx context.Context, event provider.Event) error {
	return Handle(ctx, event, Options{})
}

// Handle processes a single lifecycle event. Every event that reaches
// dispatch produces exactly one delivered response; only a failure to
// load configuration or to deliver the response surfaces as an error.
func Handle(ctx context.Context, event provider.Event, opts Options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(event, cfg)
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With("aws_request_id", lc.AwsRequestID)
	}

	logger.Info("starting certificate-validator",
		"version", version.Version,
		"request_type", string(event.RequestType),
		"resource_type", event.ResourceType,
		"logical_resource_id", event.LogicalResourceID)

	request := provider.NewRequest(event, logger)
	response := provider.NewResponse(request)
	sender := newSender(cfg, opts, logger)
	p := provider.New(request, response, sender, logger)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(request.Region()))
	if err != nil {
		logger.Error("failed to load AWS configuration", "error", err)
		return p.Fail(ctx, aws.WrapAWSError(err, "load AWS configuration").Error())
	}

	handler, err := newHandler(request, response, awsCfg, cfg, logger)
	if err != nil {
		logger.Error("no handler for resource type",
			"resource_type", request.ResourceType(),
			"error", err)
		return p.Fail(ctx, err.Error())
	}

	return p.Execute(ctx, handler)
}

// newHandler resolves the resource handler for the event's type tag.
func newHandler(request *provider.Request, response *provider.Response, awsCfg awssdk.Config, cfg config.Config, logger *slog.Logger) (provider.Handler, error) {
	acmClient := acm.NewClient(awsCfg, logger)

	switch request.ResourceType() {
	case resources.TypeCertificate:
		return resources.NewCertificate(request, response, acmClient, logger), nil
	case resources.TypeCertificateValidator:
		dns := route53.NewManager(dnsConfig(awsCfg, cfg, logger), logger)
		return resources.NewValidator(request, response, acmClient, dns, logger), nil
	default:
		return nil, fmt.Errorf("unknown ResourceType: %s", request.ResourceType())
	}
}

// dnsConfig returns the AWS configuration used for hosted zone changes.
// When a cross-account role is configured the returned configuration
// resolves credentials by assuming that role.
func dnsConfig(awsCfg awssdk.Config, cfg config.Config, logger *slog.Logger) awssdk.Config {
	if cfg.Route53RoleARN == "" {
		return awsCfg
	}

	logger.Info("assuming role for hosted zone changes", "role_arn", cfg.Route53RoleARN)
	stsClient := sts.NewFromConfig(awsCfg)
	awsCfg.Credentials = awssdk.NewCredentialsCache(stscreds.NewAssumeRoleProvider(stsClient, cfg.Route53RoleARN))
	return awsCfg
}

// newLogger builds the per-invocation logger. The level comes from the
// event's LogLevel property when present, otherwise from the environment.
func newLogger(event provider.Event, cfg config.Config) *slog.Logger {
	level := cfg.LogLevel
	if v, ok := event.ResourceProperties["LogLevel"].(string); ok && v != "" {
		level = v
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
