package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"certificate-validator/internal/acm"
	"certificate-validator/internal/lambda"
	"certificate-validator/internal/provider"
	"certificate-validator/internal/resources"
	"certificate-validator/internal/route53"
	"certificate-validator/internal/version"
)

func main() {
	// Check if running in Lambda environment
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		// Running in Lambda - start the runtime loop immediately
		lambda.Start()
		return
	}

	// Check for subcommands
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]

	switch subcommand {
	case "handle":
		handleEventCommand()
	case "records":
		handleRecordsCommand()
	case "version":
		showVersion()
	case "help", "--help", "-h":
		showUsage()
	default:
		fmt.Printf("Unknown command: %s\n", subcommand)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Printf("Certificate Validator\n\n")
	fmt.Printf("USAGE:\n")
	fmt.Printf("  certificate-validator <command> [options]\n\n")
	fmt.Printf("COMMANDS:\n")
	fmt.Printf("  handle                Process a lifecycle event from a JSON file\n")
	fmt.Printf("  records               Show DNS validation records for a certificate\n")
	fmt.Printf("  version               Show version information\n")
	fmt.Printf("  help                  Show this help message\n\n")
	fmt.Printf("Use 'certificate-validator <command> --help' for command-specific help.\n")
}

func showVersion() {
	fmt.Printf("Certificate Validator\n")
	fmt.Printf("Version: %s\n", version.Version)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Printf("Git Commit: %s\n", version.GitCommit)
}

func handleEventCommand() {
	fs := flag.NewFlagSet("handle", flag.ExitOnError)

	eventFile := fs.String("event", "", "Path to a lifecycle event JSON file")
	dryRun := fs.Bool("dry-run", false, "Log the response instead of delivering it")

	fs.Parse(os.Args[2:])

	if *eventFile == "" {
		fmt.Printf("handle command usage:\n")
		fmt.Printf("  --event string   Path to a lifecycle event JSON file\n")
		fmt.Printf("  --dry-run        Log the response instead of delivering it\n")
		return
	}

	data, err := os.ReadFile(*eventFile)
	if err != nil {
		log.Fatalf("Failed to read event file: %v", err)
	}

	var event provider.Event
	if err := json.Unmarshal(data, &event); err != nil {
		log.Fatalf("Failed to parse event file as JSON: %v", err)
	}

	if err := lambda.Handle(context.Background(), event, lambda.Options{DryRun: *dryRun}); err != nil {
		log.Fatalf("Failed to process event: %v", err)
	}

	fmt.Printf("Processed %s event for %s\n", event.RequestType, event.ResourceType)
}

func handleRecordsCommand() {
	fs := flag.NewFlagSet("records", flag.ExitOnError)

	certificateARN := fs.String("certificate-arn", "", "ARN of the certificate to inspect")
	region := fs.String("region", provider.DefaultRegion, "AWS region of the certificate")

	fs.Parse(os.Args[2:])

	if *certificateARN == "" {
		fmt.Printf("records command usage:\n")
		fmt.Printf("  --certificate-arn string  ARN of the certificate to inspect\n")
		fmt.Printf("  --region string           AWS region of the certificate (default: %s)\n", provider.DefaultRegion)
		return
	}

	// Keep client logging out of the report output
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(*region))
	if err != nil {
		log.Fatalf("Failed to load AWS configuration: %v", err)
	}

	detail, err := acm.NewClient(awsCfg, logger).DescribeCertificate(context.Background(), *certificateARN)
	if err != nil {
		log.Fatalf("Failed to describe certificate: %v", err)
	}

	dns := route53.NewManager(awsCfg, logger)

	fmt.Printf("Certificate: %s\n", awssdk.ToString(detail.CertificateArn))
	fmt.Printf("Status: %s\n\n", detail.Status)

	for _, option := range detail.DomainValidationOptions {
		domainName := awssdk.ToString(option.DomainName)
		fmt.Printf("Domain: %s\n", domainName)

		zoneID, err := dns.HostedZoneID(context.Background(), resources.ApexDomain(domainName))
		if err != nil {
			fmt.Printf("  Hosted zone: (lookup failed: %v)\n", err)
		} else {
			fmt.Printf("  Hosted zone: %s\n", zoneID)
		}

		record := option.ResourceRecord
		if record == nil {
			fmt.Printf("  Validation record: (not yet available)\n\n")
			continue
		}

		fmt.Printf("  Validation record: %s %s %s\n\n",
			awssdk.ToString(record.Name), record.Type, awssdk.ToString(record.Value))
	}
}
