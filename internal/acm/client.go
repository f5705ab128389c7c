// Package acm wraps the AWS Certificate Manager operations used by the
// certificate and validator resources.
package acm

import (
	"context"
	"log/slog"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/acm"
	"github.com/aws/aws-sdk-go-v2/service/acm/types"
)

const (
	// issuedWaitDelay is the fixed interval between issuance checks.
	issuedWaitDelay = 5 * time.Second
	// issuedWaitTimeout bounds the wait for issuance (60 checks).
	issuedWaitTimeout = 300 * time.Second
)

// API is the subset of the ACM SDK client the wrapper depends on.
type API interface {
	RequestCertificate(ctx context.Context, params *acm.RequestCertificateInput, optFns ...func(*acm.Options)) (*acm.RequestCertificateOutput, error)
	DeleteCertificate(ctx context.Context, params *acm.DeleteCertificateInput, optFns ...func(*acm.Options)) (*acm.DeleteCertificateOutput, error)
	DescribeCertificate(ctx context.Context, params *acm.DescribeCertificateInput, optFns ...func(*acm.Options)) (*acm.DescribeCertificateOutput, error)
}

// Client requests, inspects, and deletes ACM certificates. Errors are
// returned as the SDK produced them so callers can classify them by code.
type Client struct {
	api    API
	waiter *acm.CertificateValidatedWaiter
	logger *slog.Logger
}

// NewClient creates a new Client for the given region.
func NewClient(cfg awssdk.Config, logger *slog.Logger) *Client {
	return newClient(acm.NewFromConfig(cfg), logger)
}

func newClient(api API, logger *slog.Logger) *Client {
	return &Client{
		api: api,
		waiter: acm.NewCertificateValidatedWaiter(api, func(o *acm.CertificateValidatedWaiterOptions) {
			o.MinDelay = issuedWaitDelay
			o.MaxDelay = issuedWaitDelay
		}),
		logger: logger,
	}
}

// RequestCertificate requests a DNS-validated public certificate and
// returns its ARN. Alternative names are only sent when present.
func (c *Client) RequestCertificate(ctx context.Context, domainName string, subjectAlternativeNames []string) (string, error) {
	input := &acm.RequestCertificateInput{
		DomainName:       awssdk.String(domainName),
		ValidationMethod: types.ValidationMethodDns,
	}
	if len(subjectAlternativeNames) > 0 {
		input.SubjectAlternativeNames = subjectAlternativeNames
	}

	output, err := c.api.RequestCertificate(ctx, input)
	if err != nil {
		return "", err
	}

	arn := awssdk.ToString(output.CertificateArn)
	c.logger.Info("certificate requested", "certificate_arn", arn)
	return arn, nil
}

// DeleteCertificate deletes a certificate and its private key.
func (c *Client) DeleteCertificate(ctx context.Context, certificateARN string) error {
	_, err := c.api.DeleteCertificate(ctx, &acm.DeleteCertificateInput{
		CertificateArn: awssdk.String(certificateARN),
	})
	if err != nil {
		return err
	}

	c.logger.Info("certificate deleted", "certificate_arn", certificateARN)
	return nil
}

// DescribeCertificate retrieves the metadata of a certificate, including
// its domain validation options.
func (c *Client) DescribeCertificate(ctx context.Context, certificateARN string) (*types.CertificateDetail, error) {
	output, err := c.api.DescribeCertificate(ctx, &acm.DescribeCertificateInput{
		CertificateArn: awssdk.String(certificateARN),
	})
	if err != nil {
		return nil, err
	}
	return output.Certificate, nil
}

// WaitUntilIssued blocks until ACM reports the certificate validated,
// checking every 5 seconds for up to 5 minutes.
func (c *Client) WaitUntilIssued(ctx context.Context, certificateARN string) error {
	c.logger.Info("waiting for certificate to be issued", "certificate_arn", certificateARN)
	return c.waiter.Wait(ctx, &acm.DescribeCertificateInput{
		CertificateArn: awssdk.String(certificateARN),
	}, issuedWaitTimeout)
}
