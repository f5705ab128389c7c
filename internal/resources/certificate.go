// Package resources implements the Custom::Certificate and
// Custom::CertificateValidator resource handlers.
package resources

import (
	"context"
	"log/slog"
	"strings"

	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"

	"certificate-validator/internal/aws"
	"certificate-validator/internal/provider"
)

// Resource type tags served by this provider.
const (
	TypeCertificate          = "Custom::Certificate"
	TypeCertificateValidator = "Custom::CertificateValidator"
)

// CertificateAPI is the certificate-authority surface the resource handlers
// consume.
type CertificateAPI interface {
	RequestCertificate(ctx context.Context, domainName string, subjectAlternativeNames []string) (string, error)
	DeleteCertificate(ctx context.Context, certificateARN string) error
	DescribeCertificate(ctx context.Context, certificateARN string) (*acmtypes.CertificateDetail, error)
	WaitUntilIssued(ctx context.Context, certificateARN string) error
}

// Certificate handles lifecycle events for Custom::Certificate resources.
// It reports success once the certificate is requested, not once it is
// validated; pairing it with a Custom::CertificateValidator covers the
// validation half.
type Certificate struct {
	request  *provider.Request
	response *provider.Response
	acm      CertificateAPI
	logger   *slog.Logger
}

// NewCertificate creates the handler for a Custom::Certificate event.
func NewCertificate(request *provider.Request, response *provider.Response, acmClient CertificateAPI, logger *slog.Logger) *Certificate {
	return &Certificate{
		request:  request,
		response: response,
		acm:      acmClient,
		logger:   logger,
	}
}

// Create requests a DNS-validated certificate for the configured domain
// and alternative names. The returned ARN becomes the physical resource
// identifier: an update that issues a new certificate changes the ARN,
// which CloudFormation detects as a replacement.
func (c *Certificate) Create(ctx context.Context) error {
	properties := c.request.Properties()
	c.logger.Info("requesting certificate",
		"domain_name", properties.DomainName,
		"subject_alternative_names", strings.Join(properties.SubjectAlternativeNames, ", "))

	arn, err := c.acm.RequestCertificate(ctx, properties.DomainName, properties.SubjectAlternativeNames)
	if err != nil {
		c.response.SetStatus(false)
		c.response.SetReason(err.Error())
		return nil
	}

	c.response.SetStatus(true)
	c.response.SetPhysicalResourceID(arn)
	c.response.SetData(map[string]any{"CertificateArn": arn})
	return nil
}

// Update requests a brand-new certificate; the ARN change drives the
// replacement of the old one upstream.
func (c *Certificate) Update(ctx context.Context) error {
	return c.Create(ctx)
}

// Delete removes the certificate identified by the physical resource
// identifier. Deleting a certificate that never existed or is already gone
// counts as success.
func (c *Certificate) Delete(ctx context.Context) error {
	certificateARN := c.request.PhysicalResourceID()
	if certificateARN == "" {
		c.response.SetStatus(true)
		c.response.SetReason("Certificate does not exist.")
		return nil
	}
	if !IsValidCertificateARN(certificateARN) {
		c.response.SetStatus(false)
		c.response.SetReason("Certificate ARN is invalid.")
		return nil
	}

	if err := c.acm.DeleteCertificate(ctx, certificateARN); err != nil {
		if aws.GetAWSErrorCode(err) == "ResourceNotFoundException" {
			c.response.SetStatus(true)
			c.response.SetReason("Certificate not found.")
			return nil
		}
		c.response.SetStatus(false)
		c.response.SetReason(err.Error())
		return nil
	}

	c.response.SetStatus(true)
	return nil
}
