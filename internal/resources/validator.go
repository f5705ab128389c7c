package resources

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/google/uuid"

	"certificate-validator/internal/aws"
	"certificate-validator/internal/provider"
)

const (
	// validationRecordTTL is the TTL of the CNAME records ACM checks.
	validationRecordTTL = 300

	// recordPollInterval and recordPollTimeout bound the wait for ACM to
	// publish the validation requirements of a fresh certificate.
	recordPollInterval = 5 * time.Second
	recordPollTimeout  = 60 * time.Second
)

// DNSAPI is the DNS-provider surface the validator consumes.
type DNSAPI interface {
	HostedZoneID(ctx context.Context, domainName string) (string, error)
	ChangeResourceRecordSets(ctx context.Context, hostedZoneID string, changeBatch *r53types.ChangeBatch) error
}

// Validator handles lifecycle events for Custom::CertificateValidator
// resources. It publishes the DNS records ACM requires to prove domain
// ownership and removes them again when the resource is deleted.
type Validator struct {
	request  *provider.Request
	response *provider.Response
	acm      CertificateAPI
	dns      DNSAPI
	logger   *slog.Logger
}

// NewValidator creates the handler for a Custom::CertificateValidator
// event.
func NewValidator(request *provider.Request, response *provider.Response, acmClient CertificateAPI, dns DNSAPI, logger *slog.Logger) *Validator {
	return &Validator{
		request:  request,
		response: response,
		acm:      acmClient,
		dns:      dns,
		logger:   logger,
	}
}

// Create publishes the validation records for the certificate and blocks
// until ACM reports it issued. The physical identifier is generated first
// so the response carries identity even when a later step fails.
func (v *Validator) Create(ctx context.Context) error {
	v.response.SetPhysicalResourceID(uuid.NewString())

	certificateARN := v.request.Properties().CertificateArn
	if err := v.changeResourceRecordSets(ctx, certificateARN, r53types.ChangeActionUpsert); err != nil {
		return err
	}
	if v.response.Status == provider.StatusFailed {
		return nil
	}
	return v.acm.WaitUntilIssued(ctx, certificateARN)
}

// Update deletes the validation records of the old certificate and
// publishes those of the new one, always both and in that order. When the
// ARNs are identical the sequence is a no-op at the DNS layer.
func (v *Validator) Update(ctx context.Context) error {
	if err := v.changeResourceRecordSets(ctx, v.request.OldProperties().CertificateArn, r53types.ChangeActionDelete); err != nil {
		return err
	}
	return v.changeResourceRecordSets(ctx, v.request.Properties().CertificateArn, r53types.ChangeActionUpsert)
}

// Delete removes the validation records of the certificate.
func (v *Validator) Delete(ctx context.Context) error {
	return v.changeResourceRecordSets(ctx, v.request.Properties().CertificateArn, r53types.ChangeActionDelete)
}

// changeResourceRecordSets applies one action to every validation record of
// the certificate: it waits for the validation requirements to be
// published, resolves the hosted zone owning each validation domain, and
// submits one change batch per record. The first error aborts the
// remaining records.
func (v *Validator) changeResourceRecordSets(ctx context.Context, certificateARN string, action r53types.ChangeAction) error {
	if !IsValidCertificateARN(certificateARN) {
		v.response.SetStatus(false)
		v.response.SetReason("Certificate ARN is invalid.")
		return nil
	}

	options, err := v.domainValidationOptions(ctx, certificateARN)
	if err != nil {
		return v.classifyChangeError(err)
	}

	for _, option := range options {
		apex := ApexDomain(awssdk.ToString(option.DomainName))
		zoneID, err := v.dns.HostedZoneID(ctx, apex)
		if err != nil {
			return v.classifyChangeError(err)
		}

		record := option.ResourceRecord
		v.logger.Info("changing validation record",
			"action", action,
			"record_name", awssdk.ToString(record.Name),
			"zone_id", zoneID)

		if err := v.dns.ChangeResourceRecordSets(ctx, zoneID, validationChangeBatch(action, record)); err != nil {
			return v.classifyChangeError(err)
		}
	}

	v.response.SetStatus(true)
	return nil
}

// domainValidationOptions polls DescribeCertificate until every domain has
// its validation record published. There is a latency window between
// certificate creation and the records becoming available.
func (v *Validator) domainValidationOptions(ctx context.Context, certificateARN string) ([]acmtypes.DomainValidation, error) {
	var options []acmtypes.DomainValidation
	err := aws.Poll(ctx, recordPollInterval, recordPollTimeout, func(ctx context.Context) (bool, error) {
		certificate, err := v.acm.DescribeCertificate(ctx, certificateARN)
		if err != nil {
			return false, err
		}
		options = certificate.DomainValidationOptions
		return resourceRecordsReady(options), nil
	})
	if err != nil {
		return nil, err
	}
	return options, nil
}

func resourceRecordsReady(options []acmtypes.DomainValidation) bool {
	for _, option := range options {
		if option.ResourceRecord == nil {
			return false
		}
	}
	return true
}

// classifyChangeError translates error codes that mean the target resource
// is already gone into a successful, idempotent outcome. Errors carrying no
// AWS code are returned for the dispatcher to convert.
func (v *Validator) classifyChangeError(err error) error {
	var invalidBatch *r53types.InvalidChangeBatch
	if errors.As(err, &invalidBatch) {
		if strings.Contains(invalidChangeBatchMessage(invalidBatch), "not found") {
			v.response.SetStatus(true)
			v.response.SetReason("Resource Record Set not found.")
			return nil
		}
		v.response.SetStatus(false)
		v.response.SetReason(err.Error())
		return nil
	}

	switch aws.GetAWSErrorCode(err) {
	case "ResourceNotFoundException":
		v.response.SetStatus(true)
		v.response.SetReason("Certificate not found.")
		return nil
	case "":
		return err
	default:
		v.response.SetStatus(false)
		v.response.SetReason(err.Error())
		return nil
	}
}

// invalidChangeBatchMessage flattens the messages of an InvalidChangeBatch
// error, which reports per-change failures in a list separate from the
// usual error message.
func invalidChangeBatchMessage(err *r53types.InvalidChangeBatch) string {
	parts := make([]string, 0, len(err.Messages)+1)
	if msg := awssdk.ToString(err.Message); msg != "" {
		parts = append(parts, msg)
	}
	parts = append(parts, err.Messages...)
	return strings.Join(parts, "; ")
}

// validationChangeBatch builds the single-change batch for one validation
// record.
func validationChangeBatch(action r53types.ChangeAction, record *acmtypes.ResourceRecord) *r53types.ChangeBatch {
	return &r53types.ChangeBatch{
		Changes: []r53types.Change{
			{
				Action: action,
				ResourceRecordSet: &r53types.ResourceRecordSet{
					Name: record.Name,
					Type: r53types.RRType(record.Type),
					TTL:  awssdk.Int64(validationRecordTTL),
					ResourceRecords: []r53types.ResourceRecord{
						{Value: record.Value},
					},
				},
			},
		},
	}
}
