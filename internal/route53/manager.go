package route53

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// API is the subset of the Route 53 SDK client the manager depends on.
type API interface {
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
	ListHostedZonesByName(ctx context.Context, params *route53.ListHostedZonesByNameInput, optFns ...func(*route53.Options)) (*route53.ListHostedZonesByNameOutput, error)
}

// Manager resolves hosted zones and submits record changes to Route53.
// SDK errors are returned unwrapped so callers can classify them by code.
type Manager struct {
	client API
	logger *slog.Logger
}

// NewManager creates a new Manager.
func NewManager(cfg awssdk.Config, logger *slog.Logger) *Manager {
	return &Manager{
		client: route53.NewFromConfig(cfg),
		logger: logger,
	}
}

// HostedZoneID resolves a domain name to the ID of the hosted zone nearest
// to it in lexicographic order.
func (m *Manager) HostedZoneID(ctx context.Context, domainName string) (string, error) {
	m.logger.Debug("resolving hosted zone", "domain_name", domainName)

	output, err := m.client.ListHostedZonesByName(ctx, &route53.ListHostedZonesByNameInput{
		DNSName:  awssdk.String(domainName),
		MaxItems: awssdk.Int32(1),
	})
	if err != nil {
		return "", err
	}

	if len(output.HostedZones) == 0 {
		return "", fmt.Errorf("no hosted zone found for domain %s", domainName)
	}

	zoneID := strings.TrimPrefix(awssdk.ToString(output.HostedZones[0].Id), "/hostedzone/")
	m.logger.Info("resolved hosted zone",
		"domain_name", domainName,
		"zone_id", zoneID,
		"zone_name", awssdk.ToString(output.HostedZones[0].Name))
	return zoneID, nil
}

// ChangeResourceRecordSets submits a change batch to the given hosted zone.
func (m *Manager) ChangeResourceRecordSets(ctx context.Context, hostedZoneID string, changeBatch *types.ChangeBatch) error {
	input := &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: awssdk.String(hostedZoneID),
		ChangeBatch:  changeBatch,
	}

	output, err := m.client.ChangeResourceRecordSets(ctx, input)
	if err != nil {
		return err
	}

	m.logger.Info("applied DNS change batch",
		"zone_id", hostedZoneID,
		"changes", len(changeBatch.Changes),
		"change_id", awssdk.ToString(output.ChangeInfo.Id))
	return nil
}
