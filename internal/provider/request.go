package provider

import (
	"log/slog"
	"strings"
)

// DefaultRegion is used when the stack identifier carries no region segment.
const DefaultRegion = "us-east-1"

// RequestType identifies the stack operation that produced an event.
type RequestType string

// Request types sent by CloudFormation.
const (
	RequestTypeCreate RequestType = "Create"
	RequestTypeUpdate RequestType = "Update"
	RequestTypeDelete RequestType = "Delete"
)

// Event is the custom resource request object CloudFormation delivers to
// the provider.
type Event struct {
	RequestType           RequestType    `json:"RequestType"`
	ServiceToken          string         `json:"ServiceToken"`
	ResponseURL           string         `json:"ResponseURL"`
	StackID               string         `json:"StackId"`
	RequestID             string         `json:"RequestId"`
	ResourceType          string         `json:"ResourceType"`
	LogicalResourceID     string         `json:"LogicalResourceId"`
	PhysicalResourceID    string         `json:"PhysicalResourceId"`
	ResourceProperties    map[string]any `json:"ResourceProperties"`
	OldResourceProperties map[string]any `json:"OldResourceProperties"`
}

// ResourceProperties is the typed property bag of a lifecycle event.
type ResourceProperties struct {
	ServiceToken            string
	DomainName              string
	SubjectAlternativeNames []string
	CertificateArn          string
	LogLevel                string
}

var resourcePropertyFields = FieldMap{
	"ServiceToken":            {Default: ""},
	"DomainName":              {Default: ""},
	"SubjectAlternativeNames": {Transform: CleanStringList},
	"CertificateArn":          {Default: ""},
	"LogLevel":                {Default: ""},
}

// NewResourceProperties builds the typed property bag from a raw event map.
// A nil or empty map resolves every field to its default.
func NewResourceProperties(input map[string]any) ResourceProperties {
	resolved := resourcePropertyFields.Resolve(input)
	return ResourceProperties{
		ServiceToken:            stringField(resolved, "ServiceToken"),
		DomainName:              stringField(resolved, "DomainName"),
		SubjectAlternativeNames: stringListField(resolved, "SubjectAlternativeNames"),
		CertificateArn:          stringField(resolved, "CertificateArn"),
		LogLevel:                stringField(resolved, "LogLevel"),
	}
}

// Request is the immutable view of one lifecycle event.
type Request struct {
	event         Event
	properties    ResourceProperties
	oldProperties ResourceProperties
	logger        *slog.Logger
	region        string
}

// NewRequest builds the typed request view of an event.
func NewRequest(event Event, logger *slog.Logger) *Request {
	return &Request{
		event:         event,
		properties:    NewResourceProperties(event.ResourceProperties),
		oldProperties: NewResourceProperties(event.OldResourceProperties),
		logger:        logger,
	}
}

// Type returns the stack operation that produced the event.
func (r *Request) Type() RequestType { return r.event.RequestType }

// ResponseURL returns the pre-signed callback address for the result.
func (r *Request) ResponseURL() string { return r.event.ResponseURL }

// StackID returns the ARN of the stack containing the resource.
func (r *Request) StackID() string { return r.event.StackID }

// RequestID returns the unique identifier of this event.
func (r *Request) RequestID() string { return r.event.RequestID }

// ResourceType returns the custom resource type tag of the event.
func (r *Request) ResourceType() string { return r.event.ResourceType }

// LogicalResourceID returns the template-chosen name of the resource.
func (r *Request) LogicalResourceID() string { return r.event.LogicalResourceID }

// PhysicalResourceID returns the durable identity of the resource. It is
// empty on Create and set on Update and Delete.
func (r *Request) PhysicalResourceID() string { return r.event.PhysicalResourceID }

// Properties returns the typed current property set.
func (r *Request) Properties() ResourceProperties { return r.properties }

// OldProperties returns the typed prior property set carried by updates.
func (r *Request) OldProperties() ResourceProperties { return r.oldProperties }

// Region returns the region certificate operations run in, parsed from the
// stack identifier on first use and cached afterwards. Stack identifiers
// without a region segment fall back to DefaultRegion.
func (r *Request) Region() string {
	if r.region == "" {
		segments := strings.SplitN(r.event.StackID, ":", 6)
		if len(segments) > 3 {
			r.region = segments[3]
			r.logger.Info("auto-determined region", "region", r.region)
		} else {
			r.region = DefaultRegion
			r.logger.Warn("could not parse region from stack ARN, using default",
				"stack_id", r.event.StackID, "region", r.region)
		}
	}
	return r.region
}
