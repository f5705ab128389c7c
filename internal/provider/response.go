package provider

// Status of a delivered lifecycle result.
type Status string

// Status values accepted by CloudFormation.
const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Response is the mutable result of one lifecycle event. Its JSON form is
// the custom resource response object CloudFormation expects.
type Response struct {
	Status             Status         `json:"Status"`
	Reason             string         `json:"Reason,omitempty"`
	StackID            string         `json:"StackId"`
	RequestID          string         `json:"RequestId"`
	LogicalResourceID  string         `json:"LogicalResourceId"`
	PhysicalResourceID string         `json:"PhysicalResourceId"`
	NoEcho             bool           `json:"NoEcho,omitempty"`
	Data               map[string]any `json:"Data,omitempty"`
}

// NewResponse creates a response for the given request, copying the
// identifiers CloudFormation requires to be echoed verbatim.
func NewResponse(request *Request) *Response {
	return &Response{
		StackID:            request.StackID(),
		RequestID:          request.RequestID(),
		LogicalResourceID:  request.LogicalResourceID(),
		PhysicalResourceID: request.PhysicalResourceID(),
	}
}

// SetStatus marks the response SUCCESS or FAILED.
func (r *Response) SetStatus(success bool) {
	if success {
		r.Status = StatusSuccess
	} else {
		r.Status = StatusFailed
	}
}

// SetReason records the human-readable explanation for the status. Required
// when the status is FAILED.
func (r *Response) SetReason(reason string) {
	r.Reason = reason
}

// SetPhysicalResourceID records the durable identity of the resource. The
// value must be identical across all responses for the same resource; a
// changed value tells CloudFormation the resource was replaced.
func (r *Response) SetPhysicalResourceID(id string) {
	r.PhysicalResourceID = id
}

// SetData merges name-value pairs into the payload readable in templates
// through Fn::GetAtt.
func (r *Response) SetData(data map[string]any) {
	if r.Data == nil {
		r.Data = make(map[string]any, len(data))
	}
	for key, value := range data {
		r.Data[key] = value
	}
}
