package resources

import "regexp"

// certificateARNPattern is the shape of an ACM certificate ARN, anchored at
// the start only.
var certificateARNPattern = regexp.MustCompile(`^arn:aws:acm:[\w+=/,.@-]*:[0-9]+:[\w+=,.@-]+(/[\w+=,.@-]+)*`)

// IsValidCertificateARN reports whether arn has the shape of an ACM
// certificate ARN. Checked before delete calls so malformed identifiers
// never reach the API.
func IsValidCertificateARN(arn string) bool {
	return certificateARNPattern.MatchString(arn)
}
