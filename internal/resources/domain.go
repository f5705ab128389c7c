package resources

import "strings"

// ApexDomain narrows a possibly subdomain-qualified name to its last two
// labels, the registrable domain presumed to own the hosted zone.
func ApexDomain(domainName string) string {
	labels := strings.Split(domainName, ".")
	if len(labels) <= 2 {
		return domainName
	}
	return strings.Join(labels[len(labels)-2:], ".")
}
