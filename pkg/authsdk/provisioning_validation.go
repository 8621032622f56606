package authsdk

import (
	"regexp"
	"strings"
)

const (
	requiredReason  = "required"
	onlyTenantChars = "must only contain a-z, 0-9, _ or -"
)

var reTenantID = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate checks the provisioning request fields. Returns a map of field
// names to error messages, or nil if all fields are valid.
func (p ProvisionTenantRequest) Validate() map[string]string {
	errs := make(map[string]string)

	p.validateTenantID(errs)
	p.validateCompanyName(errs)
	p.validateAdmin(errs)
	p.validatePassword(errs)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p ProvisionTenantRequest) validateTenantID(errs map[string]string) {
	id := strings.TrimSpace(p.TenantID)
	switch {
	case id == "":
		errs["tenantId"] = requiredReason
	case len(id) > 64:
		errs["tenantId"] = "too long (max 64)"
	case !reTenantID.MatchString(id):
		errs["tenantId"] = onlyTenantChars
	}
}

func (p ProvisionTenantRequest) validateCompanyName(errs map[string]string) {
	name := strings.TrimSpace(p.CompanyName)
	switch {
	case name == "":
		errs["companyName"] = requiredReason
	case len(name) > 200:
		errs["companyName"] = "too long (max 200)"
	}
}

func (p ProvisionTenantRequest) validateAdmin(errs map[string]string) {
	name := strings.TrimSpace(p.AdminName)
	switch {
	case name == "":
		errs["adminName"] = requiredReason
	case len(name) > 100:
		errs["adminName"] = "too long (max 100)"
	}

	identity := strings.TrimSpace(p.AdminIdentity)
	switch {
	case identity == "":
		errs["adminIdentity"] = requiredReason
	case len(identity) > 254:
		errs["adminIdentity"] = "too long (max 254)"
	case strings.ContainsAny(identity, " \t\r\n"):
		errs["adminIdentity"] = "must not contain whitespace"
	}
}

// An empty password is fine; the server generates one.
func (p ProvisionTenantRequest) validatePassword(errs map[string]string) {
	pw := p.AdminPassword
	switch {
	case pw == "":
	case len(pw) < 8:
		errs["adminPassword"] = "too short (min 8)"
	case len(pw) > 128:
		errs["adminPassword"] = "too long (max 128)"
	}
}
