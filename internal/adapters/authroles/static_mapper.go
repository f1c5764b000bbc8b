package authroles

import (
	"strings"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
)

// StaticRoleMapper maps backend role strings to application roles by simple membership rules.
// The first matching rule wins in the order admin, staff, customer.
type StaticRoleMapper struct {
	AdminGroup     string
	StaffGroup     string
	CustomerGroups []string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	has := func(want string) bool {
		if want == "" {
			return false
		}
		for _, g := range groups {
			if strings.EqualFold(strings.TrimSpace(g), want) {
				return true
			}
		}
		return false
	}

	switch {
	case has(m.AdminGroup):
		return domainauth.RoleAdmin
	case has(m.StaffGroup):
		return domainauth.RoleStaff
	}
	for _, c := range m.CustomerGroups {
		if has(c) {
			return domainauth.RoleCustomer
		}
	}
	// Every authenticated backend account may at least book.
	return domainauth.RoleCustomer
}
