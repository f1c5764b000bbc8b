package viewmodel

import domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"

// Nav lists which navigation links are visible.
type Nav struct {
	ShowLogin      bool
	ShowRegister   bool
	ShowLogout     bool
	ShowMyBookings bool
	Username       string
}

// NavFor derives navigation visibility from the session. A nil session is a guest.
func NavFor(s *domainauth.Session) Nav {
	if !s.IsAuthenticated() {
		return Nav{ShowLogin: true, ShowRegister: true}
	}
	return Nav{ShowLogout: true, ShowMyBookings: true, Username: s.Username}
}
