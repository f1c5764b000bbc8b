package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreMode selects where identity slots are kept.
type SessionStoreMode string

const (
	// SessionStoreRedis keeps sessions in Redis so they survive restarts and are shared by replicas.
	SessionStoreRedis SessionStoreMode = "redis"
	// SessionStoreMemory keeps sessions in process memory (single instance, development).
	SessionStoreMemory SessionStoreMode = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreMode.
func (m *SessionStoreMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*m = SessionStoreMode(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreMode: %q (valid options: redis, memory)", v)
	}
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// SessionStore determines which store holds identity slots.
	SessionStore SessionStoreMode `env:"SESSION_STORE" envDefault:"redis"`

	// SessionTTL is the lifetime of an identity slot after login.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// AdminRole and StaffRole are the backend role strings granting those roles.
	AdminRole string `env:"ADMIN_ROLE" envDefault:"ADMIN"`
	StaffRole string `env:"STAFF_ROLE" envDefault:"STAFF"`

	// CustomerRoles are the backend role strings treated as customers.
	CustomerRoles []string `env:"CUSTOMER_ROLES" envDefault:"PASSENGER;CUSTOMER" envSeparator:";"`

	// LoginRate is the sustained login/register attempts per second allowed per client IP.
	LoginRate float64 `env:"LOGIN_RATE" envDefault:"0.2"`

	// LoginBurst is the number of attempts allowed before throttling starts.
	LoginBurst int `env:"LOGIN_BURST" envDefault:"5"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionStore == "" {
		a.SessionStore = SessionStoreRedis
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = time.Hour
	}
	a.AdminRole = strings.TrimSpace(a.AdminRole)
	a.StaffRole = strings.TrimSpace(a.StaffRole)

	roles := a.CustomerRoles[:0]
	for _, r := range a.CustomerRoles {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	a.CustomerRoles = roles

	if a.LoginRate <= 0 {
		a.LoginRate = 0.2
	}
	if a.LoginBurst < 1 {
		a.LoginBurst = 1
	}
}
