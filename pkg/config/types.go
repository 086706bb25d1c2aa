package config

import "time"

// TLSConfig controls whether an instance serves HTTPS and where its
// certificate comes from.
type TLSConfig struct {
	// Enabled turns on HTTPS for the instance.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// CertFile and KeyFile name an existing PEM certificate/key pair. If
	// either is empty and Enabled is true, a self-signed pair is generated
	// at start.
	CertFile string `json:"certFile,omitempty" yaml:"certFile,omitempty"`
	KeyFile  string `json:"keyFile,omitempty" yaml:"keyFile,omitempty"`
}

// CORSConfig controls the permissive CORS preflight bypass: when enabled,
// an OPTIONS request carrying Access-Control-Request-Method never reaches
// the matching engine. The synthetic preflight response always sends
// Access-Control-Allow-Origin "*" and no Access-Control-Max-Age;
// AllowOrigins and AllowCredentials are read only by IsWildcard and
// GetAllowOriginValue, and MaxAge is not read by the instance.
type CORSConfig struct {
	// Enabled turns on the preflight bypass. Default: true.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// AllowOrigins lists permitted origins. "*" allows any origin. An empty
	// list defaults to "*" (the instance is a disposable test double, not a
	// production surface, so there is no secure-by-default origin list to
	// fall back to).
	AllowOrigins []string `json:"allowOrigins,omitempty" yaml:"allowOrigins,omitempty"`
	// AllowCredentials, when true, echoes the request origin back instead
	// of "*" (required by the fetch spec when credentials are included).
	AllowCredentials bool `json:"allowCredentials,omitempty" yaml:"allowCredentials,omitempty"`
	// MaxAge is the preflight cache duration in seconds. Default: 86400.
	MaxAge int `json:"maxAge,omitempty" yaml:"maxAge,omitempty"`
}

// DefaultCORSConfig returns the permissive default: any origin, one day of
// preflight caching.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		Enabled:      true,
		AllowOrigins: []string{"*"},
		MaxAge:       86400,
	}
}

// IsWildcard reports whether c allows any origin.
func (c *CORSConfig) IsWildcard() bool {
	if c == nil {
		return false
	}
	if len(c.AllowOrigins) == 0 {
		return true
	}
	for _, o := range c.AllowOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// GetAllowOriginValue returns the Access-Control-Allow-Origin value for a
// request carrying requestOrigin, or "" if the origin is not allowed.
func (c *CORSConfig) GetAllowOriginValue(requestOrigin string) string {
	if c == nil || !c.Enabled {
		return ""
	}
	if c.IsWildcard() {
		if c.AllowCredentials {
			if requestOrigin != "" {
				return requestOrigin
			}
			return ""
		}
		return "*"
	}
	for _, allowed := range c.AllowOrigins {
		if allowed == requestOrigin {
			return requestOrigin
		}
	}
	return ""
}

// InstanceConfig holds the per-instance settings a MockServerInstance is
// started with: TLS/CORS, request timeouts, and journal capture limits.
type InstanceConfig struct {
	// ReadTimeout and WriteTimeout bound a single request/response cycle.
	ReadTimeout time.Duration `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout time.Duration `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	// ShutdownGrace bounds how long Shutdown waits for in-flight requests
	// to drain before forcing the listener closed.
	ShutdownGrace time.Duration `json:"shutdownGrace,omitempty" yaml:"shutdownGrace,omitempty"`
	// MaxLogEntries is carried through configuration loading and merging
	// but is not applied: the journal retains every entry.
	MaxLogEntries int `json:"maxLogEntries,omitempty" yaml:"maxLogEntries,omitempty"`
	// MaxJournalBodyBytes caps how much of an actual request body a journal
	// entry captures.
	MaxJournalBodyBytes int `json:"maxJournalBodyBytes,omitempty" yaml:"maxJournalBodyBytes,omitempty"`
	// TLS and CORS configure the instance's listener. Nil TLS means plain
	// HTTP; nil CORS falls back to DefaultCORSConfig.
	TLS  *TLSConfig  `json:"tls,omitempty" yaml:"tls,omitempty"`
	CORS *CORSConfig `json:"cors,omitempty" yaml:"cors,omitempty"`
}

// DefaultInstanceConfig returns the settings a bare `create` CLI invocation
// starts an instance with.
func DefaultInstanceConfig() InstanceConfig {
	return InstanceConfig{
		ReadTimeout:         30 * time.Second,
		WriteTimeout:        30 * time.Second,
		ShutdownGrace:       100 * time.Millisecond,
		MaxJournalBodyBytes: 1 << 20,
		CORS:                DefaultCORSConfig(),
	}
}
