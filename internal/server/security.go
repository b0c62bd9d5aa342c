package server

import "net/http"

// SecurityConfig controls the HTTP hardening applied to every request.
type SecurityConfig struct {
	// EnableCORS enables cross-origin resource sharing headers.
	EnableCORS bool
	// AllowedOrigins lists the origins allowed to call the API.
	// A single "*" entry allows any origin.
	AllowedOrigins []string
	// AllowedMethods lists the HTTP methods advertised in CORS headers.
	AllowedMethods []string
	// MaxProfileMax caps the profile size a single check request may ask
	// for, bounding the work one request can trigger.
	MaxProfileMax int
}

// DefaultSecurityConfig returns the default hardening configuration.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		MaxProfileMax:  1000,
	}
}

// SecurityMiddleware wraps a handler with security headers, CORS
// handling, and OPTIONS preflight short-circuiting.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			applyCORS(h, config, r.Header.Get("Origin"))
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

func applyCORS(h http.Header, config SecurityConfig, origin string) {
	allowed := ""
	for _, o := range config.AllowedOrigins {
		if o == "*" {
			allowed = "*"
			break
		}
		if o == origin && origin != "" {
			allowed = origin
			break
		}
	}
	if allowed == "" {
		return
	}

	h.Set("Access-Control-Allow-Origin", allowed)
	h.Set("Access-Control-Allow-Methods", joinMethods(config.AllowedMethods))
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Max-Age", "86400")
}

func joinMethods(methods []string) string {
	out := ""
	for i, m := range methods {
		if i > 0 {
			out += ", "
		}
		out += m
	}
	return out
}
