package config

import "strings"

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowOrigins []string
}

// LoadCORSConfig reads CORS_ALLOW_ORIGINS as a comma separated list. The
// default allows any origin.
func LoadCORSConfig() CORSConfig {
	var origins []string
	for _, o := range strings.Split(envStr("CORS_ALLOW_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return CORSConfig{AllowOrigins: origins}
}
