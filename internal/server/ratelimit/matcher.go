package ratelimit

import "strings"

// matchEndpoint finds the endpoint configuration for a path and method.
// Exact matches win; configurations whose path ends in "/" also match
// by prefix, covering routes with path parameters. Health checks are
// never throttled.
func matchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		if configs[i].Method == method && strings.HasSuffix(configs[i].Path, "/") &&
			strings.HasPrefix(path, configs[i].Path) {
			return &configs[i]
		}
	}

	return nil
}
