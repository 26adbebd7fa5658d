// Package config handles configuration loading for support-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from SUPPORT_CONFIG environment variable
//  2. ./gateway.yaml (current directory)
//  3. ~/.config/support-gateway/gateway.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	backend:
//	  url: "${SUPPORT_BACKEND_URL}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	backend:
//	  timeout: "30s"
//	session:
//	  idle_timeout: "5m"
//
// Supported units: ns, us, ms, s, m, h
//
// # Routing Policy
//
// The routing section exposes the dispatcher's policy constants:
//
//	routing:
//	  escalation_confidence: 0.3
//	  stickiness_ratio: 0.8
//	  max_turns_same_handler: 5
//	  contact_retry_ceiling: 3
//
// Any field left unset takes the default shown above. The values are policy
// knobs with no deeper derivation; tune them per deployment.
package config
