package model

// PermissionDecision is the transient outcome of one permission check.
// Produced fresh on every call and never cached: settings and daily
// counters may change between calls. Denials are values, not errors;
// callers must read Reason, never infer it from Allowed alone.
type PermissionDecision struct {
	Allowed     bool             `json:"allowed"`
	Reason      string           `json:"reason"`
	Sensitivity SensitivityLevel `json:"sensitivity"`
	ContentType string           `json:"content_type"`
}

func Deny(reason string, c Classification) PermissionDecision {
	return PermissionDecision{Allowed: false, Reason: reason, Sensitivity: c.Level, ContentType: c.ContentType}
}

func Allow(reason string, c Classification) PermissionDecision {
	return PermissionDecision{Allowed: true, Reason: reason, Sensitivity: c.Level, ContentType: c.ContentType}
}
