package core

import (
	"strings"
)

const (
	MaxIssueTitleLen = 256
	MaxIssueBodyLen  = 65536
	MaxIssueLabels   = 100
	MaxLabelLen      = 50
)

// ValidateIssueFields checks issue text before it is sent upstream. A nil
// title means the caller is not changing it.
func ValidateIssueFields(title, body *string, labels []string) error {
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return Invalidf("title", "is required")
		}
		if len(t) > MaxIssueTitleLen {
			return Invalidf("title", "exceeds %d characters", MaxIssueTitleLen)
		}
	}
	if body != nil && len(*body) > MaxIssueBodyLen {
		return Invalidf("body", "exceeds %d characters", MaxIssueBodyLen)
	}
	if len(labels) > MaxIssueLabels {
		return Invalidf("labels", "exceed %d items", MaxIssueLabels)
	}
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			return Invalidf("labels", "must not contain empty values")
		}
		if len(label) > MaxLabelLen {
			return Invalidf("labels", "label %q exceeds %d characters", label, MaxLabelLen)
		}
	}
	return nil
}
