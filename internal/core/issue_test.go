package core

import (
	"errors"
	"strings"
	"testing"
)

func strp(s string) *string { return &s }

func TestValidateIssueFields(t *testing.T) {
	if err := ValidateIssueFields(strp("hello"), strp("body"), []string{"bug"}); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
	if err := ValidateIssueFields(nil, nil, nil); err != nil {
		t.Fatalf("expected empty update to be valid, got %v", err)
	}

	tests := map[string]struct {
		title  *string
		body   *string
		labels []string
	}{
		"blank title":    {title: strp("   ")},
		"long title":     {title: strp(strings.Repeat("a", MaxIssueTitleLen+1))},
		"long body":      {body: strp(strings.Repeat("b", MaxIssueBodyLen+1))},
		"empty label":    {labels: []string{"bug", " "}},
		"long label":     {labels: []string{strings.Repeat("l", MaxLabelLen+1)}},
		"too many label": {labels: make([]string, MaxIssueLabels+1)},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateIssueFields(tt.title, tt.body, tt.labels)
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected InputError, got %v", err)
			}
		})
	}
}
