package github

import (
	"errors"
	"strings"
	"unicode"
)

const maxOwnerLength = 39

// ValidateBranchName trims branch and rejects names git would refuse.
func ValidateBranchName(branch string) (string, error) {
	s := strings.TrimSpace(branch)
	switch {
	case s == "":
		return "", errors.New("branch name cannot be empty")
	case strings.Contains(s, ".."):
		return "", errors.New("branch name cannot contain '..'")
	case strings.ContainsAny(s, " ~^:?*[\\]"):
		return "", errors.New("branch name contains invalid characters")
	case strings.HasPrefix(s, "/") || strings.HasSuffix(s, "/"):
		return "", errors.New("branch name cannot start or end with '/'")
	case strings.HasSuffix(s, ".lock"):
		return "", errors.New("branch name cannot end with '.lock'")
	}
	return s, nil
}

// ValidateRepositoryName trims name and checks it against the characters
// GitHub accepts in repository names.
func ValidateRepositoryName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return "", errors.New("repository name cannot be empty")
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.') {
			return "", errors.New("repository name can only contain letters, numbers, hyphens, periods, and underscores")
		}
	}
	if strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") {
		return "", errors.New("repository name cannot start or end with a period")
	}
	return s, nil
}

// ValidateOwnerName trims owner and checks the login shape.
func ValidateOwnerName(owner string) (string, error) {
	s := strings.TrimSpace(owner)
	if s == "" {
		return "", errors.New("owner name cannot be empty")
	}
	first := rune(s[0])
	if len(s) > maxOwnerLength || !(unicode.IsLetter(first) || unicode.IsDigit(first)) || first > unicode.MaxASCII {
		return "", errors.New("owner name must start with a letter or number and can contain up to 39 characters")
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-') {
			return "", errors.New("owner name can only contain letters, numbers, and hyphens")
		}
	}
	return s, nil
}
