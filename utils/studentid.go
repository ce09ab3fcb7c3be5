package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// Institutional email local parts look like "sc210456": a short letter
// prefix for the faculty followed by the enrolment number.
var localPartPattern = regexp.MustCompile(`^([a-z]{1,4})([0-9]{5,8})$`)

// StudentIDFromEmail derives the formatted student ID from an institutional
// email address, e.g. "sc210456@stu.unisport.edu" -> "SC-210456".
func StudentIDFromEmail(email, domain string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at < 1 {
		return "", fmt.Errorf("malformed email address")
	}
	if domain != "" && email[at+1:] != domain {
		return "", fmt.Errorf("email must belong to the %s domain", domain)
	}

	m := localPartPattern.FindStringSubmatch(email[:at])
	if m == nil {
		return "", fmt.Errorf("email does not look like an institutional student address")
	}
	return strings.ToUpper(m[1]) + "-" + m[2], nil
}
