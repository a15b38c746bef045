package config

import (
	"fmt"
	"os"
	"strings"
)

// Credentials holds the Reddit application credentials: client id, client
// secret, and the user agent presented on every API request.
type Credentials struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
}

// LoadCredentials reads the newline-delimited credentials file. The file
// carries exactly three non-empty lines in order: client id, client secret,
// user agent. A missing or incomplete file aborts the run before any network
// call is made.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials file: %w", err)
	}

	var values []string
	for _, line := range strings.Split(string(data), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			values = append(values, s)
		}
	}
	if len(values) < 3 {
		return Credentials{}, fmt.Errorf(
			"credentials file %s: expected 3 lines (client id, client secret, user agent), got %d", path, len(values))
	}

	return Credentials{
		ClientID:     values[0],
		ClientSecret: values[1],
		UserAgent:    values[2],
	}, nil
}
