package config

import "fmt"

// ConfigurationError reports missing or invalid static configuration.
// It is fatal: the program must stop before any sample is evaluated.
type ConfigurationError struct {
	Setting string
	Reason  string
	Hint    string
	Err     error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
