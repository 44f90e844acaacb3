package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// Expand replaces variables in a path with their values, then expands ~.
// Supported variables:
//   - ${USER} - current username
//   - ${HOME} - user's home directory
func Expand(s string) string {
	if s == "" {
		return s
	}

	result := s

	if strings.Contains(result, "${USER}") {
		result = strings.ReplaceAll(result, "${USER}", getUser())
	}

	if strings.Contains(result, "${HOME}") {
		home, _ := os.UserHomeDir()
		result = strings.ReplaceAll(result, "${HOME}", home)
	}

	return ExpandTilde(result)
}

// getUser returns the current username.
func getUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}
