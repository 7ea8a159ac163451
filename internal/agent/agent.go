package agent

import (
	"fmt"
	"strconv"
	"strings"
)

// BrowserName identifies a browser family. The set is closed: the
// compatibility table is keyed by these identifiers and an unknown name
// is rejected at construction rather than producing an unreachable entry.
type BrowserName string

const (
	BrowserChrome  BrowserName = "chrome"
	BrowserFirefox BrowserName = "firefox"
	BrowserSafari  BrowserName = "safari"
	BrowserEdge    BrowserName = "edge"
	BrowserOpera   BrowserName = "opera"
)

// OSName identifies an operating system, from the same closed-set
// discipline as BrowserName.
type OSName string

const (
	OSWindows OSName = "windows"
	OSMacOS   OSName = "macos"
	OSLinux   OSName = "linux"
	OSIOS     OSName = "ios"
	OSAndroid OSName = "android"
)

// BrowserNames returns every valid browser identifier, in declaration order.
func BrowserNames() []BrowserName {
	return []BrowserName{BrowserChrome, BrowserFirefox, BrowserSafari, BrowserEdge, BrowserOpera}
}

// OSNames returns every valid OS identifier, in declaration order.
func OSNames() []OSName {
	return []OSName{OSWindows, OSMacOS, OSLinux, OSIOS, OSAndroid}
}

// Browser is the browser half of a user-agent descriptor.
// Version is a non-negative major version number.
type Browser struct {
	Name    BrowserName
	Version int
}

// OS is the operating-system half of a user-agent descriptor.
type OS struct {
	Name    OSName
	Version int
}

// UserAgent is the structured descriptor produced by the upstream
// user-agent parser. It is passed by value and never mutated.
type UserAgent struct {
	Browser Browser
	OS      OS
}

// ParseBrowserName validates a browser identifier against the closed set.
// Matching is case-insensitive; the canonical lowercase form is returned.
func ParseBrowserName(s string) (BrowserName, error) {
	name := BrowserName(strings.ToLower(s))
	for _, known := range BrowserNames() {
		if name == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown browser '%s', must be one of: %s", s, joinBrowserNames())
}

// ParseOSName validates an OS identifier against the closed set.
func ParseOSName(s string) (OSName, error) {
	name := OSName(strings.ToLower(s))
	for _, known := range OSNames() {
		if name == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown OS '%s', must be one of: %s", s, joinOSNames())
}

// ParseBrowser parses a "name/version" component (e.g. "chrome/103")
// into a Browser, rejecting unknown names and negative versions.
func ParseBrowser(s string) (Browser, error) {
	name, version, err := splitComponent(s)
	if err != nil {
		return Browser{}, fmt.Errorf("browser: %w", err)
	}
	browserName, err := ParseBrowserName(name)
	if err != nil {
		return Browser{}, err
	}
	return Browser{Name: browserName, Version: version}, nil
}

// ParseOS parses a "name/version" component (e.g. "windows/10") into an OS.
func ParseOS(s string) (OS, error) {
	name, version, err := splitComponent(s)
	if err != nil {
		return OS{}, fmt.Errorf("os: %w", err)
	}
	osName, err := ParseOSName(name)
	if err != nil {
		return OS{}, err
	}
	return OS{Name: osName, Version: version}, nil
}

// splitComponent splits "name/version" and validates the version part.
func splitComponent(s string) (string, int, error) {
	idx := strings.Index(s, "/")
	if idx == -1 {
		return "", 0, fmt.Errorf("'%s' is not in name/version form", s)
	}
	name := s[:idx]
	versionPart := s[idx+1:]

	version, err := strconv.Atoi(versionPart)
	if err != nil {
		return "", 0, fmt.Errorf("version '%s' is not an integer", versionPart)
	}
	if version < 0 {
		return "", 0, fmt.Errorf("version %d is negative, must be >= 0", version)
	}
	return name, version, nil
}

func joinBrowserNames() string {
	names := BrowserNames()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

func joinOSNames() string {
	names := OSNames()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
