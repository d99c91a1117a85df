package core

import (
	"fmt"
	"strings"

	"github.com/git-pkgs/purl"
)

// PackageRef identifies a package by ecosystem and name, optionally
// pinned to a version.
type PackageRef struct {
	Ecosystem string
	Name      string
	Version   string
}

// ParsePURL parses a Package URL string into a PackageRef.
// Supports both package PURLs (pkg:cargo/serde) and version PURLs (pkg:cargo/serde@1.0.0).
func ParsePURL(s string) (PackageRef, error) {
	p, err := purl.Parse(s)
	if err != nil {
		return PackageRef{}, err
	}
	name := p.Name
	if p.Namespace != "" {
		name = p.Namespace + "/" + p.Name
	}
	return PackageRef{Ecosystem: p.Type, Name: name, Version: p.Version}, nil
}

// ResolveName turns user input into a package name for ecosystem.
// Plain names are trimmed and returned as-is. PURLs are parsed and must
// belong to ecosystem.
func ResolveName(ecosystem, input string) (string, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "pkg:") {
		return input, nil
	}
	ref, err := ParsePURL(input)
	if err != nil {
		return "", err
	}
	if ref.Ecosystem != ecosystem {
		return "", fmt.Errorf("purl %s is not a %s package", input, ecosystem)
	}
	return ref.Name, nil
}
