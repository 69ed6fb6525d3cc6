// Package platform maps the host OS and CPU to the names used by Tailwind CSS
// release assets.
package platform

import (
	"runtime"
	"strings"

	"github.com/twcli/twcli/models"
)

// Identify normalises a raw system and machine name, e.g. ("Darwin", "x86_64")
// becomes macos/x64. Unknown names are only lowercased.
func Identify(system, machine string) models.Platform {
	system = strings.ToLower(system)
	if system == "darwin" {
		system = "macos"
	}

	machine = strings.ToLower(machine)
	switch machine {
	case "x86_64", "amd64":
		machine = "x64"
	case "aarch64":
		machine = "arm64"
	}

	return models.Platform{OS: system, Arch: machine}
}

// Current identifies the platform this binary runs on.
func Current() models.Platform {
	return Identify(runtime.GOOS, runtime.GOARCH)
}
