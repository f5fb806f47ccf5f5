package utils

import (
	"fmt"
	"sync"
)

// Version describes the running build. Fields are stamped through -ldflags.
type Version struct {
	Version   string `json:"version"`
	Branch    string `json:"branch"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Arch      string `json:"arch"`
}

var (
	versionMu sync.RWMutex
	current   = Version{Version: "0.0.0-dev", Branch: "unknown", Commit: "unknown", BuildDate: "unknown", Arch: "unknown"}
)

// SetVersion populates the package-level version variables. Empty values
// keep the defaults.
func SetVersion(versionStr, branchStr, commitStr, buildDateStr, archStr string) {
	versionMu.Lock()
	defer versionMu.Unlock()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&current.Version, versionStr)
	set(&current.Branch, branchStr)
	set(&current.Commit, commitStr)
	set(&current.BuildDate, buildDateStr)
	set(&current.Arch, archStr)
}

// GetVersion returns the version information for the service.
func GetVersion() Version {
	versionMu.RLock()
	defer versionMu.RUnlock()
	return current
}

func (v Version) String() string {
	return fmt.Sprintf("%s (%s@%s, built %s, %s)", v.Version, v.Branch, v.Commit, v.BuildDate, v.Arch)
}
