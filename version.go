// Package annotatorstore exposes build metadata for the annotation store service.
package annotatorstore

import (
	"strconv"
	"strings"
)

// VersionInfo is the release tuple. Label is an optional pre-release marker
// (e.g. "dev", "rc1"); an empty Label denotes a final release.
type VersionInfo struct {
	Major int
	Minor int
	Patch int
	Label string
}

// String dot-joins the numeric parts and dash-appends Label when set.
func (v VersionInfo) String() string {
	s := strings.Join([]string{
		strconv.Itoa(v.Major),
		strconv.Itoa(v.Minor),
		strconv.Itoa(v.Patch),
	}, ".")
	if v.Label != "" {
		s += "-" + v.Label
	}
	return s
}

// Info is the current release.
//
//nolint:gochecknoglobals // release metadata
var Info = VersionInfo{Major: 0, Minor: 6, Patch: 0}

// Version is the printable form of Info.
//
//nolint:gochecknoglobals // release metadata
var Version = Info.String()
