// Package version reports the build version of termsynth.
package version

import "runtime/debug"

// Version can be set at build time:
// go build -ldflags "-X github.com/vsariola/termsynth/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision the binary was built from, suffixed with
// -dirty for a modified tree.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	modified := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		revision += "-dirty"
	}
	return revision
}()

var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if Hash != "" {
		return Hash
	}
	return "devel"
}()
