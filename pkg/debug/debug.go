package debug

import (
	"runtime/debug"
)

type BuildInfo struct {
	GoVersion string `json:"go_version"`
	Path      string `json:"path"`
	Revision  string `json:"revision"`
	Time      string `json:"time"`
}

func ReadBuildInfo() *BuildInfo {
	info := &BuildInfo{}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	info.Path = bi.Path
	for _, kv := range bi.Settings {
		switch kv.Key {
		case "vcs.revision":
			info.Revision = kv.Value
		case "vcs.time":
			info.Time = kv.Value
		}
	}
	return info
}
