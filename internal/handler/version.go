package handler

import (
	"net/http"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/samber/lo"
)

// VersionInfo identifies the running build
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
}

// Set with -ldflags "-X .../handler.Version=..." at release time
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

// HandleVersion reports the build. Values not stamped by ldflags fall back
// to $VERSION and the VCS settings the Go toolchain embeds.
// @Summary Build information
// @Tags health
// @Produce json
// @Success 200 {object} VersionInfo
// @Router /version [get]
func HandleVersion() http.HandlerFunc {
	info := buildVersion()
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, info)
	}
}

func buildVersion() VersionInfo {
	info := VersionInfo{
		Version:   firstNonEmpty(lo.Ternary(Version == "dev", "", Version), os.Getenv("VERSION"), "dev"),
		GoVersion: runtime.Version(),
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.GitCommit = firstNonEmpty(info.GitCommit, s.Value)
			case "vcs.time":
				info.BuildTime = firstNonEmpty(info.BuildTime, s.Value)
			}
		}
	}
	return info
}

func firstNonEmpty(values ...string) string {
	v, _ := lo.Find(values, func(s string) bool { return s != "" })
	return v
}
