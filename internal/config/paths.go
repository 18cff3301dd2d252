package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// resolvePath turns a configured path into an absolute one. Environment
// variables and a leading ~ are expanded, then a relative result is joined
// onto root. The empty string stays empty so an unset log_file keeps its
// default.
func resolvePath(p, root string) string {
	if p == "" {
		return ""
	}
	p = expandHome(os.ExpandEnv(p))
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return p
}

// expandHome replaces a leading "~" with the home directory. "~\" is only
// recognised on Windows. If the home directory is unknown, p is unchanged.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !(runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	return filepath.Join(home, p[1:])
}
