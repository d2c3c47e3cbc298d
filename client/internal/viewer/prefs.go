package viewer

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Prefs are the viewer toggles that survive a restart.
type Prefs struct {
	Theme         string `json:"theme"`
	DamageNumbers bool   `json:"damageNumbers"`
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9._-]`)

func sanitize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeChars.ReplaceAllString(s, "")
	if s == "" {
		s = "default"
	}
	return s
}

// profileID picks a per-binary profile: QQ_PROFILE if set, otherwise the
// executable name plus a short hash of its full path.
func profileID() string {
	if p := strings.TrimSpace(os.Getenv("QQ_PROFILE")); p != "" {
		return sanitize(p)
	}
	exe, _ := os.Executable()
	base := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	sum := sha1.Sum([]byte(exe))
	return sanitize(base) + "-" + hex.EncodeToString(sum[:])[:8]
}

// ConfigDir is <os config dir>/QuietQuadrant/<profile>.
//
//	Linux:   ~/.config/QuietQuadrant/<profile>/
//	macOS:   ~/Library/Application Support/QuietQuadrant/<profile>/
//	Windows: %APPDATA%\QuietQuadrant\<profile>\
func ConfigDir() string {
	root, _ := os.UserConfigDir()
	if root == "" {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, ".config")
	}
	return filepath.Join(root, "QuietQuadrant", profileID())
}

func PrefsPath() string { return filepath.Join(ConfigDir(), "viewer.json") }

// LoadPrefs reads path. A missing file is not an error.
func LoadPrefs(path string) (Prefs, bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Prefs{}, false, nil
	}
	if err != nil {
		return Prefs{}, false, err
	}
	var p Prefs
	if err := json.Unmarshal(b, &p); err != nil {
		return Prefs{}, false, err
	}
	return p, true, nil
}

func SavePrefs(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, _ := json.MarshalIndent(p, "", "  ")
	return os.WriteFile(path, b, 0o644)
}
