package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Flavors are the editor builds whose user settings we know how to find.
var Flavors = []string{"Code", "Code - Insiders", "VSCodium", "Cursor"}

// DefaultFlavor is stable VS Code.
const DefaultFlavor = "Code"

// DefaultPath returns the user settings.json location for flavor on this OS.
func DefaultPath(flavor string) (string, error) {
	return defaultPath(runtime.GOOS, flavor, os.Getenv("APPDATA"))
}

func defaultPath(goos, flavor, appData string) (string, error) {
	if flavor == "" {
		flavor = DefaultFlavor
	}
	known := false
	for _, f := range Flavors {
		if strings.EqualFold(f, flavor) {
			flavor, known = f, true
			break
		}
	}
	if !known {
		return "", fmt.Errorf("unknown editor flavor %q (known: %s)", flavor, strings.Join(Flavors, ", "))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch goos {
	case "windows":
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, flavor, "User", "settings.json"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", flavor, "User", "settings.json"), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return filepath.Join(home, ".config", flavor, "User", "settings.json"), nil
	}
	return "", fmt.Errorf("cannot determine settings path on %s; pass --settings", goos)
}
