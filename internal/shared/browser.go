package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// BrowserOpener opens a URL for the user. [OpenBrowser] is the default; tests substitute their own.
type BrowserOpener func(url string) error

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(url string) error {
	cmd, err := browserCommand(getRuntime(), url)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

func browserCommand(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
