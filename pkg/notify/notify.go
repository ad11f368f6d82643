// Package notify sends desktop notifications through native OS tools,
// so it works without cgo or vendored GUI bindings. A missing tool is
// reported as an error and otherwise degrades gracefully.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"

	log "github.com/sirupsen/logrus"
)

const balloonScript = `[void][System.Reflection.Assembly]::LoadWithPartialName('System.Windows.Forms')
[void][System.Reflection.Assembly]::LoadWithPartialName('System.Drawing')
$icon = New-Object System.Windows.Forms.NotifyIcon
$icon.Icon = [System.Drawing.SystemIcons]::Information
$icon.Visible = $true
$icon.ShowBalloonTip(10000, %q, %q, [System.Windows.Forms.ToolTipIcon]::None)`

// Send delivers one notification with the platform's native tool:
// osascript on macOS, notify-send on Linux and PowerShell on Windows.
func Send(title, body string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		return run("osascript", "-e", script)
	case "linux":
		return run("notify-send", title, body)
	case "windows":
		script := fmt.Sprintf(balloonScript, title, body)
		return run("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	default:
		return fmt.Errorf("desktop notifications are not supported on %s", runtime.GOOS)
	}
}

func run(name string, args ...string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s is not available: %v", name, err)
	}

	log.WithFields(log.Fields{"tool": name}).Debug("sending notification")

	return exec.Command(path, args...).Run()
}
