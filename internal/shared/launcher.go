package shared

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var getRuntime = func() string { return runtime.GOOS }

// URLPlaceholder marks where a streaming URL goes in a player command.
const URLPlaceholder = "{url}"

// PlayerArgs expands a player command template for url.
//
// When the template has no [URLPlaceholder] the url is appended as the last argument.
func PlayerArgs(template []string, url string) ([]string, error) {
	if len(template) == 0 || template[0] == "" {
		return nil, ErrNoPlayer
	}

	args := make([]string, 0, len(template)+1)
	replaced := false
	for _, a := range template {
		if strings.Contains(a, URLPlaceholder) {
			a = strings.ReplaceAll(a, URLPlaceholder, url)
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, url)
	}
	return args, nil
}

// OpenerArgs returns the platform command that hands url to the default application.
//
// Supports macOS, Linux, and Windows platforms.
func OpenerArgs(url string) ([]string, error) {
	switch rt := getRuntime(); rt {
	case "darwin":
		return []string{"open", url}, nil
	case "linux":
		return []string{"xdg-open", url}, nil
	case "windows":
		return []string{"cmd", "/c", "start", url}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}

// Command builds an [exec.Cmd] from an argument vector.
func Command(args []string) *exec.Cmd {
	return exec.Command(args[0], args[1:]...)
}
