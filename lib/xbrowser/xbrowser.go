package xbrowser

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/pkg/browser"

	"oss.terrastruct.com/xos"
)

// Open opens url with $BROWSER when set, or the system default browser.
// A $BROWSER of 0 disables opening.
func Open(ctx context.Context, env *xos.Env, url string) error {
	browserEnv := env.Getenv("BROWSER")
	if browserEnv == "0" {
		return nil
	}
	if browserEnv != "" {
		browserSh := fmt.Sprintf("%s '$1'", browserEnv)
		cmd := exec.CommandContext(ctx, "sh", "-c", browserSh, "--", url)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("failed to run %v (out: %q): %w", cmd.Args, out, err)
		}
		return nil
	}
	return browser.OpenURL(url)
}

// FileURL returns the file:// URL of the local path fp.
func FileURL(fp string) (string, error) {
	abs, err := filepath.Abs(fp)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}
