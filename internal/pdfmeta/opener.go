package pdfmeta

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ResolvePath resolves a record's relative PDF path against the
// configured PDF root and verifies the file exists.
func ResolvePath(pdfRoot, relativePath string) (string, error) {
	if pdfRoot == "" {
		return "", fmt.Errorf("pdf_root not configured")
	}
	if relativePath == "" {
		return "", fmt.Errorf("record has no PDF path")
	}

	fullPath := filepath.Join(pdfRoot, relativePath)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("PDF not found: %s", fullPath)
		}
		return "", fmt.Errorf("checking PDF: %w", err)
	}
	return fullPath, nil
}

// OpenViewer launches the platform PDF viewer on the given file and
// returns without waiting for it to exit.
func OpenViewer(fullPath string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", fullPath)
	case "linux":
		cmd = exec.Command("xdg-open", fullPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
