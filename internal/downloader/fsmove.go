package downloader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// moveFile moves src to dst. When a plain rename fails (typically because
// src and dst live on different filesystems) it copies src into a temporary
// sibling of dst and renames that, so dst never holds a partial file.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	tmp, err := copyToSibling(src, dst)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming output: %w", err)
	}
	_ = os.Remove(src)
	return nil
}

func copyToSibling(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), ".ytbatch-*")
	if err != nil {
		return "", fmt.Errorf("creating staging file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("copying output: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("closing staging file: %w", err)
	}
	_ = os.Chmod(out.Name(), 0o644)
	return out.Name(), nil
}
