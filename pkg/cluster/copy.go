package cluster

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/logger"
	"go.uber.org/zap"
)

// CopyFiles copies every file into dest (created when absent) under its base
// name. Files copied before a failure are left in place.
func CopyFiles(files []string, dest string, progress io.Writer) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(len(sorted), progressbar.OptionSetWriter(progress))
	defer bar.Finish()

	for _, src := range sorted {
		target := filepath.Join(dest, filepath.Base(src))
		if err := copyFile(src, target); err != nil {
			return fmt.Errorf("copy %s: %w", src, err)
		}
		bar.Describe(fmt.Sprintf("%s copied", filepath.Base(src)))
		bar.Add(1)
		logger.Debug("Copied", zap.String("from", src), zap.String("to", target))
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
