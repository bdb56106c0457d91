package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// URL is where the UCI SMS Spam Collection archive is published.
const URL = "https://archive.ics.uci.edu/ml/machine-learning-databases/00228/smsspamcollection.zip"

// Download fetches the dataset archive into dir and returns the path of the
// extracted data file. An existing file is reused without touching the network.
func Download(ctx context.Context, client *http.Client, url, dir string) (string, error) {
	dest := filepath.Join(dir, FileName)
	if _, err := os.Stat(dest); err == nil {
		slog.Debug("Dataset already present", "path", dest)
		return dest, nil
	}
	if client == nil {
		client = http.DefaultClient
	}

	slog.Info("Downloading dataset", "url", url, "dest", dest)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download dataset: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download dataset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download dataset: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("download dataset: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	if err := extract(body, FileName, dest); err != nil {
		return "", err
	}
	slog.Info("Dataset extracted", "path", dest, "bytes", len(body))
	return dest, nil
}

// extract copies the archive member called name to dest.
func extract(archive []byte, name, dest string) error {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	for _, zf := range zr.File {
		if filepath.Base(zf.Name) != name {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", zf.Name, err)
		}
		defer func() { _ = rc.Close() }()

		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("create %s: %w", dest, err)
		}
		if _, err := io.Copy(f, rc); err != nil {
			_ = f.Close()
			_ = os.Remove(dest)
			return fmt.Errorf("write %s: %w", dest, err)
		}
		return f.Close()
	}
	return fmt.Errorf("%s not found in archive", name)
}
