package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// UpdateInput selects what to update to. An empty TargetVersion means
// "whatever the latest release is".
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress is reported once per stage of the update.
type UpdateProgress struct {
	Stage   string
	Message string
}

// release identifies the downloadable artifacts of one tagged version.
type release struct {
	tag   string
	asset string
}

func (r release) archiveURL(base, owner, repo string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", base, owner, repo, r.tag, r.asset)
}

func (r release) checksumsURL(base, owner, repo string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/checksums.txt", base, owner, repo, r.tag)
}

// Update downloads the release archive for this platform, verifies it
// against the published checksums and swaps the running binary in place.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}

	tag := input.TargetVersion
	if tag == "" {
		progress(UpdateProgress{Stage: "check", Message: "Checking for latest version..."})
		var err error
		if tag, err = c.latestTag(ctx, input.CurrentVersion); err != nil {
			return err
		}
	}

	asset, err := releaseAsset(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}
	rel := release{tag: tag, asset: asset}
	base := strings.TrimRight(c.downloadBaseURL, "/")

	progress(UpdateProgress{Stage: "download", Message: fmt.Sprintf("Downloading %s...", tag)})
	archive, err := c.fetch(ctx, rel.archiveURL(base, c.owner, c.repo))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	progress(UpdateProgress{Stage: "verify", Message: "Verifying checksum..."})
	sums, err := c.fetch(ctx, rel.checksumsURL(base, c.owner, c.repo))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	if err := parseChecksumSet(sums).verify(asset, archive); err != nil {
		return err
	}

	progress(UpdateProgress{Stage: "extract", Message: "Extracting binary..."})
	binary, err := unpackBinary(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{Stage: "apply", Message: "Applying update..."})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := swapBinary(target, binary); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	progress(UpdateProgress{Stage: "done", Message: fmt.Sprintf("Updated to %s", tag)})
	return nil
}

func (c *Checker) latestTag(ctx context.Context, current string) (string, error) {
	result, err := c.Check(ctx, &CheckInput{Version: current})
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}
	if !result.UpdateAvailable {
		return "", ErrAlreadyLatest
	}
	return result.LatestVersion, nil
}

// releaseArch maps GOARCH values to the architecture names goreleaser
// stamps into asset filenames.
var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

func releaseAsset(goos, goarch string) (string, error) {
	// Darwin releases ship as universal binaries, one asset per tag.
	if goos == "darwin" {
		return "eduterm_Darwin_all.tar.gz", nil
	}
	arch, ok := releaseArch[goarch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "linux":
		return "eduterm_Linux_" + arch + ".tar.gz", nil
	case "windows":
		return "eduterm_Windows_" + arch + ".zip", nil
	}
	return "", fmt.Errorf("unsupported operating system: %s", goos)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// checksumSet holds the contents of a checksums.txt file, asset name
// to hex-encoded SHA-256.
type checksumSet map[string]string

func parseChecksumSet(data []byte) checksumSet {
	set := make(checksumSet)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		set[fields[1]] = fields[0]
	}
	return set
}

func (s checksumSet) verify(asset string, data []byte) error {
	want, ok := s[asset]
	if !ok {
		return fmt.Errorf("checksums.txt has no entry for %s", asset)
	}
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != want {
		return fmt.Errorf("%w for %s: want %s, got %s", ErrChecksum, asset, want, got)
	}
	return nil
}

func unpackBinary(archive []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		return zipEntry(archive, "eduterm.exe")
	}
	return tarEntry(archive, "eduterm")
}

func tarEntry(archive []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("binary %q not found in archive", name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
}

func zipEntry(archive []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// swapBinary stages data next to target and renames it into place,
// preserving the target's file mode. Staging in the same directory
// keeps the rename atomic.
func swapBinary(target string, data []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	staged, err := stageBinary(filepath.Dir(target), data)
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(filepath.Dir(staged)) }()

	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	if err := os.Chmod(target, info.Mode()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return nil
}

func stageBinary(dir string, data []byte) (string, error) {
	tmpDir, err := os.MkdirTemp(dir, ".eduterm-update-*")
	if err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	path := filepath.Join(tmpDir, "eduterm.next")
	if err := os.WriteFile(path, data, 0600); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("write staged binary: %w", err)
	}

	// Read back what landed on disk before it becomes the executable.
	written, err := os.ReadFile(path)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("re-read staged binary: %w", err)
	}
	if !bytes.Equal(written, data) {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("%w: staged binary does not match download", ErrChecksum)
	}
	return path, nil
}
