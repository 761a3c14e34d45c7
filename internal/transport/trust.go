package transport

import (
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrTrustOpen is returned when the trust file cannot be opened.
	ErrTrustOpen = errors.New("unable to open root CA certificates file")

	// ErrTrustRead is returned when the trust file cannot be read in full.
	ErrTrustRead = errors.New("unable to read root CA certificates file")

	// ErrNoCertificates is returned when trust material holds no usable
	// PEM certificate.
	ErrNoCertificates = errors.New("no certificates found in trust material")
)

// ReadTrustFile reads the whole root CA bundle at path with a single open.
// Open failures wrap ErrTrustOpen, short reads wrap ErrTrustRead.
func ReadTrustFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %v", ErrTrustOpen, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTrustRead, err)
	}
	buf := make([]byte, info.Size())
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTrustRead, err)
	}
	return buf, nil
}

// ExecutableDir returns the directory holding the running executable.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// DefaultTrustFile returns the path of cert.pem beside the executable, or
// just "cert.pem" if the executable cannot be located.
func DefaultTrustFile() string {
	dir, err := ExecutableDir()
	if err != nil {
		return DefaultTrustFileName
	}
	return filepath.Join(dir, DefaultTrustFileName)
}

// rootPool builds a certificate pool holding only the given PEM material.
func rootPool(pem []byte) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, ErrNoCertificates
	}
	return pool, nil
}
