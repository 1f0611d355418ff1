package localstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/uniedit/seeder/internal/model"
	"github.com/uniedit/seeder/internal/port/outbound"
)

// ProviderName is recorded on upload metadata written through this provider.
const ProviderName = "local"

const uploadsDir = "uploads"

// Provider stores uploads on the local filesystem under <root>/uploads.
type Provider struct {
	fs        billy.Filesystem
	publicURL string
}

// NewProvider creates a local provider over fs. publicURL prefixes the
// returned file URLs; empty yields root-relative URLs.
func NewProvider(fs billy.Filesystem, publicURL string) *Provider {
	return &Provider{
		fs:        fs,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// NewOSProvider creates a local provider rooted at dir.
func NewOSProvider(dir, publicURL string) (*Provider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return NewProvider(osfs.New(dir), publicURL), nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

// Upload copies the descriptor's content to uploads/<hash><ext>.
func (p *Provider) Upload(ctx context.Context, file *model.FileDescriptor) (retErr error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.fs.MkdirAll(uploadsDir, 0o755); err != nil {
		return fmt.Errorf("create uploads directory: %w", err)
	}

	name := p.fs.Join(uploadsDir, file.Key())
	dst, err := p.fs.Create(name)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil {
			retErr = errors.Join(retErr, closeErr)
		}
		if retErr != nil {
			_ = p.fs.Remove(name)
		}
	}()

	src := file.Stream
	if src == nil {
		src = bytes.NewReader(file.Buffer)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}

	file.URL = p.publicURL + "/" + uploadsDir + "/" + file.Key()
	return nil
}

// Compile-time check
var _ outbound.StorageProviderPort = (*Provider)(nil)
