package input

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Stdin is the URL that selects standard input.
const Stdin = "-"

// Open returns a Scanner over the resource at URL.  Any afs scheme is
// supported (file, mem, s3, gs, embed...); options are passed to the
// download, e.g. an *embed.FS for the embed scheme.  Stdin reads os.Stdin.
func Open(ctx context.Context, fs afs.Service, URL string, options ...storage.Option) (*Scanner, error) {
	if URL == "" || URL == Stdin {
		return NewScanner(os.Stdin), nil
	}
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load input %v: %w", URL, err)
	}
	return NewScanner(bytes.NewReader(data)), nil
}
