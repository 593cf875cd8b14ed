package scene

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/vango-dev/vtree/internal/errors"
)

// Loader reads scenes from files and s3:// URIs.
type Loader struct {
	// S3 is used for s3:// URIs. When nil, a client is built from
	// S3Options on first use.
	S3 ObjectGetter

	// S3Options configures the lazily built client.
	S3Options S3Options

	once  sync.Once
	s3Err error
}

// Load reads and parses a scene with a default Loader.
func Load(ctx context.Context, uri string) (*Scene, error) {
	return (&Loader{}).Load(ctx, uri)
}

// Load reads and parses the scene at uri.
func (l *Loader) Load(ctx context.Context, uri string) (*Scene, error) {
	data, err := l.read(ctx, uri)
	if err != nil {
		return nil, err
	}
	return Parse(data, uri)
}

func (l *Loader) read(ctx context.Context, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "s3://") {
		l.once.Do(func() {
			if l.S3 == nil {
				l.S3, l.s3Err = NewS3Client(ctx, l.S3Options)
			}
		})
		if l.s3Err != nil {
			return nil, l.s3Err
		}
		return NewS3Source(l.S3).Read(ctx, uri)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(uri, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		e := errors.New(errors.CodeSceneRead).Wrap(err)
		if os.IsNotExist(err) {
			return nil, e.WithDetailf("no scene file at %s", path)
		}
		return nil, e.WithDetailf("read %s", path)
	}
	return data, nil
}
