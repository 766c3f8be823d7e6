// Package media reads the files that OBJE records point at.
//
// A Prober resolves FILE paths under a media root, stores a sha3-256
// checksum on the media entity and, for JPEG and TIFF images, copies a few
// EXIF fields into media attributes. Remote files are never fetched.
package media

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	"golang.org/x/crypto/sha3"

	"github.com/nao1215/gedcom7import/internal/model"
)

var (
	// ErrNoMetadata is returned when an image was read but carries no
	// usable EXIF block. The checksum is still set.
	ErrNoMetadata = errors.New("no image metadata")

	// ErrOutsideRoot is returned for paths that resolve outside the media
	// root.
	ErrOutsideRoot = errors.New("media path is outside the media root")

	// ErrRemote is returned for http, https and other non-file URLs.
	ErrRemote = errors.New("remote media is not probed")

	// ErrTooLarge is returned for files above the size limit.
	ErrTooLarge = errors.New("media file is too large")
)

// AttributePrefix prefixes the attribute types written from EXIF fields.
const AttributePrefix = "EXIF:"

// DefaultMaxSize is the largest file a Prober reads.
const DefaultMaxSize int64 = 64 * 1024 * 1024

// exifFields are the EXIF tags copied to the media entity, in output order.
var exifFields = []string{"DateTimeOriginal", "Make", "Model", "ImageWidth", "ImageLength"}

// Prober enriches media entities from files under a root directory.
type Prober struct {
	root    string
	maxSize int64
}

// Option configures a Prober.
type Option func(*Prober)

// WithMaxSize sets the size limit in bytes.
func WithMaxSize(n int64) Option {
	return func(p *Prober) {
		p.maxSize = n
	}
}

// NewProber returns a Prober for files under root.
func NewProber(root string, opts ...Option) *Prober {
	p := &Prober{root: filepath.Clean(root), maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the media root.
func (p *Prober) Root() string {
	return p.root
}

// Resolve maps a FILE payload to a local path under the root. Relative
// paths are joined to the root; absolute paths and file URLs must already
// be inside it.
func (p *Prober) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		if u.Scheme != "file" {
			return "", fmt.Errorf("%w: %s", ErrRemote, ref)
		}
		ref = u.Path
	}
	path := filepath.FromSlash(ref)
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.root, path)
	}
	path = filepath.Clean(path)
	rel, err := filepath.Rel(p.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, ref)
	}
	return path, nil
}

// Probe sets the checksum of m and adds EXIF attributes for images. The
// error wraps ErrNoMetadata when only the metadata step failed.
func (p *Prober) Probe(m *model.Media) error {
	path, err := p.Resolve(m.Path)
	if err != nil {
		return err
	}
	data, err := p.read(path)
	if err != nil {
		return err
	}
	m.Checksum = Checksum(data)

	if !isImage(m.MIME, path) {
		return nil
	}
	attrs, err := Metadata(data)
	if err != nil {
		return err
	}
	for _, a := range attrs {
		m.AddAttribute(a)
	}
	return nil
}

func (p *Prober) read(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // path is confined to the media root by Resolve
	if err != nil {
		return nil, fmt.Errorf("failed to open media file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, p.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read media file: %w", err)
	}
	if int64(len(data)) > p.maxSize {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, path)
	}
	return data, nil
}

// Checksum returns the hex encoded sha3-256 digest of data.
func Checksum(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Metadata extracts the supported EXIF fields from image bytes.
func Metadata(data []byte) ([]model.Attribute, error) {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil || raw == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}
	entries, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}

	found := make(map[string]string)
	for _, e := range entries {
		if _, ok := found[e.TagName]; !ok {
			found[e.TagName] = e.Formatted
		}
	}
	var attrs []model.Attribute
	for _, name := range exifFields {
		if v, ok := found[name]; ok && v != "" {
			attrs = append(attrs, model.Attribute{Type: AttributePrefix + name, Value: v})
		}
	}
	if len(attrs) == 0 {
		return nil, ErrNoMetadata
	}
	return attrs, nil
}

// isImage reports whether a file may carry EXIF data, by MIME type or by
// extension.
func isImage(mime, path string) bool {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg", "image/tiff":
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".tif", ".tiff":
		return true
	}
	return false
}
