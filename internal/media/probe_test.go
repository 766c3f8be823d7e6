package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/gedcom7import/internal/model"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p := NewProber(root)

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{name: "relative path", ref: "photos/john.jpg", want: filepath.Join(root, "photos", "john.jpg")},
		{name: "file url", ref: "file://" + filepath.ToSlash(filepath.Join(root, "a.jpg")), want: filepath.Join(root, "a.jpg")},
		{name: "absolute inside root", ref: filepath.Join(root, "b.png"), want: filepath.Join(root, "b.png")},
		{name: "escapes root", ref: "../secret.txt", wantErr: ErrOutsideRoot},
		{name: "remote", ref: "https://example.com/a.jpg", wantErr: ErrRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := p.Resolve(tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	t.Run("checksum of a plain file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "will.txt"), []byte("last will"), 0o600))

		m := model.NewMedia("h1")
		m.Path = "will.txt"
		m.MIME = "text/plain"
		require.NoError(t, NewProber(root).Probe(m))
		assert.Equal(t, Checksum([]byte("last will")), m.Checksum)
		assert.Len(t, m.Checksum, 64)
		assert.Empty(t, m.Attributes)
	})

	t.Run("image without exif", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "scan.jpg"), []byte("not really a jpeg"), 0o600))

		m := model.NewMedia("h2")
		m.Path = "scan.jpg"
		err := NewProber(root).Probe(m)
		assert.ErrorIs(t, err, ErrNoMetadata)
		assert.NotEmpty(t, m.Checksum)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		m := model.NewMedia("h3")
		m.Path = "gone.jpg"
		err := NewProber(t.TempDir()).Probe(m)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNoMetadata))
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Empty(t, m.Checksum)
	})

	t.Run("file above the limit", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), []byte("0123456789"), 0o600))

		m := model.NewMedia("h4")
		m.Path = "big.txt"
		err := NewProber(root, WithMaxSize(4)).Probe(m)
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

func TestIsImage(t *testing.T) {
	t.Parallel()

	assert.True(t, isImage("image/jpeg", "x.bin"))
	assert.True(t, isImage("", "photo.TIF"))
	assert.False(t, isImage("image/png", "photo.png"))
	assert.False(t, isImage("", "notes.txt"))
}
