package gcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPath(t *testing.T) {
	p, err := objectPath("job-tracker", "u1", "abc", "Me.JPG")
	require.NoError(t, err)
	assert.Equal(t, "job-tracker/u1/abc.jpg", p)

	_, err = objectPath("job-tracker", "u1", "abc", "resume.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = objectPath("job-tracker", "u1", "abc", "noext")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestNewImageStore_DefaultFolder(t *testing.T) {
	s := NewImageStore(nil, "bucket", "/")
	assert.Equal(t, defaultFolder, s.folder)

	s = NewImageStore(nil, "bucket", "/avatars/")
	assert.Equal(t, "avatars", s.folder)
}
