package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordprofil/offertpipe/internal/domain"
)

func TestText_PlainTextPassesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offert.txt")
	require.NoError(t, os.WriteFile(path, []byte("Offert 2024-117\nDatum: 2024-03-11\n"), 0o644))

	got, err := Text(path)
	require.NoError(t, err)
	assert.Equal(t, "Offert 2024-117\nDatum: 2024-03-11\n", got)
}

func TestText_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offert.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Text(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestText_MissingFile(t *testing.T) {
	_, err := Text(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}

func TestPDFText_GarbageRejected(t *testing.T) {
	_, err := PDFText([]byte("not a pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
