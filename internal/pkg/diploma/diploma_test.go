package diploma

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/dojo/internal/pkg/filestorage"
)

func TestGenerateStoresPDF(t *testing.T) {
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	g := NewGenerator(storage, Config{SchoolName: "Miyagi-Do"}, zerolog.Nop())
	path, err := g.Generate(context.Background(), Request{
		StudentName:    "João Silva",
		Belt:           "blue",
		Date:           "2024-06-01",
		InstructorName: "Sensei Miyagi",
		Location:       "Main dojo",
		Score:          80,
		Comments:       "Excellent kata",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, DefaultSubDir+"/"))

	data, err := storage.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestGenerateRejectsIncompleteRequest(t *testing.T) {
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	g := NewGenerator(storage, Config{}, zerolog.Nop())
	_, err = g.Generate(context.Background(), Request{Belt: "blue"})
	assert.ErrorIs(t, err, ErrIncompleteRequest)
}
