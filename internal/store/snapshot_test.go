package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport(t *testing.T) {
	tr := sampleTree(t, "najdorf")

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, tr))

	got, err := Import(bytes.NewReader(buf.Bytes()), "")
	require.NoError(t, err)

	assert.NotEqual(t, tr.ID, got.ID)
	assert.Equal(t, tr.Name, got.Name)
	assert.Equal(t, tr.Player, got.Player)
	assert.Equal(t, tr.LearningBudget, got.LearningBudget)
	assert.Equal(t, tr.Counter, got.Counter)
	assert.Equal(t, tr.Records(), got.Records())
}

func TestImportRenameAndStore(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tr := sampleTree(t, "najdorf")
	require.NoError(t, s.Create(ctx, tr))

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, tr))

	got, err := Import(&buf, "najdorf-copy")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, got))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"najdorf", "najdorf-copy"}, names)
}

func TestImportGarbage(t *testing.T) {
	_, err := Import(bytes.NewReader([]byte("definitely not msgpack")), "")
	assert.ErrorIs(t, err, ErrCorruptStore)
}
