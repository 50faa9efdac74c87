package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)
	ctx := context.Background()

	err = st.Save(ctx, "users/avatar.png", strings.NewReader("image-bytes"))
	require.NoError(t, err)

	exists, err := st.Exists(ctx, "users/avatar.png")
	require.NoError(t, err)
	assert.True(t, exists)

	size, err := st.GetSize(ctx, "users/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, int64(len("image-bytes")), size)

	reader, err := st.Get(ctx, "users/avatar.png")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	require.NoError(t, st.Delete(ctx, "users/avatar.png"))

	exists, err = st.Exists(ctx, "users/avatar.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_DeleteMissingFileIsNoop(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	assert.NoError(t, st.Delete(context.Background(), "users/missing.png"))
}

func TestLocalStorage_GetURL(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir(), "/files/")
	require.NoError(t, err)

	assert.Equal(t, "/files/users/avatar.png", st.GetURL("users/avatar.png"))
}

func TestLocalStorage_PathTraversalContained(t *testing.T) {
	base := t.TempDir()
	st, err := NewLocalStorage(base, "/files")
	require.NoError(t, err)
	ctx := context.Background()

	// Попытка выйти за пределы корня хранилища остается внутри него
	err = st.Save(ctx, "../escape.txt", strings.NewReader("x"))
	require.NoError(t, err)

	exists, err := st.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}
