package poster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStore_Save(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		setup    func(t *testing.T, s *Store)
		wantErr  error
	}{
		{
			name:     "success",
			filename: "poster.png",
			data:     []byte("png-bytes"),
		},
		{
			name:     "empty file rejected",
			filename: "empty.png",
			data:     nil,
			wantErr:  ErrEmptyFile,
		},
		{
			name:     "duplicate name rejected",
			filename: "poster.png",
			data:     []byte("other-bytes"),
			setup: func(t *testing.T, s *Store) {
				_, err := s.Save("poster.png", []byte("first"))
				require.NoError(t, err)
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			if tt.setup != nil {
				tt.setup(t, store)
			}

			name, err := store.Save(tt.filename, tt.data)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.filename, name)

			got, err := os.ReadFile(filepath.Join(store.Dir(), name))
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestStore_Save_DuplicateLeavesOriginal(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save("poster.png", []byte("original"))
	require.NoError(t, err)

	_, err = store.Save("poster.png", []byte("replacement"))
	require.ErrorIs(t, err, ErrFileExists)

	got, err := os.ReadFile(store.Path("poster.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)
}

func TestStore_Exists(t *testing.T) {
	store := newTestStore(t)

	assert.False(t, store.Exists("poster.png"))

	_, err := store.Save("poster.png", []byte("bytes"))
	require.NoError(t, err)

	assert.True(t, store.Exists("poster.png"))
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save("poster.png", []byte("bytes"))
	require.NoError(t, err)

	require.NoError(t, store.Delete("poster.png"))
	assert.False(t, store.Exists("poster.png"))

	require.ErrorIs(t, store.Delete("poster.png"), ErrFileNotFound)
}

func TestStore_RemoveIfPresent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RemoveIfPresent("missing.png"))

	_, err := store.Save("poster.png", []byte("bytes"))
	require.NoError(t, err)
	require.NoError(t, store.RemoveIfPresent("poster.png"))
	assert.False(t, store.Exists("poster.png"))
}

func TestStore_Path_StripsDirectories(t *testing.T) {
	store := newTestStore(t)

	assert.Equal(t, filepath.Join(store.Dir(), "x.png"), store.Path("../../x.png"))
}
