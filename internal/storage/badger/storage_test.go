package badger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	store, err := badgerhold.Open(storeOptions(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return newManager(&BadgerDB{store: store}, arbor.NewLogger())
}

func TestDocumentStorage_RoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	storage := m.DocumentStorage()

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := &models.Document{
		ID:        "doc_1",
		Title:     "Test",
		Type:      models.DocumentTypePDF,
		Meta:      map[string]interface{}{"pages": float64(12), "source": "paper.pdf"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, storage.SaveDocument(ctx, doc))

	got, err := storage.GetDocument(ctx, "doc_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Meta, got.Meta)
	assert.True(t, doc.CreatedAt.Equal(got.CreatedAt))

	count, err := storage.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDocumentStorage_MissingIsNil(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	doc, err := m.DocumentStorage().GetDocument(ctx, "doc_missing")
	assert.NoError(t, err)
	assert.Nil(t, doc)

	assert.NoError(t, m.DocumentStorage().DeleteDocument(ctx, "doc_missing"))
}

func TestDocumentStorage_RequiresID(t *testing.T) {
	m := newTestManager(t)
	err := m.DocumentStorage().SaveDocument(context.Background(), &models.Document{Title: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidDocument)
}

func TestAnnotationStorage_SearchAnnotations(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	storage := m.AnnotationStorage()

	require.NoError(t, storage.SaveAnnotationSet(ctx, &models.AnnotationSet{
		DocumentID: "doc_1",
		Annotations: []models.Annotation{
			{ID: "ann_1", DocumentID: "doc_1", Quote: "The Quick brown fox"},
		},
	}))
	require.NoError(t, storage.SaveAnnotationSet(ctx, &models.AnnotationSet{
		DocumentID: "doc_2",
		Annotations: []models.Annotation{
			{ID: "ann_2", DocumentID: "doc_2", Note: "unrelated", Tags: []string{"Faith"}},
		},
	}))

	sets, err := storage.SearchAnnotations(ctx, "quick")
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "doc_1", sets[0].DocumentID)

	sets, err = storage.SearchAnnotations(ctx, "faith")
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "doc_2", sets[0].DocumentID)

	// Regex metacharacters are literal
	sets, err = storage.SearchAnnotations(ctx, "fox.*")
	require.NoError(t, err)
	assert.Empty(t, sets)
}

func TestDocumentBodyStorage_SearchBodies(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	storage := m.DocumentBodyStorage()

	require.NoError(t, storage.SaveBody(ctx, &models.DocumentBody{DocumentID: "doc_1", Text: "Read ROMANS chapter five"}))
	require.NoError(t, storage.SaveBody(ctx, &models.DocumentBody{DocumentID: "doc_2", Text: "Genesis (1:1)"}))

	bodies, err := storage.SearchBodies(ctx, "romans")
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	assert.Equal(t, "doc_1", bodies[0].DocumentID)

	bodies, err = storage.SearchBodies(ctx, "(1:1)")
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	assert.Equal(t, "doc_2", bodies[0].DocumentID)

	bodies, err = storage.SearchBodies(ctx, "exodus")
	require.NoError(t, err)
	assert.Empty(t, bodies)
}

func TestBookmarkStorage_ListBookmarkSets(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	storage := m.BookmarkStorage()

	sets, err := storage.ListBookmarkSets(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets)

	require.NoError(t, storage.SaveBookmarkSet(ctx, &models.BookmarkSet{DocumentID: "doc_1", Bookmarks: []models.Bookmark{{ID: "bm_1"}}}))
	require.NoError(t, storage.SaveBookmarkSet(ctx, &models.BookmarkSet{DocumentID: "doc_2", Bookmarks: []models.Bookmark{{ID: "bm_2"}, {ID: "bm_3"}}}))

	sets, err = storage.ListBookmarkSets(ctx)
	require.NoError(t, err)
	counts := map[string]int{}
	for _, set := range sets {
		counts[set.DocumentID] = len(set.Bookmarks)
	}
	assert.Equal(t, map[string]int{"doc_1": 1, "doc_2": 2}, counts)
}

func TestDocumentAndAnnotationKeysDoNotCollide(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.DocumentStorage().SaveDocument(ctx, &models.Document{ID: "doc_1", Title: "A"}))
	require.NoError(t, m.AnnotationStorage().SaveAnnotationSet(ctx, &models.AnnotationSet{DocumentID: "doc_1"}))
	require.NoError(t, m.DocumentBodyStorage().SaveBody(ctx, &models.DocumentBody{DocumentID: "doc_1", Text: "body"}))

	require.NoError(t, m.AnnotationStorage().DeleteAnnotationSet(ctx, "doc_1"))

	doc, err := m.DocumentStorage().GetDocument(ctx, "doc_1")
	require.NoError(t, err)
	require.NotNil(t, doc)

	body, err := m.DocumentBodyStorage().GetBody(ctx, "doc_1")
	require.NoError(t, err)
	require.NotNil(t, body)
	assert.Equal(t, "body", body.Text)
}

// xorSealer is a reversible stand-in for the vault
type xorSealer struct {
	enabled bool
}

var sealedMarker = []byte("SEALED:")

func (s *xorSealer) Enabled() bool { return s.enabled }

func (s *xorSealer) Seal(plain []byte) ([]byte, error) {
	out := append([]byte{}, sealedMarker...)
	for _, b := range plain {
		out = append(out, b^0x5a)
	}
	return out, nil
}

func (s *xorSealer) Open(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, sealedMarker) {
		return data, nil
	}
	if !s.enabled {
		return nil, errors.New("locked")
	}
	out := []byte{}
	for _, b := range data[len(sealedMarker):] {
		out = append(out, b^0x5a)
	}
	return out, nil
}

// rawForTest returns the stored bytes without opening them
func (s *FileStorage) rawForTest(key string) ([]byte, error) {
	var value []byte
	err := s.db.Store().Badger().View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(fileKeyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

func TestFileStorage_PlainAndSealed(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	files := m.FileStorage()

	require.NoError(t, files.SaveFile(ctx, "orig:doc_1", []byte("plain bytes")))

	sealer := &xorSealer{enabled: true}
	m.SetSealer(sealer)
	require.NoError(t, files.SaveFile(ctx, "orig:doc_2", []byte("secret bytes")))

	// Plain blobs written before encryption stay readable
	data, err := files.GetFile(ctx, "orig:doc_1")
	require.NoError(t, err)
	assert.Equal(t, []byte("plain bytes"), data)

	data, err = files.GetFile(ctx, "orig:doc_2")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret bytes"), data)

	// The raw value is sealed
	raw, err := m.file.rawForTest("orig:doc_2")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, sealedMarker))

	sealer.enabled = false
	_, err = files.GetFile(ctx, "orig:doc_2")
	assert.Error(t, err)

	keys, err := files.ListFileKeys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"orig:doc_1", "orig:doc_2"}, keys)
}

func TestFileStorage_MissingAndDelete(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	files := m.FileStorage()

	data, err := files.GetFile(ctx, "orig:missing")
	assert.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, files.SaveFile(ctx, "orig:doc_1", []byte("x")))
	data, err = files.GetFile(ctx, "orig:doc_1")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	require.NoError(t, files.DeleteFile(ctx, "orig:doc_1"))
	require.NoError(t, files.DeleteFile(ctx, "orig:doc_1"))
	data, err = files.GetFile(ctx, "orig:doc_1")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestKVStorage(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	kv := m.KeyValueStorage()

	_, err := kv.Get(ctx, "sync_token")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "Sync_Token", "abc", "bearer token"))
	value, err := kv.Get(ctx, "sync_token")
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	require.NoError(t, kv.Set(ctx, "webdav_cfg", "{}", ""))
	require.NoError(t, kv.Set(ctx, "webdav_user", "me", ""))

	require.NoError(t, kv.Delete(ctx, "sync_token"))
	require.NoError(t, kv.Delete(ctx, "sync_token"))

	all, err := kv.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"webdav_cfg": "{}", "webdav_user": "me"}, all)
}

func TestManager_SeedDefaultsAndVariables(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.SeedDefaults(ctx))
	require.NoError(t, m.KeyValueStorage().Set(ctx, "schema_version", "7", ""))
	require.NoError(t, m.SeedDefaults(ctx))

	value, err := m.KeyValueStorage().Get(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "7", value, "existing values are not overwritten")

	path := filepath.Join(t.TempDir(), "variables.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[webdav_password]
value = "s3cret"
description = "WebDAV app password"

[empty]
value = ""
`), 0644))

	loaded, err := m.LoadVariablesFromFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	value, err = m.KeyValueStorage().Get(ctx, "webdav_password")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)
}

func TestManager_LoadEnvFile(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.LoadEnvFile(ctx, filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# sync\nSYNC_TOKEN=\"abc123\"\nWEBDAV_PASSWORD='s3cret'\nEMPTY=\n"), 0644))
	require.NoError(t, m.LoadEnvFile(ctx, path))

	value, err := m.KeyValueStorage().Get(ctx, "sync_token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", value)

	value, err = m.KeyValueStorage().Get(ctx, "WEBDAV_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)

	_, err = m.KeyValueStorage().Get(ctx, "empty")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestStorageErrorOnClosedStore(t *testing.T) {
	store, err := badgerhold.Open(storeOptions(t.TempDir()))
	require.NoError(t, err)
	m := newManager(&BadgerDB{store: store}, arbor.NewLogger())
	require.NoError(t, m.Close())

	err = m.DocumentStorage().SaveDocument(context.Background(), &models.Document{ID: "doc_1"})
	require.Error(t, err)
	assert.True(t, models.IsStorageError(err))
}
