package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunchhieng/sqid/internal/model"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(memoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func setupFileDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "links.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAdd(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	created, _, err := s.Add(ctx, &model.Link{
		URL:   "https://example.com",
		Title: "Example",
		Tags:  "test, example",
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), created.Key)
	assert.Equal(t, "https://example.com", created.URL)
	assert.Equal(t, "test,example", created.Tags)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.ReadAt)

	second, _, err := s.Add(ctx, &model.Link{URL: "https://example.org"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Key)
}

func TestAddInvalidURL(t *testing.T) {
	s := setupTestDB(t)

	_, _, err := s.Add(context.Background(), &model.Link{URL: "not a url"})
	assert.ErrorIs(t, err, model.ErrInvalidURL)
}

func TestAddDuplicateMerges(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	created, merged, err := s.Add(ctx, &model.Link{URL: "https://example.com", Title: "Original", Note: "keep", Tags: "tag1"})
	require.NoError(t, err)
	assert.False(t, merged)

	updated, merged, err := s.Add(ctx, &model.Link{URL: "https://example.com", Title: "Updated", Tags: "tag2,TAG1"})
	require.NoError(t, err)
	assert.True(t, merged)

	assert.Equal(t, created.Key, updated.Key)
	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, "keep", updated.Note)
	assert.Equal(t, "tag1,tag2", updated.Tags)
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)
}

func TestGet(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	created, _, err := s.Add(ctx, &model.Link{URL: "https://example.com", Title: "Example"})
	require.NoError(t, err)

	got, err := s.Get(ctx, created.Key)
	require.NoError(t, err)
	assert.Equal(t, created.Key, got.Key)
	assert.Equal(t, "Example", got.Title)
}

func TestGetNotFound(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	for _, key := range []uint64{0, 42, 1 << 63} {
		_, err := s.Get(ctx, key)
		assert.ErrorIs(t, err, model.ErrNotFound, "key %d", key)
	}
}

func TestList(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := s.Add(ctx, &model.Link{
			URL:  fmt.Sprintf("https://example.com/%d", i),
			Tags: fmt.Sprintf("n%d,all", i),
		})
		require.NoError(t, err)
	}

	links, err := s.List(ctx, ListOptions{ReadStatus: ReadStatusAll})
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, uint64(3), links[0].Key, "newest first")

	links, err = s.List(ctx, ListOptions{ReadStatus: ReadStatusAll, Tag: "n1"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/1", links[0].URL)

	links, err = s.List(ctx, ListOptions{ReadStatus: ReadStatusAll, Tag: "n"})
	require.NoError(t, err)
	assert.Empty(t, links, "tags match whole words")

	links, err = s.List(ctx, ListOptions{ReadStatus: ReadStatusAll, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestListTagIsLiteral(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	for _, link := range []*model.Link{
		{URL: "https://example.com/underscore", Tags: "Go_Lang"},
		{URL: "https://example.com/x", Tags: "goxlang"},
		{URL: "https://example.com/percent", Tags: "100%"},
		{URL: "https://example.com/plain", Tags: "100x"},
	} {
		_, _, err := s.Add(ctx, link)
		require.NoError(t, err)
	}

	tests := []struct {
		tag  string
		want []string
	}{
		{"go_lang", []string{"https://example.com/underscore"}},
		{"GO_LANG", []string{"https://example.com/underscore"}},
		{"goxlang", []string{"https://example.com/x"}},
		{"100%", []string{"https://example.com/percent"}},
		{"%", nil},
		{"_", nil},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			links, err := s.List(ctx, ListOptions{ReadStatus: ReadStatusAll, Tag: tt.tag})
			require.NoError(t, err)
			var urls []string
			for _, link := range links {
				urls = append(urls, link.URL)
			}
			assert.Equal(t, tt.want, urls)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\_b\%c\\d`, escapeLike(`a_b%c\d`))
}

func TestListReadStatus(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	first, _, err := s.Add(ctx, &model.Link{URL: "https://example.com/1"})
	require.NoError(t, err)
	second, _, err := s.Add(ctx, &model.Link{URL: "https://example.com/2"})
	require.NoError(t, err)

	require.NoError(t, s.MarkRead(ctx, first.Key))

	unread, err := s.List(ctx, ListOptions{ReadStatus: ReadStatusUnread})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.Key, unread[0].Key)

	read, err := s.List(ctx, ListOptions{ReadStatus: ReadStatusRead})
	require.NoError(t, err)
	require.Len(t, read, 1)
	assert.Equal(t, first.Key, read[0].Key)
}

func TestMarkReadUnread(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	created, _, err := s.Add(ctx, &model.Link{URL: "https://example.com"})
	require.NoError(t, err)

	require.NoError(t, s.MarkRead(ctx, created.Key))
	got, err := s.Get(ctx, created.Key)
	require.NoError(t, err)
	require.NotNil(t, got.ReadAt)
	assert.WithinDuration(t, time.Now(), *got.ReadAt, time.Minute)

	require.NoError(t, s.MarkUnread(ctx, created.Key))
	got, err = s.Get(ctx, created.Key)
	require.NoError(t, err)
	assert.Nil(t, got.ReadAt)

	assert.ErrorIs(t, s.MarkRead(ctx, 99), model.ErrNotFound)
	assert.ErrorIs(t, s.MarkUnread(ctx, 99), model.ErrNotFound)
}

func TestDeleteNeverReusesKeys(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	first, _, err := s.Add(ctx, &model.Link{URL: "https://example.com/1"})
	require.NoError(t, err)
	second, _, err := s.Add(ctx, &model.Link{URL: "https://example.com/2"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, second.Key))
	_, err = s.Get(ctx, second.Key)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, second.Key), model.ErrNotFound)

	third, _, err := s.Add(ctx, &model.Link{URL: "https://example.com/3"})
	require.NoError(t, err)
	assert.Greater(t, third.Key, second.Key)
	assert.NotEqual(t, first.Key, third.Key)
}

func TestImportNeverReissuesDeletedKeys(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	first, _, err := s.Add(ctx, &model.Link{URL: "https://example.com/1"})
	require.NoError(t, err)
	_, _, err = s.Add(ctx, &model.Link{URL: "https://example.com/2"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, first.Key))

	res, err := s.Import(ctx, []*model.Link{
		{Key: first.Key, URL: "https://other.example"},
		{Key: 10, URL: "https://example.com/10"},
		{Key: 4, URL: "https://example.com/4"},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Inserted: 3, Rekeyed: 2}, res)

	_, err = s.Get(ctx, first.Key)
	assert.ErrorIs(t, err, model.ErrNotFound, "a deleted key stays dead")

	kept, err := s.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/10", kept.URL)

	// 4 was never issued, but importing 10 first moved the sequence past it.
	all, err := s.List(ctx, ListOptions{ReadStatus: ReadStatusAll})
	require.NoError(t, err)
	keys := make(map[string]uint64, len(all))
	for _, link := range all {
		keys[link.URL] = link.Key
	}
	assert.Equal(t, uint64(3), keys["https://other.example"])
	assert.Equal(t, uint64(11), keys["https://example.com/4"])

	next, _, err := s.Add(ctx, &model.Link{URL: "https://example.com/next"})
	require.NoError(t, err)
	assert.Equal(t, uint64(12), next.Key)
}

func TestExportImport(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	for _, link := range []*model.Link{
		{URL: "https://example.com/1", Title: "One", Tags: "tag1"},
		{URL: "https://example.com/2", Title: "Two", Tags: "tag2"},
	} {
		_, _, err := s.Add(ctx, link)
		require.NoError(t, err)
	}

	exported, err := s.Export(ctx)
	require.NoError(t, err)
	require.Len(t, exported, 2)

	s2 := setupTestDB(t)
	res, err := s2.Import(ctx, exported)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Inserted: 2}, res)

	for _, link := range exported {
		got, err := s2.Get(ctx, link.Key)
		require.NoError(t, err)
		assert.Equal(t, link.URL, got.URL, "keys survive a round trip")
	}
}

func TestImportMergesAndRekeys(t *testing.T) {
	s := setupFileDB(t)
	ctx := context.Background()

	_, _, err := s.Add(ctx, &model.Link{URL: "https://example.com", Title: "Original", Tags: "tag1"})
	require.NoError(t, err)

	readAt := time.Now()
	res, err := s.Import(ctx, []*model.Link{
		{Key: 7, URL: "https://example.com", Title: "Updated", Note: "New note", Tags: "tag2", ReadAt: &readAt},
		{Key: 1, URL: "https://example.org", Title: "Taken key"},
		{Key: 5, URL: "https://example.net"},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Inserted: 2, Merged: 1, Rekeyed: 1}, res)

	merged, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Original", merged.Title)
	assert.Equal(t, "New note", merged.Note)
	assert.Equal(t, "tag1,tag2", merged.Tags)
	assert.NotNil(t, merged.ReadAt)

	kept, err := s.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "https://example.net", kept.URL)

	all, err := s.List(ctx, ListOptions{ReadStatus: ReadStatusAll})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImportRejectsInvalidURL(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	_, err := s.Import(ctx, []*model.Link{{URL: "https://ok.example"}, {URL: "nope"}})
	assert.ErrorIs(t, err, model.ErrInvalidURL)

	all, err := s.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "import is all or nothing")
}

func TestMeta(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	_, ok, err := s.Meta(ctx, "codec")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetMeta(ctx, "codec", "a"))
	require.NoError(t, s.SetMeta(ctx, "codec", "b"))

	value, ok, err := s.Meta(ctx, "codec")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", value)
}

func TestReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.db")

	s, err := NewSQLiteStorage(path, nil)
	require.NoError(t, err)
	_, _, err = s.Add(context.Background(), &model.Link{URL: "https://example.com"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStorage(path, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.URL)
}

func TestSearch(t *testing.T) {
	s := setupFileDB(t)
	ctx := context.Background()

	_, _, err := s.Add(ctx, &model.Link{
		URL:   "https://example.com",
		Title: "Example Title",
		Note:  "This is a test note",
		Tags:  "test,example",
	})
	require.NoError(t, err)
	_, _, err = s.Add(ctx, &model.Link{URL: "https://other.org", Title: "Unrelated"})
	require.NoError(t, err)

	results, err := s.Search(ctx, "note")
	if err != nil {
		t.Skipf("FTS5 not available: %v", err)
	}
	require.Len(t, results, 1)
	assert.Equal(t, "https://example.com", results[0].URL)
}
