package resource

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		folder  string
		name    string
		want    string
		wantErr bool
	}{
		{"www.example.com/Hello", "GET.response.json", "www.example.com/Hello/GET.response.json", false},
		{"", "GET.response.json", "GET.response.json", false},
		{"a//b/", "x", "a/b/x", false},
		{`a\b`, "x", "a/b/x", false},
		{"a/../b", "x", "", true},
		{"a", "../x", "", true},
		{"a", "", "", true},
		{"a", "..", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.folder+"|"+tt.name, func(t *testing.T) {
			got, err := cleanPath(tt.folder, tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ok, err := store.Exists("example.com/api", "GET.response.json")
	require.NoError(t, err)
	assert.False(t, ok)

	rc, ok, err := store.Open("example.com/api", "GET.response.json")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rc)

	require.NoError(t, store.Save("example.com/api", "GET.response.json", strings.NewReader(`{"StatusCode":200}`)))

	ok, err = store.Exists("example.com/api", "GET.response.json")
	require.NoError(t, err)
	assert.True(t, ok)

	text, ok, err := LoadString(store, "example.com/api", "GET.response.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"StatusCode":200}`, text)

	_, err = os.Stat(filepath.Join(dir, "example.com", "api", "GET.response.json"))
	assert.NoError(t, err)

	// Overwrite replaces the file and leaves no temporary files behind.
	require.NoError(t, store.Save("example.com/api", "GET.response.json", strings.NewReader(`{}`)))
	entries, err := os.ReadDir(filepath.Join(dir, "example.com", "api"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// A folder is not a fixture.
	ok, err = store.Exists("example.com", "api")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_RejectsEscape(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save("../outside", "x.json", strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestFileStore_EmptyDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestFileStore_ConcurrentSave(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	payloads := []string{strings.Repeat("a", 64*1024), strings.Repeat("b", 64*1024)}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Save("h", "GET.response.json", strings.NewReader(payloads[i%2])))
		}(i)
	}
	wg.Wait()

	text, ok, err := LoadString(store, "h", "GET.response.json")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, payloads, text)
}

func TestFileStore_List(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	names, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.Save("b.com/x", "GET.response.json", strings.NewReader("{}")))
	require.NoError(t, store.Save("a.com", "POST.abc.response.json", strings.NewReader("{}")))
	require.NoError(t, store.Save("a.com", "POST.abc.content.json", strings.NewReader("{}")))

	names, err = store.List("")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.com/POST.abc.response.json", "b.com/x/GET.response.json"}, names)

	names, err = store.List("a.com/*")
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestFSStore_CaseSensitivity(t *testing.T) {
	fsys := fstest.MapFS{
		"www.example.com/Hello/GET.response.json": &fstest.MapFile{Data: []byte("{}")},
	}

	sensitive := NewFSStore(fsys)
	ok, err := sensitive.Exists("www.example.com/Hello", "GET.response.json")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = sensitive.Exists("WWW.EXAMPLE.COM/hello", "get.response.json")
	require.NoError(t, err)
	assert.False(t, ok)

	insensitive := NewFSStore(fsys, WithCaseInsensitive())
	ok, err = insensitive.Exists("WWW.EXAMPLE.COM/hello", "get.response.json")
	require.NoError(t, err)
	assert.True(t, ok)

	data, ok, err := Load(insensitive, "www.example.com/HELLO", "GET.RESPONSE.JSON")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", string(data))

	_, ok, err = insensitive.Open("www.example.com/Hello", "POST.response.json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFSStore_NotWritable(t *testing.T) {
	var s Store = NewFSStore(fstest.MapFS{})
	_, ok := s.(WritableStore)
	assert.False(t, ok)
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestZipStore(t *testing.T) {
	data := buildZip(t, map[string]string{
		"www.example.com/HelloWorldService/GET.response.json": `{"StatusCode":200}`,
		"www.example.com/HelloWorldService/GET.content.json":  `{"Message":"Hello World"}`,
	})

	t.Run("reader", func(t *testing.T) {
		store, err := NewZipStore(bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		text, ok, err := LoadString(store, "www.example.com/helloworldservice", "get.content.json")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Contains(t, text, "Hello World")

		ok, err = store.Exists("www.example.com/HelloWorldService", "POST.response.json")
		require.NoError(t, err)
		assert.False(t, ok)

		names, err := store.List("")
		require.NoError(t, err)
		assert.Equal(t, []string{"www.example.com/HelloWorldService/GET.response.json"}, names)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fixtures.zip")
		require.NoError(t, os.WriteFile(path, data, 0644))

		store, err := OpenZip(path)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		ok, err := store.Exists("WWW.EXAMPLE.COM/HelloWorldService", "GET.response.json")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing archive", func(t *testing.T) {
		_, err := OpenZip(filepath.Join(t.TempDir(), "nope.zip"))
		assert.Error(t, err)
	})
}

func TestEmbeddedStore(t *testing.T) {
	fsys := fstest.MapFS{
		"fixtures/www.example.com.HelloWorldService.GET.response.json": &fstest.MapFile{Data: []byte(`{"StatusCode":200}`)},
	}
	store := NewEmbeddedStore(fsys, "fixtures")

	name, err := store.ResourceName("www.example.com/HelloWorldService", "GET.response.json")
	require.NoError(t, err)
	assert.Equal(t, "www.example.com.HelloWorldService.GET.response.json", name)

	ok, err := store.Exists("www.example.com/HelloWorldService", "GET.response.json")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = store.Open("www.example.com/Other", "GET.response.json")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := store.List("")
	require.NoError(t, err)
	assert.Equal(t, []string{"www.example.com.HelloWorldService.GET.response.json"}, names)
}

func TestSandboxStore(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	assert.Equal(t, filepath.Join(dataHome, "myapp", "fixtures"), SandboxDir("myapp"))

	_, err := OpenSandbox("../evil")
	assert.ErrorIs(t, err, ErrInvalidName)

	sandboxDir := filepath.Join(t.TempDir(), "fixtures")
	require.NoError(t, os.MkdirAll(filepath.Join(sandboxDir, "example.com"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sandboxDir, "example.com", "GET.response.json"), []byte("{}"), 0644))

	store, err := OpenSandboxDir(sandboxDir)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ok, err := store.Exists("example.com", "GET.response.json")
	require.NoError(t, err)
	assert.True(t, ok)

	text, ok, err := LoadString(store, "example.com", "GET.response.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", text)

	_, ok, err = store.Open("example.com", "POST.response.json")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := store.List("")
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/GET.response.json"}, names)

	var s Store = store
	_, writable := s.(WritableStore)
	assert.False(t, writable)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Save("a.com/x", "GET.response.json", strings.NewReader("one")))
	assert.Equal(t, 1, store.Len())

	text, ok, err := LoadString(store, "a.com/x", "GET.response.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one", text)

	names, err := store.List("**/*.response.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.com/x/GET.response.json"}, names)

	assert.True(t, store.Delete("a.com/x", "GET.response.json"))
	assert.False(t, store.Delete("a.com/x", "GET.response.json"))

	_, ok, err = LoadString(store, "a.com/x", "GET.response.json")
	require.NoError(t, err)
	assert.False(t, ok)
}
