package server_test

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mwantia/sftptest/journal"
	"github.com/mwantia/sftptest/log"
	"github.com/mwantia/sftptest/node"
	"github.com/mwantia/sftptest/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func newTestRoot() node.Node {
	return node.MustFrom(map[string]any{
		"a": map[string]any{
			"b": "testfile1",
			"c": "testfile2",
			"f": []string{"testfile5", "testfile6"},
		},
		"d": "testfile3",
		"n": 123,
	})
}

func startTestServer(t *testing.T, opts ...server.ServerOption) *server.Server {
	t.Helper()

	opts = append([]server.ServerOption{server.WithLogger(log.Discard())}, opts...)
	srv, err := server.New(newTestRoot(), opts...)
	require.NoError(t, err)
	require.NoError(t, srv.Start(t.Context()))
	t.Cleanup(func() {
		srv.Close()
	})

	return srv
}

func dialTestServer(t *testing.T, srv *server.Server) *server.Client {
	t.Helper()

	client, err := srv.Dial()
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func readFile(t *testing.T, client *server.Client, path string) string {
	t.Helper()

	f, err := client.Open(path)
	require.NoError(t, err)
	defer f.Close()

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(b)
}

func fileText(t *testing.T, srv *server.Server, path string) string {
	t.Helper()

	n, err := srv.Provider().Lookup(path)
	require.NoError(t, err)
	text, ok := node.Text(n)
	require.True(t, ok, "expected file at %s", path)
	return text
}

func TestServer_URL(t *testing.T) {
	srv := startTestServer(t)

	assert.Regexp(t, regexp.MustCompile(`^sftp://user:pw@127\.0\.0\.1:\d+/$`), srv.URL())
	assert.NotZero(t, srv.Port())
}

func TestServer_ReadDir(t *testing.T) {
	srv := startTestServer(t)
	client := dialTestServer(t, srv)

	infos, err := client.ReadDir("/")
	require.NoError(t, err)

	var names []string
	for _, info := range infos {
		names = append(names, info.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{"a", "d", "n"}, names)

	infos, err = client.ReadDir("/a/f")
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	_, err = client.ReadDir("/missing")
	assert.Error(t, err)
}

func TestServer_Read(t *testing.T) {
	srv := startTestServer(t)
	client := dialTestServer(t, srv)

	assert.Equal(t, "testfile1", readFile(t, client, "/a/b"))
	assert.Equal(t, "testfile6", readFile(t, client, "/a/f/1"))
	assert.Equal(t, "123", readFile(t, client, "/n"))

	// missing files may fail at open or at the first read
	f, err := client.Open("/a/missing")
	if err == nil {
		_, err = io.ReadAll(f)
		f.Close()
	}
	assert.Error(t, err)
}

func TestServer_Stat(t *testing.T) {
	srv := startTestServer(t)
	client := dialTestServer(t, srv)

	info, err := client.Stat("/n")
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())
	assert.False(t, info.IsDir())

	info, err = client.Stat("/a")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = client.Stat("/missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestServer_Create(t *testing.T) {
	srv := startTestServer(t)
	client := dialTestServer(t, srv)

	f, err := client.Create("/a/e")
	require.NoError(t, err)
	_, err = f.Write([]byte("testfile4"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, "testfile4", fileText(t, srv, "/a/e"))

	f, err = client.Create("/a/b")
	require.NoError(t, err)
	_, err = f.Write([]byte("short"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, "short", fileText(t, srv, "/a/b"))

	_, err = client.Create("/missing/e")
	assert.Error(t, err)
}

func TestServer_WriteAt(t *testing.T) {
	tests := []struct {
		offset   int64
		expected string
	}{
		{4, "testtest6"},
		{5, "testftest"},
		{9, "testfile6test"},
		{10, "testfile6\x00test"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("offset-%d", tt.offset), func(tst *testing.T) {
			srv := startTestServer(tst)
			client := dialTestServer(tst, srv)

			f, err := client.OpenFile("/a/f/1", os.O_WRONLY)
			require.NoError(tst, err)
			_, err = f.WriteAt([]byte("test"), tt.offset)
			require.NoError(tst, err)
			require.NoError(tst, f.Close())

			assert.Equal(tst, tt.expected, fileText(tst, srv, "/a/f/1"))
		})
	}
}

func TestServer_Remove(t *testing.T) {
	srv := startTestServer(t)
	client := dialTestServer(t, srv)

	require.NoError(t, client.Remove("/a/b"))
	assert.False(t, srv.Provider().Exists("/a/b"))

	err := client.Remove("/a/f/10")
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, client.RemoveDirectory("/a/f"))
	assert.False(t, srv.Provider().Exists("/a/f"))
}

func TestServer_Mkdir(t *testing.T) {
	srv := startTestServer(t)
	client := dialTestServer(t, srv)

	require.NoError(t, client.Mkdir("/a/new"))
	infos, err := client.ReadDir("/a/new")
	require.NoError(t, err)
	assert.Empty(t, infos)

	assert.Error(t, client.Mkdir("/a/b"))
	assert.Equal(t, "testfile1", fileText(t, srv, "/a/b"))
}

func TestServer_Rename(t *testing.T) {
	srv := startTestServer(t)
	client := dialTestServer(t, srv)

	before, err := srv.Provider().Times("/a/c")
	require.NoError(t, err)

	require.NoError(t, client.Rename("/a/c", "/a/x"))
	assert.False(t, srv.Provider().Exists("/a/c"))
	assert.Equal(t, "testfile2", fileText(t, srv, "/a/x"))

	after, err := srv.Provider().Times("/a/x")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	assert.Error(t, client.Rename("/a/missing", "/a/y"))
	assert.Error(t, client.Rename("/a/b", "/missing/y"))
	assert.True(t, srv.Provider().Exists("/a/b"))

	require.NoError(t, client.PosixRename("/a/b", "/a/x"))
	assert.Equal(t, "testfile1", fileText(t, srv, "/a/x"))
}

func TestServer_Chmod(t *testing.T) {
	srv := startTestServer(t)
	client := dialTestServer(t, srv)

	assert.NoError(t, client.Chmod("/a/b", 0600))
	assert.Error(t, client.Chmod("/missing", 0600))
}

func TestServer_ServeContent(t *testing.T) {
	srv := startTestServer(t)
	client := dialTestServer(t, srv)

	err := srv.ServeContent(node.MustFrom(map[string]any{"other": "content"}), func() error {
		assert.Equal(t, "content", readFile(t, client, "/other"))
		_, err := client.Stat("/a")
		assert.ErrorIs(t, err, os.ErrNotExist)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "testfile1", readFile(t, client, "/a/b"))
	_, err = client.Stat("/other")
	assert.ErrorIs(t, err, os.ErrNotExist)

	restore := srv.ReplaceContent(node.NewMapping())
	infos, err := client.ReadDir("/")
	require.NoError(t, err)
	assert.Empty(t, infos)
	restore()
}

func TestServer_Journal(t *testing.T) {
	srv := startTestServer(t)
	client := dialTestServer(t, srv)

	require.NoError(t, client.Rename("/a/c", "/a/x"))
	assert.Error(t, client.Remove("/a/missing"))

	entries, err := srv.Journal().Entries(t.Context(), journal.Filter{Op: journal.OpRename})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/a/c", entries[0].Path)
	assert.Equal(t, "/a/x", entries[0].Target)
	assert.NotEmpty(t, entries[0].Session)

	removes, err := srv.Journal().Entries(t.Context(), journal.Filter{Op: journal.OpRemove, Path: "/a/missing"})
	require.NoError(t, err)
	require.NotEmpty(t, removes)
	assert.True(t, removes[0].Failed())
}

func TestServer_ConcurrentClients(t *testing.T) {
	srv := startTestServer(t)

	const clients = 8
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			client, err := srv.Dial()
			if !assert.NoError(t, err) {
				return
			}
			defer client.Close()

			f, err := client.Create(fmt.Sprintf("/a/client%d", i))
			if !assert.NoError(t, err) {
				return
			}
			_, err = f.Write([]byte(fmt.Sprintf("content%d", i)))
			assert.NoError(t, err)
			assert.NoError(t, f.Close())
		}(i)
	}
	wg.Wait()

	for i := 0; i < clients; i++ {
		assert.Equal(t, fmt.Sprintf("content%d", i), fileText(t, srv, fmt.Sprintf("/a/client%d", i)))
	}
}

func TestServer_HostKeyFile(t *testing.T) {
	path := t.TempDir() + "/host_key"
	signer, err := server.WriteHostKey(path)
	require.NoError(t, err)

	srv := startTestServer(t, server.WithHostKeyFile(path), server.WithCredentials("alice", "secret"))

	config := &ssh.ClientConfig{
		User:            "alice",
		Auth:            []ssh.AuthMethod{ssh.Password("anything")},
		HostKeyCallback: ssh.FixedHostKey(signer.PublicKey()),
	}
	conn, err := ssh.Dial("tcp", srv.Addr().String(), config)
	require.NoError(t, err)
	conn.Close()

	assert.Contains(t, srv.URL(), "sftp://alice:secret@")

	_, err = server.New(nil, server.WithHostKeyFile(t.TempDir()+"/missing"))
	assert.Error(t, err)
}

func TestServer_Close(t *testing.T) {
	srv, err := server.New(newTestRoot(), server.WithLogger(log.Discard()))
	require.NoError(t, err)
	require.NoError(t, srv.Start(t.Context()))
	require.True(t, srv.WaitForBind(time.Second))

	client, err := srv.Dial()
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, srv.Close())

	_, err = client.Stat("/a")
	assert.Error(t, err)

	_, err = srv.Dial()
	assert.Error(t, err)
	assert.NoError(t, srv.Close())
}
