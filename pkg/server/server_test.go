package server

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gossh "golang.org/x/crypto/ssh"

	"github.com/taigrr/sector/pkg/present"
	"github.com/taigrr/sector/pkg/render"
	"github.com/taigrr/sector/pkg/world"
)

func TestEnsureHostKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")
	if err := EnsureHostKey(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PRIVATE KEY" {
		t.Fatalf("not a PEM private key: %q", data)
	}
	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err != nil {
		t.Fatal(err)
	}

	if err := EnsureHostKey(path); err != nil {
		t.Fatal(err)
	}
	again, _ := os.ReadFile(path)
	if !bytes.Equal(data, again) {
		t.Error("existing key was replaced")
	}
}

// syncBuffer collects session output written from another goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	m, start := world.Demo()
	s, err := New(Config{
		HostKey:  filepath.Join(t.TempDir(), "host_key"),
		Map:      m,
		Start:    start,
		Settings: present.Settings{Format: render.TrueColor32, Gamma: 1},
		Render:   render.Options{Workers: 2},
		FPS:      60,
	})
	if err != nil {
		t.Fatal(err)
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, l) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Serve: %v", err)
		}
	})
	return s, l.Addr().String()
}

func dial(t *testing.T, addr string) *gossh.Client {
	t.Helper()
	client, err := gossh.Dial("tcp", addr, &gossh.ClientConfig{
		User:            "tester",
		HostKeyCallback: gossh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSessionRequiresPty(t *testing.T) {
	_, addr := startServer(t)
	sess, err := dial(t, addr).NewSession()
	if err != nil {
		t.Fatal(err)
	}
	out, _ := sess.CombinedOutput("")
	if !strings.Contains(string(out), "PTY required") {
		t.Errorf("output = %q", out)
	}
}

func TestSessionRendersAndQuits(t *testing.T) {
	s, addr := startServer(t)
	sess, err := dial(t, addr).NewSession()
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.RequestPty("xterm-256color", 24, 80, gossh.TerminalModes{}); err != nil {
		t.Fatal(err)
	}
	var out syncBuffer
	sess.Stdout = &out
	stdin, err := sess.StdinPipe()
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.Shell(); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for !strings.Contains(out.String(), "▀") {
		if time.Now().After(deadline) {
			t.Fatal("no frame received")
		}
		time.Sleep(20 * time.Millisecond)
	}
	if s.Active() != 1 {
		t.Errorf("active sessions = %d", s.Active())
	}

	if _, err := io.WriteString(stdin, "q"); err != nil {
		t.Fatal(err)
	}
	waitErr := make(chan error, 1)
	go func() { waitErr <- sess.Wait() }()
	select {
	case err := <-waitErr:
		if err != nil {
			t.Errorf("session exit: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("session did not end after q")
	}
}
