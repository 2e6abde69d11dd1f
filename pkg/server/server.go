// Package server serves viewer sessions over ssh. Every session gets its
// own renderer and framebuffer sized to the client's terminal.
package server

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/gliderlabs/ssh"

	"github.com/taigrr/sector/pkg/metrics"
	"github.com/taigrr/sector/pkg/present"
	"github.com/taigrr/sector/pkg/render"
	"github.com/taigrr/sector/pkg/texture"
	"github.com/taigrr/sector/pkg/viewer"
	"github.com/taigrr/sector/pkg/world"
)

// Config configures a Server.
type Config struct {
	Addr    string
	HostKey string // path to a PEM host key, created if missing

	Map      *world.Map
	Start    world.Start
	Textures *texture.Set
	// Settings supplies format, gamma and frame rate; the size follows
	// each client's terminal.
	Settings present.Settings
	Render   render.Options
	FPS      int

	// Metrics, when set, observes every frame of every session.
	Metrics *metrics.Metrics
}

// Server is an ssh server running one viewer per session.
type Server struct {
	cfg Config
	srv *ssh.Server

	mu     sync.Mutex
	active int
}

// New creates a server, generating its host key when needed.
func New(cfg Config) (*Server, error) {
	if cfg.Map == nil {
		return nil, errors.New("server: no map")
	}
	if err := EnsureHostKey(cfg.HostKey); err != nil {
		return nil, fmt.Errorf("host key: %w", err)
	}
	s := &Server{cfg: cfg}
	s.srv = &ssh.Server{
		Addr:    cfg.Addr,
		Handler: s.handleSession,
	}
	if err := s.srv.SetOption(ssh.HostKeyFile(cfg.HostKey)); err != nil {
		return nil, fmt.Errorf("set host key: %w", err)
	}
	return s, nil
}

// ListenAndServe listens on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	render.Logger().Info("server: listening", "addr", l.Addr().String())
	stop := context.AfterFunc(ctx, func() { s.srv.Close() })
	defer stop()

	err := s.srv.Serve(l)
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

// Active returns the number of open sessions.
func (s *Server) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Server) track(delta int) {
	s.mu.Lock()
	s.active += delta
	s.mu.Unlock()
	if s.cfg.Metrics == nil {
		return
	}
	if delta > 0 {
		s.cfg.Metrics.SessionStarted()
	} else {
		s.cfg.Metrics.SessionEnded()
	}
}

func (s *Server) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		_ = sess.Exit(1)
		return
	}

	username := sess.User()
	if username == "" {
		username = "anonymous"
	}
	log := render.Logger().With("user", username, "remote", sess.RemoteAddr().String())
	log.Info("server: session started", "term", ptyReq.Term,
		"cols", ptyReq.Window.Width, "rows", ptyReq.Window.Height)
	s.track(1)
	defer s.track(-1)

	env := append(sess.Environ(), "TERM="+ptyReq.Term)
	remote := present.NewRemote(sess, env, ptyReq.Window.Width, ptyReq.Window.Height)

	set := s.cfg.Settings
	set.Width, set.Height = present.PixelSize(ptyReq.Window.Width, ptyReq.Window.Height)
	set.Fullscreen = true

	opts := viewer.Options{
		Map:         s.cfg.Map,
		Start:       s.cfg.Start,
		Textures:    s.cfg.Textures,
		Settings:    set,
		Render:      s.cfg.Render,
		FPS:         s.cfg.FPS,
		FitTerminal: true,
		Title:       username,
	}
	if s.cfg.Metrics != nil {
		opts.OnFrame = s.cfg.Metrics.Observe
	}
	v, err := viewer.New(remote, opts)
	if err != nil {
		log.Error("server: session setup failed", "error", err)
		fmt.Fprintf(sess, "Error: %v\n", err)
		_ = sess.Exit(1)
		return
	}

	ctx, cancel := context.WithCancel(sess.Context())
	defer cancel()
	events := make(chan uv.Event, 64)

	go func() {
		defer cancel()
		rd := uv.NewTerminalReader(sess, ptyReq.Term)
		if err := rd.StreamEvents(ctx, events); err != nil && ctx.Err() == nil {
			log.Debug("server: input closed", "error", err)
		}
	}()
	go func() {
		for win := range winCh {
			remote.Resize(win.Width, win.Height)
			select {
			case events <- uv.WindowSizeEvent{Width: win.Width, Height: win.Height}:
			case <-ctx.Done():
				return
			}
		}
	}()

	runErr := v.Run(ctx, events)
	if err := v.Close(); err != nil {
		log.Warn("server: closing session display", "error", err)
	}
	if runErr != nil {
		log.Error("server: session failed", "error", runErr)
		_ = sess.Exit(1)
		return
	}
	log.Info("server: session ended")
	_ = sess.Exit(0)
}

// EnsureHostKey writes a new ed25519 host key to path unless a file already
// exists there.
func EnsureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	render.Logger().Info("server: generating host key", "path", path)
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}
	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := pem.Encode(f, &pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
