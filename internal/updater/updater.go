// Package updater runs the GitHub webhook endpoint that triggers
// self-updates. A verified push event pulls the new revision and asks
// the process to shut down so the supervisor restarts it on the new
// code.
package updater

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NotifyFunc delivers an update notification to the configured Discord
// channel. A nil NotifyFunc disables notifications.
type NotifyFunc func(ctx context.Context, content string)

// Server is the webhook HTTP server.
type Server struct {
	addr       string
	secret     []byte
	production bool
	notify     NotifyFunc
	shutdown   context.CancelFunc
	log        zerolog.Logger

	// swapped out in tests
	apply func(commits int)
}

// New creates a webhook server. shutdown is invoked after a successful
// pull to stop the whole process gracefully.
func New(addr, secret string, production bool, notify NotifyFunc, shutdown context.CancelFunc, log zerolog.Logger) *Server {
	s := &Server{
		addr:       addr,
		secret:     []byte(secret),
		production: production,
		notify:     notify,
		shutdown:   shutdown,
		log:        log,
	}
	s.apply = s.applyUpdate
	return s
}

// Run starts the server and blocks until it exits or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /update", s.handleUpdate)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down updater server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	s.log.Info().Str("addr", s.addr).Msg("updater webhook server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("updater server: %w", err)
	}
	return nil
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := s.verifySignature(r.Header.Get("X-Hub-Signature"), body); err != nil {
		s.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("webhook signature rejected")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	s.log.Debug().Msg("update webhook fired")
	commits := commitCount(body)

	// respond to GitHub before the pull, the restart closes the socket
	w.WriteHeader(http.StatusOK)

	go s.apply(commits)
}

// verifySignature checks the HMAC-SHA1 payload signature GitHub sends.
func (s *Server) verifySignature(header string, body []byte) error {
	if header == "" {
		return errors.New("missing signature header")
	}
	scheme, signature, ok := strings.Cut(header, "=")
	if !ok || scheme != "sha1" || signature == "" {
		return errors.New("bad signature header")
	}

	mac := hmac.New(sha1.New, s.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errors.New("signature mismatch")
	}
	return nil
}

// commitCount extracts how many commits the push carried, -1 when the
// payload does not say.
func commitCount(body []byte) int {
	var payload struct {
		Size    *int             `json:"size"`
		Commits []json.RawMessage `json:"commits"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return -1
	}
	if payload.Size != nil {
		return *payload.Size
	}
	if len(payload.Commits) > 0 {
		return len(payload.Commits)
	}
	return -1
}

func (s *Server) applyUpdate(commits int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.NotifyRestart(ctx, commits)

	if err := s.gitPull(ctx); err != nil {
		s.log.Error().Err(err).Msg("update pull failed")
		return
	}

	s.shutdown()
}

// gitPull brings the working tree up to date with origin/master. In
// production local changes are discarded so the pull cannot conflict.
func (s *Server) gitPull(ctx context.Context) error {
	s.log.Info().Msg("pull started")

	commands := [][]string{{"git", "pull", "origin", "master"}}
	if s.production {
		commands = [][]string{
			{"git", "fetch", "--all"},
			{"git", "reset", "--hard", "origin/master"},
		}
	}

	for _, argv := range commands {
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s: %w: %s", strings.Join(argv, " "), err, strings.TrimSpace(string(out)))
		}
		s.log.Debug().Str("cmd", strings.Join(argv, " ")).Msg(strings.TrimSpace(string(out)))
	}

	s.log.Info().Msg("pull completed")
	return nil
}

// NotifyRestart announces the restart in the update channel.
func (s *Server) NotifyRestart(ctx context.Context, commits int) {
	if s.notify == nil {
		return
	}
	message := "ℹ Restarting to apply updates"
	if commits != -1 {
		message = fmt.Sprintf("ℹ Restarting to apply **%d** commits", commits)
	}
	s.notify(ctx, message)
}

// BootMessage is the update-channel announcement for a completed boot.
func BootMessage(production bool) string {
	message := "ℹ Bot logged in successfully"
	if !production {
		message += "\n⚠ Running in debug mode"
	}
	return message
}
