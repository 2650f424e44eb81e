// Command tachyfont-server serves TachyFont bundle requests: a JSON body
// naming a font and a list of code points comes in, a binary BSAC bundle
// goes out (spec section 6's request protocol).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/tachyfont/tachyfont/internal/bundle"
	"github.com/tachyfont/tachyfont/internal/config"
)

type server struct {
	logger    *slog.Logger
	artifactDir string

	mu        sync.RWMutex
	artifacts map[string]*bundle.Artifacts
}

type request struct {
	Font       string `json:"font"`
	Codepoints []int32 `json:"codepoints"`
}

func (s *server) getArtifacts(font string) (*bundle.Artifacts, error) {
	s.mu.RLock()
	a, ok := s.artifacts[font]
	s.mu.RUnlock()
	if ok {
		return a, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.artifacts[font]; ok {
		return a, nil
	}
	a, err := bundle.OpenArtifacts(filepath.Join(s.artifactDir, font))
	if err != nil {
		return nil, err
	}
	s.artifacts[font] = a
	return a, nil
}

func (s *server) handleBundle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := s.getArtifacts(req.Font)
	if err != nil {
		s.logger.Error("opening artifacts", "font", req.Font, "error", err)
		http.Error(w, "unknown font", http.StatusNotFound)
		return
	}

	codepoints := make([]rune, len(req.Codepoints))
	for i, c := range req.Codepoints {
		codepoints[i] = rune(c)
	}

	out, err := a.Assemble(codepoints)
	if err != nil {
		// Per spec section 7, artifact corruption is the only thing that
		// raises here; "codepoint not present" never does.
		s.logger.Error("assembling bundle", "font", req.Font, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(out)
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	artifactDir := flag.String("artifact-dir", "", "directory containing one subdirectory per font's artifact set")
	configPath := flag.String("config", "", "path to a TOML configuration file (optional)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Error("loading config", "error", err)
			os.Exit(1)
		}
	}
	dir := *artifactDir
	if dir == "" {
		dir = cfg.Bundle.ArtifactDir
	}
	if dir == "" {
		fmt.Fprintln(os.Stderr, "usage: tachyfont-server -artifact-dir DIR [-addr :8080] [-config CONFIG]")
		os.Exit(2)
	}

	s := &server{logger: logger, artifactDir: dir, artifacts: map[string]*bundle.Artifacts{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/bundle", s.handleBundle)

	logger.Info("listening", "addr", *addr, "artifactDir", dir)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
