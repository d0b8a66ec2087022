// Package httpx exposes the engine over JSON APIs and a WebSocket state
// stream. One server hosts many games, each keyed by a UUID and guarded by
// its own mutex; the engine itself stays single-threaded.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"multiverse_chess/internal/game"
	"multiverse_chess/internal/replay"
	"multiverse_chess/internal/shared"
)

const maxJSONBodyBytes int64 = 1 << 20

// Server wires the HTTP layer to the game registry and the replay store.
type Server struct {
	log            zerolog.Logger
	store          *replay.Store
	defaultVariant game.Variant

	mu    sync.Mutex
	games map[string]*session

	upgrader websocket.Upgrader
}

type session struct {
	mu    sync.Mutex
	game  *game.Game
	conns map[*websocket.Conn]bool
}

// NewServer builds a Server around the replay store.
func NewServer(log zerolog.Logger, store *replay.Store, defaultVariant game.Variant) *Server {
	return &Server{
		log:            log,
		store:          store,
		defaultVariant: defaultVariant,
		games:          make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Routes mounts every endpoint on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/games", s.withJSON(s.handleCreateGame))
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/state", s.withJSON(s.handleState))
			r.Get("/moves", s.withJSON(s.handleLegalMoves))
			r.Post("/move", s.withJSON(s.handleMove))
			r.Post("/undo", s.withJSON(s.handleUndo))
			r.Post("/submit", s.withJSON(s.handleSubmit))
			r.Post("/resign", s.withJSON(s.handleResign))
			r.Post("/save", s.withJSON(s.handleSave))
			r.Get("/ws", s.handleWS)
		})
		r.Get("/replays", s.withJSON(s.handleListReplays))
		r.Get("/replays/{name}", s.withJSON(s.handleLoadReplay))
	})
	return r
}

// ---- JSON helpers ----

func (s *Server) withJSON(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	sess := s.games[id]
	s.mu.Unlock()
	if sess == nil {
		writeError(w, http.StatusNotFound, "game not found")
		return nil
	}
	return sess
}

// ---- games ----

type createGameBody struct {
	Variant string            `json:"variant"`
	Seed    int64             `json:"seed"`
	Time    *game.TimeOptions `json:"time"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var body createGameBody
	if r.Body != nil && r.Body != http.NoBody {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	variant := s.defaultVariant
	if body.Variant != "" {
		parsed, ok := game.ParseVariant(body.Variant)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid variant")
			return
		}
		variant = parsed
	}

	g := game.NewGame(game.Options{Variant: variant, Seed: body.Seed, Time: body.Time}, [2]bool{true, true})
	id := uuid.NewString()
	sess := &session{game: g, conns: make(map[*websocket.Conn]bool)}
	s.mu.Lock()
	s.games[id] = sess
	s.mu.Unlock()

	s.log.Info().Str("game", id).Str("variant", string(variant)).Msg("game created")
	writeJSON(w, map[string]any{"id": id, "state": g.Snapshot()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	state := sess.game.Snapshot()
	sess.mu.Unlock()
	writeJSON(w, map[string]any{"state": state})
}

// ---- moves ----

type moveBody struct {
	From      game.Vec4 `json:"from"`
	To        game.Vec4 `json:"to"`
	Promotion string    `json:"promotion"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	var body moveBody
	if !decodeBody(w, r, &body) {
		return
	}

	var promo *game.PieceType
	if trimmed := strings.TrimSpace(body.Promotion); trimmed != "" {
		pt, ok := shared.ParsePromotionPiece(trimmed)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid promotion choice")
			return
		}
		promo = &pt
	}

	sess.mu.Lock()
	pc := sess.game.PieceAt(body.From)
	var err error
	if pc == nil {
		err = errors.New("no piece at source position")
	} else {
		err = sess.game.TryMakeMove(pc, body.To, promo)
	}
	state := sess.game.Snapshot()
	sess.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.broadcast(s.log, state)
	writeJSON(w, map[string]any{"state": state})
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	from, ok := vecFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid position query")
		return
	}

	sess.mu.Lock()
	pc := sess.game.PieceAt(from)
	var moves []game.Vec4
	if pc != nil {
		moves = sess.game.LegalMovesFor(pc)
	}
	sess.mu.Unlock()

	if pc == nil {
		writeError(w, http.StatusNotFound, "no piece at position")
		return
	}
	if moves == nil {
		moves = []game.Vec4{}
	}
	writeJSON(w, map[string]any{"moves": moves})
}

func vecFromQuery(r *http.Request) (game.Vec4, bool) {
	var v game.Vec4
	for _, part := range []struct {
		key string
		dst *int
	}{
		{"x", &v.X}, {"y", &v.Y}, {"l", &v.L}, {"t", &v.T},
	} {
		n, err := strconv.Atoi(r.URL.Query().Get(part.key))
		if err != nil {
			return game.Vec4{}, false
		}
		*part.dst = n
	}
	return v, true
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	ok := sess.game.Undo()
	state := sess.game.Snapshot()
	sess.mu.Unlock()

	if !ok {
		writeError(w, http.StatusBadRequest, game.ErrNothingToUndo.Error())
		return
	}
	sess.broadcast(s.log, state)
	writeJSON(w, map[string]any{"state": state})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	res := sess.game.Submit()
	state := sess.game.Snapshot()
	sess.mu.Unlock()

	if !res.Submitted {
		writeError(w, http.StatusBadRequest, game.ErrSubmitNotReady.Error())
		return
	}
	sess.broadcast(s.log, state)
	writeJSON(w, map[string]any{"result": res, "state": state})
}

type resignBody struct {
	Side string `json:"side"`
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	var body resignBody
	if !decodeBody(w, r, &body) {
		return
	}
	side, ok := shared.ParseSide(body.Side)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid side")
		return
	}

	sess.mu.Lock()
	sess.game.Resign(side)
	state := sess.game.Snapshot()
	sess.mu.Unlock()

	sess.broadcast(s.log, state)
	writeJSON(w, map[string]any{"state": state})
}

// ---- replays ----

type saveBody struct {
	Name string `json:"name"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	var body saveBody
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "missing replay name")
		return
	}

	sess.mu.Lock()
	rec := replay.Record{
		Name:    body.Name,
		Options: sess.game.Options,
		State:   sess.game.Snapshot(),
	}
	for _, mv := range sess.game.CurrentTurnMoves() {
		rec.Moves = append(rec.Moves, game.RecordOfMove(mv))
	}
	sess.mu.Unlock()

	if err := s.store.Save(rec); err != nil {
		s.log.Error().Err(err).Str("name", body.Name).Msg("replay save failed")
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, map[string]any{"saved": body.Name})
}

func (s *Server) handleListReplays(w http.ResponseWriter, _ *http.Request) {
	names, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, map[string]any{"replays": names})
}

func (s *Server) handleLoadReplay(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, err := s.store.Load(name)
	if err != nil {
		if errors.Is(err, replay.ErrNotFound) {
			writeError(w, http.StatusNotFound, "replay not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "load failed")
		return
	}
	writeJSON(w, map[string]any{"replay": rec})
}

// ---- websocket ----

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	sess.mu.Lock()
	sess.conns[conn] = true
	state := sess.game.Snapshot()
	sess.mu.Unlock()

	if err := conn.WriteJSON(map[string]any{"state": state}); err != nil {
		sess.drop(conn)
		return
	}

	// Reader loop only notices the close; clients never send commands here.
	go func() {
		defer sess.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (sess *session) drop(conn *websocket.Conn) {
	sess.mu.Lock()
	delete(sess.conns, conn)
	sess.mu.Unlock()
	_ = conn.Close()
}

// broadcast pushes a snapshot to every subscriber, dropping dead ones.
func (sess *session) broadcast(log zerolog.Logger, state game.GameState) {
	sess.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(sess.conns))
	for conn := range sess.conns {
		conns = append(conns, conn)
	}
	sess.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(map[string]any{"state": state}); err != nil {
			log.Debug().Err(err).Msg("dropping websocket subscriber")
			sess.drop(conn)
		}
	}
}
