// Package apiserver exposes MCFG parsing over HTTP: callers register named
// grammars, then submit input strings to be parsed against one, with every
// attempt recorded to a history.Store. Grounded on the teacher's
// server/api package: a chi router, a result-returning endpoint wrapper,
// and bearer-token auth backed by bcrypt-hashed credentials.
package apiserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	mcfg "github.com/mgershovitz/MCFGParser"
	"github.com/mgershovitz/MCFGParser/internal/history"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/grammar"
	"github.com/mgershovitz/MCFGParser/internal/mcfgerrors"
)

// PathPrefix is the prefix every route in this package is mounted under.
const PathPrefix = "/api/v1"

// Server wires a chi.Router to an in-memory grammar table, a user directory,
// and a history.Store, per spec section 6's service shape.
type Server struct {
	Router chi.Router

	secret  []byte
	users   *userStore
	history *history.Store

	mu       sync.RWMutex
	grammars map[string]grammar.Grammar
}

// New builds a Server. secret signs issued JWTs; hist may be nil, in which
// case parse attempts are not recorded.
func New(secret []byte, hist *history.Store) *Server {
	s := &Server{
		secret:   secret,
		users:    newUserStore(),
		history:  hist,
		grammars: make(map[string]grammar.Grammar),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/users", endpoint(s.epRegister))
		r.Post("/login", endpoint(s.epLogin))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(s.users, s.secret))
			r.Post("/grammars/{name}", endpoint(s.epPutGrammar))
			r.Post("/grammars/{name}/parses", endpoint(s.epParse))
			r.Get("/parses/{id}", endpoint(s.epGetParse))
			r.Get("/grammars/{name}/parses", endpoint(s.epListParses))
		})
	})

	s.Router = r
	return s
}

// RegisterGrammar makes g available under name without going through HTTP,
// for servers that load their grammar set at startup.
func (s *Server) RegisterGrammar(name string, g grammar.Grammar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grammars[name] = g
}

func (s *Server) grammarNamed(name string) (grammar.Grammar, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.grammars[name]
	return g, ok
}

type registerRequest struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (s *Server) epRegister(req *http.Request) result {
	var body registerRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("malformed JSON body")
	}
	if body.Username == "" || body.Key == "" {
		return badRequest("username and key are both required")
	}

	u, err := s.users.Register(body.Username, body.Key)
	if err != nil {
		return badRequest(err.Error())
	}
	return created(registerResponse{ID: u.ID.String(), Username: u.Username}, "registered user "+u.Username)
}

type loginRequest struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) epLogin(req *http.Request) result {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("malformed JSON body")
	}

	u, err := s.users.login(body.Username, body.Key)
	if err != nil {
		return unauthorized(err.Error())
	}

	tok, err := generateJWT(u, s.secret)
	if err != nil {
		return internalError("could not sign token: " + err.Error())
	}
	return ok(loginResponse{Token: tok}, "logged in "+u.Username)
}

type putGrammarRequest struct {
	Terminals []string           `json:"terminals"`
	Functions []rawFunctionBody  `json:"functions"`
	Rules     []rawRuleBody      `json:"rules"`
	Start     string             `json:"start"`
}

type rawFunctionBody struct {
	Name       string     `json:"name"`
	FormalArgs []string   `json:"formalArgs"`
	Result     [][]string `json:"result"`
}

type rawRuleBody struct {
	Symbol    string   `json:"symbol"`
	Terminal  string   `json:"terminal,omitempty"`
	Function  string   `json:"function,omitempty"`
	Variables []string `json:"variables,omitempty"`
}

func (s *Server) epPutGrammar(req *http.Request) result {
	name := chi.URLParam(req, "name")
	if name == "" {
		return badRequest("grammar name is required")
	}

	var body putGrammarRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("malformed JSON body")
	}

	functions := make([]grammar.Function, len(body.Functions))
	for i, rf := range body.Functions {
		result := make([]grammar.Component, len(rf.Result))
		for ci, atoms := range rf.Result {
			comp := make(grammar.Component, len(atoms))
			for ai, a := range atoms {
				atom, err := grammar.ParseAtom(a)
				if err != nil {
					return badRequest("function " + rf.Name + ": " + err.Error())
				}
				comp[ai] = atom
			}
			result[ci] = comp
		}
		functions[i] = grammar.Function{Name: rf.Name, FormalArgs: rf.FormalArgs, Result: result}
	}

	rules := make([]grammar.Rule, len(body.Rules))
	for i, rr := range body.Rules {
		switch {
		case rr.Function != "":
			rules[i] = grammar.NewFunctional(rr.Symbol, rr.Function, rr.Variables)
		case rr.Terminal != "":
			rules[i] = grammar.NewTerminating(rr.Symbol, rr.Terminal)
		default:
			return badRequest("rule " + rr.Symbol + " declares neither a terminal nor a function")
		}
	}

	g, err := grammar.BuildGrammar(body.Terminals, functions, rules, body.Start)
	if err != nil {
		return badRequest(err.Error())
	}

	s.RegisterGrammar(name, g)
	return created(map[string]string{"name": name}, "registered grammar "+name)
}

type parseRequest struct {
	Input string `json:"input"`
}

type parseResponse struct {
	ID      string   `json:"id"`
	Accept  bool     `json:"accept"`
	Trace   []string `json:"trace,omitempty"`
}

func (s *Server) epParse(req *http.Request) result {
	name := chi.URLParam(req, "name")
	g, ok := s.grammarNamed(name)
	if !ok {
		return notFound("no grammar registered under name " + name)
	}

	var body parseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("malformed JSON body")
	}
	if body.Input == "" {
		return badRequest(mcfgerrors.UserMessage(mcfgerrors.New(mcfgerrors.KindInvalidInput, "empty input")))
	}

	tr, accepted, err := mcfg.ParseString(g, body.Input)
	if err != nil {
		return badRequest(mcfgerrors.UserMessage(err))
	}

	var recID uuid.UUID
	if s.history != nil {
		rec, err := s.history.Insert(req.Context(), name, body.Input, accepted, tr)
		if err != nil {
			return internalError("could not record parse attempt: " + err.Error())
		}
		recID = rec.ID
	}

	resp := parseResponse{ID: recID.String(), Accept: accepted}
	for _, e := range tr {
		resp.Trace = append(resp.Trace, e.String())
	}

	if !accepted {
		return ok(resp, "rejected input against grammar "+name)
	}
	return ok(resp, "accepted input against grammar "+name)
}

func (s *Server) epGetParse(req *http.Request) result {
	if s.history == nil {
		return notFound("history is not enabled on this server")
	}
	idStr := chi.URLParam(req, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return badRequest("invalid parse record ID")
	}

	rec, err := s.history.GetByID(req.Context(), id)
	if err != nil {
		return notFound(err.Error())
	}
	return ok(rec, "fetched parse record "+idStr)
}

func (s *Server) epListParses(req *http.Request) result {
	if s.history == nil {
		return notFound("history is not enabled on this server")
	}
	name := chi.URLParam(req, "name")
	recs, err := s.history.ListByGrammar(req.Context(), name)
	if err != nil {
		return internalError(err.Error())
	}
	return ok(recs, "listed parse records for grammar "+name)
}
