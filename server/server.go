// Package server provides an HTTP REST server for storing and working with
// machines, grammars, and regular expressions.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/flwarrior/server/api"
	"github.com/dekarrin/flwarrior/server/dao"
	"github.com/dekarrin/flwarrior/server/flws"
)

// server:
//  - GET    /info                              - version info on the server.
//  - GET    /machines                          - get all machines.
//  - POST   /machines                          - store a new machine.
//  - POST   /machines/union                    - union of two machines.
//  - GET    /machines/{id}                     - get a machine.
//  - PUT    /machines/{id}                     - replace a machine.
//  - DELETE /machines/{id}                     - delete a machine.
//  - POST   /machines/{id}/determinize         - deterministic version of a machine.
//  - POST   /machines/{id}/run                 - run a machine over a word.
//  - GET    /grammars                          - get all grammars.
//  - POST   /grammars                          - store a new grammar.
//  - GET    /grammars/{id}                     - get a grammar.
//  - PUT    /grammars/{id}                     - replace a grammar.
//  - DELETE /grammars/{id}                     - delete a grammar.
//  - POST   /grammars/{id}/classify            - Chomsky type of a grammar.
//  - POST   /grammars/{id}/nondeterminism      - remove direct non-determinism.
//  - POST   /grammars/{id}/left-factor         - left-factor a grammar.
//  - POST   /grammars/{id}/left-recursion      - remove immediate left recursion.
//  - GET    /expressions                       - get all expressions.
//  - POST   /expressions                       - store a new expression.
//  - GET    /expressions/{id}                  - get an expression.
//  - PUT    /expressions/{id}                  - replace an expression.
//  - DELETE /expressions/{id}                  - delete an expression.
//  - POST   /expressions/{id}/compile          - machine for an expression.
//  - POST   /lex                               - lexical analysis with given rules.
//
// Results of determinize, union, compile, and the grammar transforms are
// returned but not stored; POST them back to store them.

// FLWServer is an HTTP REST server that stores machines, grammars, and
// expressions and performs operations on them. The zero-value of a FLWServer
// should not be used directly; call New() to get one ready for use.
type FLWServer struct {
	router http.Handler
	db     dao.Store
}

// New creates a new FLWServer from the given config. Unset values in cfg are
// given their defaults before it is used.
func New(cfg Config) (FLWServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return FLWServer{}, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return FLWServer{}, err
	}

	a := api.API{
		Backend:     flws.Service{DB: db},
		UnauthDelay: cfg.UnauthDelay(),
	}

	fs := FLWServer{
		router: newRouter(a, cfg.MaxBodyBytes),
		db:     db,
	}

	return fs, nil
}

// Handler returns the http.Handler that serves all requests to the server.
func (fs FLWServer) Handler() http.Handler {
	return fs.router
}

// Close closes the persistence layer of the server.
func (fs FLWServer) Close() error {
	return fs.db.Close()
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080.
func (fs FLWServer) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, fs.router))
}
