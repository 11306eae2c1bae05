package api

import (
	"time"

	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/lex"
	"github.com/dekarrin/flwarrior/regex"
	"github.com/dekarrin/flwarrior/server/dao"
)

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type InfoModel struct {
	Version struct {
		Server    string `json:"server"`
		FLWarrior string `json:"flwarrior"`
	} `json:"version"`
}

// MachineModel is a stored machine. On create and update, only the record
// fields are read.
type MachineModel struct {
	automaton.Record

	URI      string `json:"uri,omitempty"`
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
}

type GrammarModel struct {
	grammar.Record

	URI      string `json:"uri,omitempty"`
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
}

type ExpressionModel struct {
	regex.Record

	URI      string `json:"uri,omitempty"`
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
}

type RunRequest struct {
	Word string `json:"word"`
}

type RunModel struct {
	Word     string     `json:"word"`
	Accepted bool       `json:"accepted"`
	Trace    [][]string `json:"trace"`
}

type UnionRequest struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

type ClassifyModel struct {
	Type string `json:"type"`
}

type LexRequest struct {
	Rules  []lex.Rule `json:"rules"`
	Source string     `json:"source"`
}

type LexModel struct {
	Tokens    []lex.Token `json:"tokens"`
	Unmatched []lex.Token `json:"unmatched"`
}

func machineModel(m dao.Machine) MachineModel {
	return MachineModel{
		Record:   m.Record,
		URI:      PathPrefix + "/machines/" + m.ID.String(),
		Created:  m.Created.Format(time.RFC3339),
		Modified: m.Modified.Format(time.RFC3339),
	}
}

func grammarModel(g dao.Grammar) GrammarModel {
	return GrammarModel{
		Record:   g.Record,
		URI:      PathPrefix + "/grammars/" + g.ID.String(),
		Created:  g.Created.Format(time.RFC3339),
		Modified: g.Modified.Format(time.RFC3339),
	}
}

func expressionModel(e dao.Expression) ExpressionModel {
	return ExpressionModel{
		Record:   e.Record,
		URI:      PathPrefix + "/expressions/" + e.ID.String(),
		Created:  e.Created.Format(time.RFC3339),
		Modified: e.Modified.Format(time.RFC3339),
	}
}
