// Package flwfile has functions for loading definitions from FLW files, a
// TOML-based format for describing lexer rules, finite automata, grammars, and
// regular expressions so they can be loaded into the FLWarrior engine.
//
// Every FLW file starts with a header giving the format and the type of file:
//
//	format = "FLW"
//	type = "GRAMMAR"
//
// The type is one of "LEXER", "MACHINE", "GRAMMAR", "REGEX", or "MANIFEST". A
// manifest lists other FLW files to load, relative to itself.
package flwfile

import (
	"errors"
	"os"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/flwarrior/automaton"
	"github.com/dekarrin/flwarrior/grammar"
	"github.com/dekarrin/flwarrior/lex"
	"github.com/dekarrin/flwarrior/regex"
)

const MaxManifestRecursionDepth = 32

const (
	TypeLexer    = "LEXER"
	TypeMachine  = "MACHINE"
	TypeGrammar  = "GRAMMAR"
	TypeRegex    = "REGEX"
	TypeManifest = "MANIFEST"
)

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when the recusion level of
	// MaxManifestRecursionDepth is reached and an additional Manifest is then
	// specified, which would cause recursion to go deeper.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest specifies any
	// series of files that with their own manifests refer back to the original
	// manifest, and therefore cannot be followed.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// Manifest contains data loaded from an FLW Manifest file.
type Manifest struct {
	Files []string
}

// Bundle contains every definition loaded from one or more FLW files.
type Bundle struct {
	// Rules is every lexer rule in the order it was defined. When several
	// LEXER files are loaded through a manifest, their rules are in the order
	// the files are listed.
	Rules []lex.Rule

	// Machines holds each automaton by name.
	Machines map[string]automaton.Automaton

	// Grammars holds each grammar by name.
	Grammars map[string]grammar.Grammar

	// Expressions holds each regular expression by name. Every expression has
	// already been checked to compile.
	Expressions map[string]regex.Record
}

// FileInfo contains the essential information all FLW format files must
// contain. It can be obtained from a file by reading it into memory and calling
// ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadBundle loads every definition from the given FLW file. The file's type
// is auto-detected; if it is a manifest, the files listed in it relative to it
// are loaded too, recursively. All files included are combined into a single
// set of data before being checked.
func LoadBundle(path string) (Bundle, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return Bundle{}, err
	}

	return parseBundle(unmarshaled)
}

// LoadManifestFile loads manifest data from an FLW file.
func LoadManifestFile(path string) (manif Manifest, err error) {
	manifestData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return manif, loadErr
	}

	unmarshaled, err := unmarshalManifest(manifestData)
	if err != nil {
		return manif, err
	}
	return parseManifest(unmarshaled)
}

// Parse loads definitions from the bytes of a single FLW file that is not a
// manifest.
func Parse(data []byte) (Bundle, error) {
	unmarshaled, err := unmarshalDefinitions(data)
	if err != nil {
		return Bundle{}, err
	}
	return parseBundle(unmarshaled)
}

// ScanFileInfo takes the given data bytes and attempts to read the FLW format
// common header info from it. The bytes are read up to the first instance of a
// table definition header and those bytes are parsed for the info. If there is
// an error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	onNewLine := true
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
