package flwfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// manifStack is for two reasons ->
// * detect circular deps (not an error, but we need to know to avoid them)
// * avoid infinite recursion (allow up to MaxManifestRecursionDepth levels)
//
// Returns ErrManifestEmpty if and only if the first manifest in the stack is
// empty, otherwise it is not an error.
func recursiveUnmarshalResource(path string, manifStack []string) (data topLevelDefinitions, err error) {
	path = filepath.Clean(path)

	fileData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return topLevelDefinitions{}, fmt.Errorf("%q: reading from disk: %w", path, loadErr)
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelDefinitions{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}

	if strings.ToUpper(fileInfo.Format) != "FLW" {
		return topLevelDefinitions{}, fmt.Errorf("%q: file does not have a 'format = \"FLW\"' entry", path)
	}

	fileType := strings.ToUpper(fileInfo.Type)
	switch fileType {
	case TypeLexer, TypeMachine, TypeGrammar, TypeRegex:
		unmarshaled, err := unmarshalDefinitions(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("%s file %q: %w", strings.ToLower(fileType), path, err)
		}
		return unmarshaled, nil
	case TypeManifest:
		// check the stack to be sure we havent recursed too far and to be sure
		// we aren't about to re-scan a circular-ref'd manifest file we've
		// already brought in.
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelDefinitions{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelDefinitions{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		unmarshaledManif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelDefinitions{}, fmt.Errorf("manifest file %q: %w", path, err)
		}
		manif, err := parseManifest(unmarshaledManif)
		if err != nil {
			return topLevelDefinitions{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		// an empty manifest is only a problem for the very first one
		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelDefinitions{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		unmarshaled := topLevelDefinitions{}

		// copy the manif stack into a new value and add self to it for recursive calls
		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		manifDir := filepath.Dir(path)

		processedFiles := 0

		for _, manifRelPath := range manif.Files {
			includedFilePath := filepath.Join(manifDir, manifRelPath)

			unmarshaledFileData, err := recursiveUnmarshalResource(includedFilePath, manifSubStack)
			if err != nil {
				// a circular reference is skipped, not failed on
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}

				return topLevelDefinitions{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			unmarshaled.merge(unmarshaledFileData)
			processedFiles++
		}

		if len(manifStack) == 0 && processedFiles == 0 {
			// the first file is a manifest and gave no valid definitions
			return unmarshaled, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return unmarshaled, nil

	default:
		return topLevelDefinitions{}, fmt.Errorf("%q: file does not have 'type = ' entry set to one of \"LEXER\", \"MACHINE\", \"GRAMMAR\", \"REGEX\", or \"MANIFEST\"", path)
	}
}

// unmarshalDefinitions unmarshals definitions from the given bytes. It does
// not parse or check them beyond making sure that the only definitions given
// are the ones the header says the file has.
func unmarshalDefinitions(tomlData []byte) (topLevelDefinitions, error) {
	var flw topLevelDefinitions
	if tomlErr := toml.Unmarshal(tomlData, &flw); tomlErr != nil {
		return flw, tomlErr
	}

	if strings.ToUpper(flw.Format) != "FLW" {
		return flw, fmt.Errorf("in header: 'format' key must exist and be set to 'FLW'")
	}

	present := map[string]bool{
		TypeLexer:   len(flw.Rules) > 0,
		TypeMachine: len(flw.Machines) > 0,
		TypeGrammar: len(flw.Grammars) > 0,
		TypeRegex:   len(flw.Regexes) > 0,
	}
	tables := map[string]string{
		TypeLexer:   "rule",
		TypeMachine: "machine",
		TypeGrammar: "grammar",
		TypeRegex:   "regex",
	}

	fileType := strings.ToUpper(flw.Type)
	if _, ok := present[fileType]; !ok {
		return flw, fmt.Errorf("in header: 'type' must exist and be set to one of 'LEXER', 'MACHINE', 'GRAMMAR', or 'REGEX'")
	}
	for t, has := range present {
		if has && t != fileType {
			return flw, fmt.Errorf("%s file cannot have [[%s]] entries", fileType, tables[t])
		}
	}

	return flw, nil
}

// unmarshalManifest unmarshals an FLW manifest from the given bytes. It does
// not load the files it lists.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var flw topLevelManifest
	if tomlErr := toml.Unmarshal(tomlData, &flw); tomlErr != nil {
		return flw, tomlErr
	}

	if strings.ToUpper(flw.Format) != "FLW" {
		return flw, fmt.Errorf("in header: 'format' key must exist and be set to 'FLW'")
	}
	if strings.ToUpper(flw.Type) != TypeManifest {
		return flw, fmt.Errorf("in header: 'type' must exist and be set to 'MANIFEST'")
	}

	return flw, nil
}
