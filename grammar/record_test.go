package grammar

import (
	"encoding/json"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/assert"
)

func Test_Grammar_ToRecord(t *testing.T) {
	g := MustParse("S -> a A | ε ; A -> a")

	expect := Record{
		ID:           "g1",
		Name:         "as",
		Type:         "REGULAR",
		StartSymbol:  "S",
		Terminals:    []string{"a"},
		NonTerminals: []string{"S", "A"},
		Transitions: []ProductionRecord{
			{From: []string{"S"}, To: [][]string{{"a", "A"}, {"ε"}}},
			{From: []string{"A"}, To: [][]string{{"a"}}},
		},
	}

	actual := g.ToRecord("g1", "as")

	if diff := pretty.Compare(expect, actual); diff != "" {
		t.Errorf("record differs (-want +got):\n%s", diff)
	}
}

func Test_FromRecord(t *testing.T) {
	testCases := []struct {
		name      string
		rec       Record
		expect    string
		expectErr error
	}{
		{
			name: "both epsilon spellings",
			rec: Record{
				StartSymbol:  "S",
				Terminals:    []string{"a"},
				NonTerminals: []string{"S", "A"},
				Transitions: []ProductionRecord{
					{From: []string{"S"}, To: [][]string{{"a", "A"}, {""}}},
					{From: []string{"A"}, To: [][]string{{"a"}, {"ε"}}},
				},
			},
			expect: "S -> a A | ε\nA -> a | ε",
		},
		{
			name: "stored type is ignored",
			rec: Record{
				Type:         "UNRESTRICTED",
				StartSymbol:  "S",
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
				Transitions: []ProductionRecord{
					{From: []string{"S"}, To: [][]string{{"a"}}},
				},
			},
			expect: "S -> a",
		},
		{
			name: "unknown symbol",
			rec: Record{
				ID:           "bad",
				StartSymbol:  "S",
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
				Transitions: []ProductionRecord{
					{From: []string{"S"}, To: [][]string{{"b"}}},
				},
			},
			expectErr: ErrUnknownSymbol,
		},
		{
			name: "invalid head",
			rec: Record{
				StartSymbol:  "S",
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
				Transitions: []ProductionRecord{
					{From: []string{}, To: [][]string{{"a"}}},
				},
			},
			expectErr: ErrInvalidHead,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := FromRecord(tc.rec)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, g.String())
		})
	}
}

func Test_Record_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S -> a S B c | a B c ; c B -> B c ; b B -> b b ; a B -> a b")

	rec := g.ToRecord("g2", "anbncn")
	assert.Equal("CONTEXT_SENSITIVE", rec.Type)

	data, err := json.Marshal(rec)
	if !assert.NoError(err) {
		return
	}
	var fromJSON Record
	if !assert.NoError(json.Unmarshal(data, &fromJSON)) {
		return
	}

	restored, err := FromRecord(fromJSON)
	if !assert.NoError(err) {
		return
	}
	assert.True(g.Equal(restored))
}

func Test_Record_Binary(t *testing.T) {
	assert := assert.New(t)

	rec := MustParse("E -> E + T | T ; T -> id | ε").ToRecord("g3", "sums")

	data, err := rec.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded Record
	if !assert.NoError(decoded.UnmarshalBinary(data)) {
		return
	}
	assert.Equal(rec, decoded)

	var truncated Record
	assert.Error(truncated.UnmarshalBinary(data[:len(data)-2]))
}
