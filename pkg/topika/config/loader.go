package config

import (
	"fmt"

	"github.com/cognicore/topika/pkg/topika/corpus"
)

// Builder constructs a corpus builder from the spec's corpus section:
// the stoplist file feeds the tokenizer, the pruning fields feed the
// builder.
func (s *FitSpec) Builder() (*corpus.Builder, error) {
	var stops []string
	if s.Corpus.StoplistPath != "" {
		sl, err := LoadStoplist(s.Corpus.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stops = sl.Terms
	}

	tok := corpus.NewTokenizer(stops)
	if s.Corpus.MinTokenLen > 0 {
		tok.SetMinTokenLen(s.Corpus.MinTokenLen)
	}

	b := corpus.NewBuilder(tok)
	b.MinDF = s.Corpus.MinDF
	b.MaxDFShare = s.Corpus.MaxDFShare
	return b, nil
}
