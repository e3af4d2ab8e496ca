// Command topika-fit estimates topic models over a JSONL story
// dataset and records the runs in a SQLite store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/cognicore/topika/internal/dataset"
	"github.com/cognicore/topika/pkg/topika/coherence"
	"github.com/cognicore/topika/pkg/topika/config"
	"github.com/cognicore/topika/pkg/topika/lda"
	"github.com/cognicore/topika/pkg/topika/store"
	"github.com/cognicore/topika/pkg/topika/store/sqlite"
)

func main() {
	var (
		input    = flag.String("input", "", "Path to JSONL dataset (required)")
		specPath = flag.String("spec", "", "Path to YAML fit spec (required)")
		dbPath   = flag.String("db", "topika.db", "SQLite run store")
		modelDir = flag.String("models", "models", "Directory for model JSON files")
		topTerms = flag.Int("top-terms", 10, "Top terms per topic to store")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}
	if *specPath == "" {
		log.Fatal("--spec required")
	}

	spec, err := config.Load(*specPath)
	if err != nil {
		log.Fatalf("load fit spec: %v", err)
	}
	ctl, err := spec.Control()
	if err != nil {
		log.Fatalf("build control: %v", err)
	}
	builder, err := spec.Builder()
	if err != nil {
		log.Fatalf("build corpus: %v", err)
	}

	items, err := dataset.LoadFromJSONL(*input)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	for _, item := range items {
		builder.Add(item.Label(), item.Text())
	}

	x, err := builder.Matrix()
	if err != nil {
		log.Fatalf("build matrix: %v", err)
	}
	log.Printf("corpus: %d documents, %d terms, %d nonzero entries",
		x.Docs(), x.Terms(), x.NNZ())

	models, err := lda.Fit(x, spec.K, spec.Method, ctl)
	if err != nil {
		log.Fatalf("fit: %v", err)
	}

	ctx := context.Background()
	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if err := os.MkdirAll(*modelDir, 0o755); err != nil {
		log.Fatalf("create model directory: %v", err)
	}

	for _, m := range models {
		path := filepath.Join(*modelDir, m.ID+".json")
		if err := m.Save(path); err != nil {
			log.Fatalf("save model %s: %v", m.ID, err)
		}

		run := store.RunFromModel(m)
		run.ModelPath = path
		if err := st.SaveRun(ctx, run); err != nil {
			log.Fatalf("save run %s: %v", m.ID, err)
		}
		if len(m.LogLiks) > 0 {
			if err := st.SaveTrace(ctx, m.ID, m.LogLiks); err != nil {
				log.Fatalf("save trace %s: %v", m.ID, err)
			}
		}
		if err := st.SaveTopicTerms(ctx, m.ID, store.TermsFromModel(m, *topTerms)); err != nil {
			log.Fatalf("save topic terms %s: %v", m.ID, err)
		}

		scores, err := coherence.TopicScores(m, x, *topTerms)
		if err != nil {
			log.Fatalf("coherence %s: %v", m.ID, err)
		}
		mean := 0.0
		for _, s := range scores {
			mean += s
		}
		mean /= float64(len(scores))

		fmt.Printf("run %s  method=%s k=%d seed=%d loglik=%.2f coherence=%.3f\n",
			m.ID, m.Method, m.K, m.Seed, m.LogLik, mean)
	}
}
