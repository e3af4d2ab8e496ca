// Command topika-topics prints the stored runs and topic terms of a
// SQLite run store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/cognicore/topika/pkg/topika/lda"
	"github.com/cognicore/topika/pkg/topika/store/sqlite"
)

func main() {
	var (
		dbPath = flag.String("db", "topika.db", "SQLite run store")
		runID  = flag.String("run", "", "Run to show; empty lists all runs")
		terms  = flag.Int("terms", 10, "Terms per topic to print")
	)
	flag.Parse()

	ctx := context.Background()
	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if *runID == "" {
		runs, err := st.ListRuns(ctx, 50)
		if err != nil {
			log.Fatalf("list runs: %v", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tMETHOD\tK\tSEED\tLOGLIK\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%s\n",
				r.ID, r.Method, r.K, r.Seed, r.LogLik, r.CreatedAt.Format("2006-01-02 15:04"))
		}
		w.Flush()
		return
	}

	run, err := st.GetRun(ctx, *runID)
	if err != nil {
		log.Fatalf("get run: %v", err)
	}
	fmt.Printf("run %s  method=%s k=%d alpha=%.3f loglik=%.2f\n\n",
		run.ID, run.Method, run.K, run.Alpha, run.LogLik)

	// Prefer the saved model so term counts aren't limited to what the
	// store kept; fall back to stored terms when the file is gone.
	if run.ModelPath != "" {
		if m, err := lda.Load(run.ModelPath); err == nil {
			printModelTerms(m, *terms)
			return
		}
	}

	for topic := 0; topic < run.K; topic++ {
		rows, err := st.GetTopicTerms(ctx, run.ID, topic)
		if err != nil {
			log.Fatalf("get topic terms: %v", err)
		}
		fmt.Printf("topic %d:", topic)
		for i, r := range rows {
			if i == *terms {
				break
			}
			fmt.Printf(" %s", r.Term)
		}
		fmt.Println()
	}
}

func printModelTerms(m *lda.Model, n int) {
	for topic, terms := range m.TermWeights(n) {
		fmt.Printf("topic %d:", topic)
		for _, tw := range terms {
			fmt.Printf(" %s(%.3f)", tw.Term, tw.Weight)
		}
		fmt.Println()
	}
}
