// Command topika-viz renders a fitted model as an HTML page: one bar
// chart of top terms per topic plus the log-likelihood trace.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cognicore/topika/pkg/topika/lda"
	"github.com/cognicore/topika/pkg/topika/store/sqlite"
)

func main() {
	var (
		dbPath    = flag.String("db", "topika.db", "SQLite run store")
		runID     = flag.String("run", "", "Run to render (required)")
		modelPath = flag.String("model", "", "Model JSON; overrides the stored path")
		terms     = flag.Int("terms", 10, "Terms per topic")
		out       = flag.String("out", "topics.html", "Output HTML path")
	)
	flag.Parse()

	if *runID == "" && *modelPath == "" {
		log.Fatal("--run or --model required")
	}

	path := *modelPath
	var trace []float64
	if *runID != "" {
		ctx := context.Background()
		st, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		run, err := st.GetRun(ctx, *runID)
		if err != nil {
			st.Close()
			log.Fatalf("get run: %v", err)
		}
		trace, err = st.GetTrace(ctx, *runID)
		if err != nil {
			st.Close()
			log.Fatalf("get trace: %v", err)
		}
		st.Close()
		if path == "" {
			path = run.ModelPath
		}
	}
	if path == "" {
		log.Fatal("run has no stored model path; pass --model")
	}

	m, err := lda.Load(path)
	if err != nil {
		log.Fatalf("load model: %v", err)
	}

	title := fmt.Sprintf("topika: %s k=%d", m.Method, m.K)
	page := components.NewPage()
	page.PageTitle = title

	for topic, tws := range m.TermWeights(*terms) {
		page.AddCharts(topicBar(topic, tws))
	}
	if len(trace) == 0 {
		trace = m.LogLiks
	}
	if len(trace) > 0 {
		page.AddCharts(traceLine(trace))
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render: %v", err)
	}
	log.Printf("Wrote %s", *out)
}

// topicBar draws one topic's top terms, heaviest at the top.
func topicBar(topic int, tws []lda.TermWeight) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Topic %d", topic)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	// Reverse so the heaviest term renders at the top of the
	// horizontal bar chart.
	labels := make([]string, len(tws))
	data := make([]opts.BarData, len(tws))
	for i, tw := range tws {
		j := len(tws) - 1 - i
		labels[j] = tw.Term
		data[j] = opts.BarData{Value: tw.Weight}
	}

	bar.SetXAxis(labels).AddSeries("weight", data)
	bar.XYReversal()
	return bar
}

// traceLine draws the recorded log-likelihood trace of the fit.
func traceLine(trace []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Log-likelihood trace"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	xs := make([]string, len(trace))
	data := make([]opts.LineData, len(trace))
	for i, v := range trace {
		xs[i] = fmt.Sprintf("%d", i+1)
		data[i] = opts.LineData{Value: v}
	}

	line.SetXAxis(xs).AddSeries("loglik", data)
	return line
}
