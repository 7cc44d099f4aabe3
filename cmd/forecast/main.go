/*
Command forecast runs the whole experiment: it loads the case and
hospitalization files for one region, cleans and merges them, normalizes
with training statistics, slices the rows into windows and trains the five
architectures, recording every model's validation and test metrics in the
results store and saving the best model.

Data paths and defaults can come from a .env file; flags override it.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros/zlog"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/dataset"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/fu"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/model"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/nn"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/window"
)

var architectures = []string{
	nn.BaselineArch, nn.LinearArch, nn.DenseArch, nn.ConvArch, nn.RecurrentArch,
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		zlog.Warning("skipping .env: " + err.Error())
	}

	var (
		casesPath    = flag.String("cases", env("CASES_CSV", "data/cases.csv"), "case/death/recovery csv")
		hospitalPath = flag.String("hospital", env("HOSPITAL_CSV", "data/hospitalizations.csv"), "hospitalization/icu csv")
		region       = flag.String("region", env("REGION", "Canada"), "region to forecast")
		labels       = flag.String("labels", env("LABELS", "Deaths"), "comma separated label columns")
		inputWidth   = flag.Int("input-width", 10, "window input steps")
		labelWidth   = flag.Int("label-width", 1, "window label steps")
		shift        = flag.Int("shift", 1, "offset between input end and label end")
		batchSize    = flag.Int("batch", 32, "training batch size")
		epochs       = flag.Int("epochs", 50, "maximum training epochs")
		patience     = flag.Int("patience", 5, "early stopping score history")
		optimizer    = flag.String("optimizer", nn.AdamOptimizer, "optimizer, adam or sgd")
		lr           = flag.Float64("lr", 0, "learning rate, 0 keeps the default")
		momentum     = flag.Float64("momentum", 0, "sgd momentum")
		units        = flag.Int("units", 0, "dense/lstm hidden units, 0 keeps the default")
		filters      = flag.Int("filters", 0, "conv feature maps, 0 keeps the default")
		width        = flag.Int("width", 0, "conv kernel width, 0 keeps the default")
		seed         = flag.Int64("seed", 1, "rng seed")
		resultsPath  = flag.String("results", env("RESULTS_DB", "forecast-results.db"), "sqlite results store")
		modelPath    = flag.String("model", env("MODEL_FILE", "best-model.xz"), "where to store the best model")
	)
	flag.Parse()

	params := model.Params{}
	for name, v := range map[string]float64{
		"Units": float64(*units), "Filters": float64(*filters),
		"Width": float64(*width), "LR": *lr, "Momentum": *momentum,
	} {
		if v != 0 {
			params[name] = v
		}
	}

	if err := run(config{
		casesPath:    *casesPath,
		hospitalPath: *hospitalPath,
		region:       *region,
		labels:       strings.Split(*labels, ","),
		inputWidth:   *inputWidth,
		labelWidth:   *labelWidth,
		shift:        *shift,
		batchSize:    *batchSize,
		epochs:       *epochs,
		patience:     *patience,
		optimizer:    *optimizer,
		params:       params,
		seed:         *seed,
		resultsPath:  *resultsPath,
		modelPath:    *modelPath,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "forecast:", err)
		os.Exit(1)
	}
}

type config struct {
	casesPath, hospitalPath string
	region                  string
	labels                  []string
	inputWidth, labelWidth  int
	shift                   int
	batchSize, epochs       int
	patience                int
	optimizer               string
	params                  model.Params
	seed                    int64
	resultsPath, modelPath  string
}

func run(cfg config) error {
	cases, err := dataset.ReadCSV(cfg.casesPath, dataset.ColumnSpec{
		Date:   "Updated",
		Region: "Country_Region",
		Keep: []dataset.Rename{
			{From: "Confirmed", To: "Cases"},
			{From: "Deaths", To: "Deaths"},
			{From: "Recovered", To: "Recoveries"},
		},
	}, cfg.region)
	if err != nil {
		return err
	}
	hospital, err := dataset.ReadCSV(cfg.hospitalPath, dataset.ColumnSpec{
		Date:   "date",
		Region: "country",
		Keep: []dataset.Rename{
			{From: "hospitalized", To: "Hospitalized"},
			{From: "icu", To: "ICU"},
		},
	}, cfg.region)
	if err != nil {
		return err
	}

	merged, err := dataset.Merge(cases, hospital)
	if err != nil {
		return err
	}
	if merged, err = dataset.Clean(merged); err != nil {
		return err
	}
	train, valid, test, err := dataset.Split(merged, 0.7, 0.2)
	if err != nil {
		return err
	}
	scaler := dataset.Fit(train)
	if train, err = scaler.Apply(train); err != nil {
		return err
	}
	if valid, err = scaler.Apply(valid); err != nil {
		return err
	}
	if test, err = scaler.Apply(test); err != nil {
		return err
	}

	spec, err := window.NewSpec(cfg.inputWidth, cfg.labelWidth, cfg.shift, cfg.labels...)
	if err != nil {
		return err
	}
	data := model.Dataset{
		Train: train, Valid: valid, Test: test,
		Spec:      spec,
		BatchSize: cfg.batchSize,
		Shuffle:   true,
		Seed:      cfg.seed,
	}

	results, err := model.OpenResults(cfg.resultsPath)
	if err != nil {
		return err
	}
	defer results.Close()

	metrics := model.RegressionMetrics{}
	best := ""
	bestLoss := 0.0
	var bestNet *nn.Network
	for _, arch := range architectures {
		fmt.Printf("--- %s (%s, lr %g)\n", arch, cfg.optimizer, cfg.params.Get("LR", 0.001))
		forecaster := nn.NewForecaster(arch, cfg.params)
		forecaster.Optim = cfg.optimizer
		training := model.Training{
			Iterations:   cfg.epochs,
			Metrics:      metrics,
			Score:        model.TestLossScore,
			ScoreHistory: cfg.patience,
			Verbose:      func(s string) { fmt.Println(s) },
		}
		report, err := forecaster.Feed(data).Train(training)
		if err != nil {
			return err
		}
		if err = results.Add(arch, "valid", report.Test); err != nil {
			return err
		}
		testRow, err := nn.Evaluate(forecaster.Network(), data, test, metrics, model.TestSubset)
		if err != nil {
			return err
		}
		if err = results.Add(arch, "test", testRow); err != nil {
			return err
		}
		if best == "" || model.Loss(testRow) < bestLoss {
			best, bestLoss = arch, model.Loss(testRow)
			bestNet = forecaster.Network()
		}
	}

	if err = saveModel(fu.ModelPath(cfg.modelPath), bestNet, scaler); err != nil {
		return err
	}

	comparison, err := results.Comparison("Loss")
	if err != nil {
		return err
	}
	fmt.Printf("\n%-10s %10s %10s\n", "model", "valid", "test")
	for _, s := range comparison {
		fmt.Printf("%-10s %10.5f %10.5f\n", s.Model, s.Valid, s.Test)
	}
	fmt.Printf("\nbest: %s (loss %.5f, %s normalized)\n", best, bestLoss, strings.Join(cfg.labels, ","))
	return nil
}

// saveModel writes the winning network's weights and the scaler as one
// compressed snapshot.
func saveModel(path string, net *nn.Network, scaler dataset.Scaler) error {
	w, err := iokit.File(path).Create()
	if err != nil {
		return err
	}
	defer w.End()
	err = model.Memorize(w, model.MemorizeMap{
		"network": net.State(),
		"scaler":  scaler,
	})
	if err != nil {
		return err
	}
	return w.Commit()
}

func env(key, dflt string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return dflt
}
