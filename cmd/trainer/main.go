// Command trainer fits the bundled SARIMA model from a CSV file and writes
// the artifacts the server loads at startup. The final fifth of the series
// is held out once to report forecast RMSE before refitting on everything.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/augur-ai-go/internal/config"
	"github.com/irfndi/augur-ai-go/internal/logging"
	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/sarima"
	"github.com/irfndi/augur-ai-go/internal/schema"
	"github.com/irfndi/augur-ai-go/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional, environment variables may come from the host
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dataPath := flag.String("data", cfg.Model.DataPath, "training CSV path")
	artifactDir := flag.String("out", cfg.Model.ArtifactDir, "artifact output directory")
	flag.Parse()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	series, err := loadSeries(*dataPath)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"path":      *dataPath,
		"rows":      series.Len(),
		"frequency": string(series.Frequency),
		"last_date": series.LastTimestamp().Format("2006-01-02"),
	}).Info("Training data loaded")

	spec := models.SelectSpec(series.Len())
	order := services.SpecToOrder(spec)
	logger.WithFields(logrus.Fields{
		"order":          spec.OrderString(),
		"seasonal_order": spec.SeasonalOrderString(),
	}).Info("Model order selected")

	evaluateHoldout(series, order, logger)

	// Refit on the full series before persisting
	model := sarima.New(order)
	if err := model.Fit(series.Values); err != nil {
		return fmt.Errorf("failed to fit final model: %w", err)
	}

	store := services.NewArtifactStore(*artifactDir)
	if err := store.Save(model, series); err != nil {
		return fmt.Errorf("failed to save artifacts: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"artifact_dir": *artifactDir,
		"aic":          model.AIC,
		"bic":          model.BIC,
	}).Info("Model artifacts saved")
	return nil
}

// evaluateHoldout fits on the first 80% of the series and reports RMSE over
// the remainder. Evaluation is advisory: a series too short to split still
// trains, it just goes unscored.
func evaluateHoldout(series *models.TimeSeries, order sarima.Order, logger *logrus.Logger) {
	trainLen := series.Len() * 8 / 10
	holdoutLen := series.Len() - trainLen
	if holdoutLen < 1 || trainLen < order.MinObservations() {
		logger.Warn("Series too short for holdout evaluation, skipping")
		return
	}

	model := sarima.New(order)
	if err := model.Fit(series.Values[:trainLen]); err != nil {
		logger.WithError(err).Warn("Holdout fit failed, skipping evaluation")
		return
	}
	point, _, _, err := model.Forecast(holdoutLen, 0.95)
	if err != nil {
		logger.WithError(err).Warn("Holdout forecast failed, skipping evaluation")
		return
	}

	logger.WithFields(logrus.Fields{
		"train_rows":   trainLen,
		"holdout_rows": holdoutLen,
		"rmse":         rmse(series.Values[trainLen:], point),
	}).Info("Holdout evaluation complete")
}

func loadSeries(path string) (*models.TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training data: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	table, err := schema.ParseCSV(f)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateTable(table); err != nil {
		return nil, err
	}
	timeColumn, valueColumn, err := schema.Infer(table)
	if err != nil {
		return nil, err
	}
	return schema.Regularize(table, timeColumn, valueColumn)
}

func rmse(actual, predicted []float64) float64 {
	var sum float64
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}
