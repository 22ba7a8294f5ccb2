// Command agroinsight runs the farm advisory pipeline: a demand-driven
// synthesis of soil, market, and weather analyses for individual parcels.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
	"github.com/Kritansh-Tank/AgroInsight/internal/api"
	"github.com/Kritansh-Tank/AgroInsight/internal/config"
	"github.com/Kritansh-Tank/AgroInsight/internal/entropy"
	"github.com/Kritansh-Tank/AgroInsight/internal/llm"
	"github.com/Kritansh-Tank/AgroInsight/internal/market"
	"github.com/Kritansh-Tank/AgroInsight/internal/store"
	"github.com/Kritansh-Tank/AgroInsight/internal/synthesis"
	"github.com/Kritansh-Tank/AgroInsight/internal/weather"
)

var (
	flagConfig  string
	flagVerbose bool
)

func main() {
	// A missing .env is fine; it only exists in dev setups.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "agroinsight",
		Short:         "Cross-domain farm advisory: soil, market, and weather analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if flagVerbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		serveCmd(),
		seedCmd(),
		adviseCmd(),
		analyzeCmd(),
		weatherCmd(),
		marketCmd(),
		compareCmd(),
	)

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setup opens the database and wires the synthesis engine from config.
func setup() (config.Config, *store.DB, *synthesis.Engine, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return config.Config{}, nil, nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	var rng *entropy.Source
	if cfg.Simulation.Seed != 0 {
		rng = entropy.NewSource(cfg.Simulation.Seed)
	} else {
		rng = entropy.NewRandomSource()
	}
	sim := weather.NewSimulator(cfg.Simulation.Regions, rng)

	enricher := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.Model)
	if enricher.Enabled() {
		slog.Info("LLM enrichment enabled", "model", cfg.LLM.Model)
	} else {
		slog.Debug("LLM enrichment disabled (OLLAMA_HOST not set)")
	}

	return cfg, db, synthesis.New(db, sim, enricher), nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, eng, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			// Auto-seed an empty database so the API is usable out of
			// the box.
			n, err := db.CountParcels()
			if err != nil {
				return err
			}
			if n == 0 {
				slog.Info("empty database, seeding demo data")
				if err := store.SeedDemo(db, cfg.Simulation.Seed, 50); err != nil {
					return err
				}
			}

			server := &api.Server{Engine: eng, Store: db, Port: cfg.Server.Port}
			server.Start()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			slog.Info("received signal, shutting down", "signal", sig)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		parcels    int
		parcelsCSV string
		marketCSV  string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo data or CSV imports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, _, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			if parcelsCSV == "" && marketCSV == "" {
				if err := store.SeedDemo(db, cfg.Simulation.Seed, parcels); err != nil {
					return err
				}
				slog.Info("seeded demo data", "parcels", parcels)
				return nil
			}

			if parcelsCSV != "" {
				f, err := os.Open(parcelsCSV)
				if err != nil {
					return err
				}
				n, err := store.LoadParcelsCSV(db, f)
				f.Close()
				if err != nil {
					return err
				}
				slog.Info("imported parcels", "count", n, "file", parcelsCSV)
			}
			if marketCSV != "" {
				f, err := os.Open(marketCSV)
				if err != nil {
					return err
				}
				n, err := store.LoadMarketCSV(db, f)
				f.Close()
				if err != nil {
					return err
				}
				slog.Info("imported market records", "count", n, "file", marketCSV)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&parcels, "parcels", 50, "number of demo parcels to generate")
	cmd.Flags().StringVar(&parcelsCSV, "parcels-csv", "", "import parcels from a CSV file")
	cmd.Flags().StringVar(&marketCSV, "market-csv", "", "import market records from a CSV file")
	return cmd
}

func adviseCmd() *cobra.Command {
	var (
		parcelID   int64
		region     string
		goal       string
		preference int
	)
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Generate ranked recommendations for a parcel",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, eng, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := eng.Synthesize(context.Background(), agri.PreferenceContext{
				ParcelID:                 parcelID,
				Region:                   region,
				FinancialGoal:            agri.FinancialGoal(goal),
				SustainabilityPreference: preference,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Parcel %d (%s) — sustainability %s/100\n\n",
				report.Parcel.ID, report.Parcel.CropType,
				humanize.FtoaWithDigits(report.Summary.CurrentScore, 1))

			fmt.Println("Top actions:")
			for i, rec := range report.RankedActions {
				fmt.Printf("%d. [%s] %s\n   %s\n   score %s  confidence %.0f%%\n",
					i+1, rec.Category, rec.Focus, rec.Action,
					humanize.FtoaWithDigits(rec.Score, 3), rec.Confidence*100)
			}

			fmt.Printf("\nPotential sustainability: %s/100 (+%s%%)\n",
				humanize.FtoaWithDigits(report.Summary.PotentialScore, 1),
				humanize.FtoaWithDigits(report.Summary.ImprovementPercentage, 1))

			if report.Enrichment != nil && report.Enrichment.ParcelNarrative != "" {
				fmt.Printf("\n%s\n", report.Enrichment.ParcelNarrative)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&parcelID, "parcel", 1, "parcel id")
	cmd.Flags().StringVar(&region, "region", "central", "weather region")
	cmd.Flags().StringVar(&goal, "goal", string(agri.GoalBalance), "financial goal")
	cmd.Flags().IntVar(&preference, "preference", 5, "sustainability preference (1-10)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var ph, moisture, temp, rainfall float64
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify soil and climate measurements",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, eng, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			snap := eng.AnalyzeParcel(ph, moisture, temp, rainfall)
			fmt.Printf("Soil: pH %s (%s), moisture %s%% (%s)\n",
				humanize.Ftoa(ph), snap.Soil.PHStatus,
				humanize.Ftoa(moisture), snap.Soil.MoistureStatus)
			fmt.Printf("Climate: temperature %s, rainfall %s\n",
				snap.Climate.TempCategory, snap.Climate.RainCategory)
			if len(snap.Climate.SuitableCrops) > 0 {
				fmt.Printf("Suitable crops: %s\n", strings.Join(snap.Climate.SuitableCrops, ", "))
			}
			for _, rec := range snap.Soil.Recommendations {
				fmt.Printf("- %s: %s\n", rec.Focus, rec.Action)
			}
			for _, rec := range snap.Climate.Recommendations {
				fmt.Printf("- %s: %s\n", rec.Focus, rec.Action)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&ph, "ph", 6.5, "soil pH")
	cmd.Flags().Float64Var(&moisture, "moisture", 30, "soil moisture percent")
	cmd.Flags().Float64Var(&temp, "temp", 22, "average temperature (C)")
	cmd.Flags().Float64Var(&rainfall, "rainfall", 180, "monthly rainfall (mm)")
	return cmd
}

func weatherCmd() *cobra.Command {
	var (
		days int
		save bool
	)
	cmd := &cobra.Command{
		Use:   "weather <region>",
		Short: "Show current conditions and a forecast for a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, eng, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := eng.WeatherForRegion(args[0], days, false)
			if err != nil {
				return err
			}

			cur := report.Current
			fmt.Printf("%s today: %s, %s°C, %s mm rain, humidity %.0f%%\n\n",
				args[0], cur.Condition,
				humanize.FtoaWithDigits(cur.TempC, 1),
				humanize.FtoaWithDigits(cur.RainfallMM, 1),
				cur.HumidityPct)

			for _, day := range report.Forecast {
				fmt.Printf("%s  %5s°C – %5s°C  %6s mm  %s\n",
					day.Date.Format("Mon Jan 02"),
					humanize.FtoaWithDigits(day.TempLowC, 1),
					humanize.FtoaWithDigits(day.TempHighC, 1),
					humanize.FtoaWithDigits(day.RainfallMM, 1),
					day.Condition)
			}
			fmt.Printf("\nOutlook: %s\n", report.Impact.Overall)
			for _, rec := range report.Impact.Recommendations {
				fmt.Printf("- %s: %s\n", rec.Focus, rec.Action)
			}

			if save {
				if err := db.SaveForecast(args[0], report.Forecast); err != nil {
					return err
				}
				slog.Info("forecast saved", "region", args[0], "days", len(report.Forecast))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "forecast length in days (1-30)")
	cmd.Flags().BoolVar(&save, "save", false, "persist the forecast to the database")
	return cmd
}

func compareCmd() *cobra.Command {
	var crop string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare sustainability and input efficiency across parcels",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, eng, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			comparison, err := eng.SustainabilityComparison(crop)
			if err != nil {
				return err
			}

			s := comparison.Stats
			fmt.Printf("Sustainability across %d parcels: avg %s, min %s, max %s\n",
				s.Count,
				humanize.FtoaWithDigits(s.AvgScore, 1),
				humanize.FtoaWithDigits(s.MinScore, 1),
				humanize.FtoaWithDigits(s.MaxScore, 1))
			fmt.Printf("Fleet efficiency: %s t/kg fertilizer, %s t/kg pesticide\n\n",
				humanize.FtoaWithDigits(comparison.AvgFertilizerE, 3),
				humanize.FtoaWithDigits(comparison.AvgPesticideE, 3))

			fmt.Println("Most sustainable parcels:")
			for i, p := range comparison.BestPractices {
				fmt.Printf("%d. parcel %d (%s) — score %s\n",
					i+1, p.ParcelID, p.CropType,
					humanize.FtoaWithDigits(p.SustainabilityScore, 1))
			}

			if len(comparison.CropComparison) > 0 {
				fmt.Println("\nBy crop:")
				for _, c := range comparison.CropComparison {
					fmt.Printf("%-10s avg %s over %d parcels\n",
						c.CropType,
						humanize.FtoaWithDigits(c.AvgScore, 1),
						c.ParcelCount)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&crop, "crop", "", "restrict the comparison to one crop")
	return cmd
}

func marketCmd() *cobra.Command {
	var horizon string
	cmd := &cobra.Command{
		Use:   "market [product]",
		Short: "Show the market overview or one product's analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, eng, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			h := market.HorizonShort
			if horizon == string(market.HorizonLong) {
				h = market.HorizonLong
			}

			if len(args) == 1 {
				analysis, err := eng.MarketForProduct(args[0], h)
				if err != nil {
					return err
				}
				fmt.Printf("%s: avg price %s/ton, market %s, trend %s\n",
					analysis.Product,
					humanize.CommafWithDigits(analysis.AvgPrice, 2),
					analysis.Status, analysis.DemandTrend.Status)
				fmt.Printf("Forecast (%s): %s/ton, %s, confidence %.0f%%\n",
					h, humanize.CommafWithDigits(analysis.PriceForecast.ForecastPrice, 2),
					analysis.PriceForecast.Trend, analysis.PriceForecast.Confidence*100)
				for _, rec := range analysis.Recommendations {
					fmt.Printf("- %s: %s\n", rec.Focus, rec.Action)
				}
				return nil
			}

			report, err := eng.MarketOverview(h)
			if err != nil {
				return err
			}
			fmt.Println("Top opportunities:")
			for i, opp := range report.TopCrops {
				fmt.Printf("%d. %s — potential %s, %s\n",
					i+1, opp.Product,
					humanize.CommafWithDigits(opp.ProfitPotential, 1),
					opp.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&horizon, "horizon", string(market.HorizonShort), "forecast horizon (short-term or long-term)")
	return cmd
}
