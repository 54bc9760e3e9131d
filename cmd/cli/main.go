package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"energy-dashboard/internal/backtest"
	"energy-dashboard/internal/config"
	"energy-dashboard/internal/dashboard"
	"energy-dashboard/internal/data"
	"energy-dashboard/internal/generator"
	"energy-dashboard/internal/logger"
	"energy-dashboard/internal/model"
	"energy-dashboard/internal/playback"
	"energy-dashboard/internal/simulation"
	"energy-dashboard/internal/strategy"
	"energy-dashboard/internal/timeaxis"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = cmdExport("generate", os.Args[2:], dashboard.FormatJSON)
	case "export":
		err = cmdExport("export", os.Args[2:], "")
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "mock":
		err = cmdMock(os.Args[2:])
	case "replay":
		err = cmdReplay(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli generate --granularity hourly --comparison baseline --seed 42 --out results/dashboard.json")
	fmt.Println("  cli export --format csv|json|cbor --out results/series.csv")
	fmt.Println("  cli validate --data decisions.json --variant strict [--print-schema]")
	fmt.Println("  cli mock --strategy rule --variant relaxed --out data/mock.json [--ledger results/ledger.csv] [--catalog data/catalog.json]")
	fmt.Println("  cli replay --data decisions.json [--interval 200ms]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - every subcommand accepts --config (YAML or TOML); flags override the file")
	fmt.Println("  - generate is export with --format json")
}

// common holds the flags shared by every subcommand.
type common struct {
	configPath string
	logLevel   string
}

func (c *common) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Path to YAML or TOML config")
	fs.StringVar(&c.logLevel, "log-level", "", "Override log level")
}

// load returns the validated config and a logger built from it.
func (c *common) load() (*config.Config, zerolog.Logger, io.Closer, error) {
	var cfg *config.Config
	var err error
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	return cfg, log, closer, nil
}

func cmdExport(name string, args []string, fixed dashboard.Format) error {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	var c common
	c.register(fs)
	granularity := fs.String("granularity", "", "hourly, daily, weekly or monthly (default from config)")
	comparison := fs.String("comparison", "", "none, previous or baseline (default from config)")
	seed := fs.Int64("seed", 0, "Random seed (0 = from config, else time-based)")
	outPath := fs.String("out", "", "Output path (default stdout)")
	format := fs.String("format", "json", "Export format: json, csv or cbor")
	if fixed != "" {
		_ = fs.MarkHidden("format")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, closer, err := c.load()
	if err != nil {
		return err
	}
	defer closer.Close()

	if *granularity != "" {
		cfg.Generator.TimeGranularity = *granularity
	}
	if *comparison != "" {
		cfg.Generator.ComparisonPeriod = *comparison
	}
	if *seed != 0 {
		cfg.Generator.Seed = *seed
	}
	f := fixed
	if f == "" {
		if f, err = dashboard.ParseFormat(*format); err != nil {
			return err
		}
	}
	g, err := cfg.Granularity()
	if err != nil {
		return err
	}
	cp, err := cfg.Comparison()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	s := cfg.Seed()
	d, err := dashboard.Build(dashboard.Options{
		Now:         time.Now().In(loc),
		Granularity: g,
		Comparison:  cp,
		Source:      generator.NewSource(s),
		Params:      cfg.SimulationParams(),
	})
	if err != nil {
		return err
	}

	if err := writeOutput(*outPath, func(w io.Writer) error { return dashboard.Export(w, d, f) }); err != nil {
		return err
	}
	log.Info().
		Str("granularity", string(g)).
		Str("comparison", string(cp)).
		Int64("seed", s).
		Str("format", string(f)).
		Int("points", d.Series.Len()).
		Msg("dashboard written")
	return nil
}

func cmdValidate(args []string) error {
	fs := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	var c common
	c.register(fs)
	dataPath := fs.String("data", "", "Path to decision dataset JSON (default from config)")
	variant := fs.String("variant", "", "strict or relaxed (default from config)")
	printSchema := fs.Bool("print-schema", false, "Print the JSON Schema instead of validating")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, closer, err := c.load()
	if err != nil {
		return err
	}
	defer closer.Close()

	if *variant != "" {
		v, err := data.ParseVariant(*variant)
		if err != nil {
			return err
		}
		cfg.Dataset.Variant = string(v)
	}
	if *printSchema {
		schema, err := data.BuildSchema(cfg.Variant(), cfg.Dataset.StorageUnits)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, string(schema))
		return err
	}

	path := *dataPath
	if path == "" {
		path = cfg.Dataset.Path
	}
	if path == "" {
		return errors.New("--data is required")
	}
	v, err := cfg.Validator()
	if err != nil {
		return err
	}
	ds, err := data.LoadDecisionJSON(path, v, log)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s records valid under %s\n", path, humanize.Comma(int64(len(ds.Data))), cfg.Variant())
	return nil
}

func cmdMock(args []string) error {
	fs := pflag.NewFlagSet("mock", pflag.ContinueOnError)
	var c common
	c.register(fs)
	granularity := fs.String("granularity", "hourly", "Series granularity")
	seed := fs.Int64("seed", 0, "Random seed (0 = from config, else time-based)")
	variant := fs.String("variant", "", "strict or relaxed (default from config)")
	stratName := fs.String("strategy", "", "rule or schedule (default from config)")
	outPath := fs.String("out", "data/mock.json", "Output dataset path")
	ledgerPath := fs.String("ledger", "", "Optional ledger CSV path")
	catalogPath := fs.String("catalog", "", "Optional catalog to register the dataset in")
	id := fs.String("id", "", "Catalog ID (default: output file name)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, closer, err := c.load()
	if err != nil {
		return err
	}
	defer closer.Close()

	if *variant != "" {
		if _, err := data.ParseVariant(*variant); err != nil {
			return err
		}
		cfg.Dataset.Variant = *variant
	}
	if *seed != 0 {
		cfg.Generator.Seed = *seed
	}
	if *stratName != "" {
		cfg.Backtest.Strategy.Name = *stratName
	}
	g, err := model.ParseGranularity(*granularity)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	strat, err := strategy.New(cfg.Backtest.Strategy.Name, cfg.Backtest.Strategy.Params)
	if err != nil {
		return err
	}

	axis, err := timeaxis.ForGranularity(time.Now().In(loc), g)
	if err != nil {
		return err
	}
	series, err := simulation.New(cfg.SimulationParams()).Run(axis, generator.NewSource(cfg.Seed()))
	if err != nil {
		return err
	}
	res, err := backtest.Produce(series, cfg.Backtest.EnergyScale, cfg.Dataset.StorageUnits, strat, cfg.BacktestRates(), backtest.Options{
		Location:       loc,
		AllowDischarge: cfg.Variant().AllowsDischarge(),
	})
	if err != nil {
		return err
	}

	ds := res.Dataset()
	v, err := cfg.Validator()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := data.EncodeDecisionJSON(&buf, ds); err != nil {
		return err
	}
	if err := v.ValidateBytes(buf.Bytes()); err != nil {
		return fmt.Errorf("produced dataset does not validate: %w", err)
	}
	if err := data.WriteDecisionJSON(*outPath, ds); err != nil {
		return err
	}
	fmt.Printf("Wrote %s records to %s\n", humanize.Comma(int64(len(ds.Data))), *outPath)
	fmt.Printf("Strategy=%s Variant=%s Final balance=%s\n", strat.Name(), cfg.Variant(), humanize.CommafWithDigits(res.FinalBalance, 2))

	if *ledgerPath != "" {
		if err := os.MkdirAll(filepath.Dir(*ledgerPath), 0o755); err != nil {
			return err
		}
		if err := backtest.WriteLedgerCSV(*ledgerPath, res.Ledger, cfg.Dataset.StorageUnits); err != nil {
			return err
		}
		fmt.Printf("Wrote ledger to %s\n", *ledgerPath)
	}

	if *catalogPath != "" {
		catalog, err := data.LoadCatalog(*catalogPath)
		if err != nil {
			return err
		}
		entryID := *id
		if entryID == "" {
			entryID = strings.TrimSuffix(filepath.Base(*outPath), filepath.Ext(*outPath))
		}
		catalog.Upsert(data.NewEntry(entryID, *outPath, cfg.Variant(), ds, time.Now().UTC()))
		if err := data.SaveCatalog(catalog, *catalogPath); err != nil {
			return err
		}
		log.Info().Str("id", entryID).Str("catalog", *catalogPath).Msg("dataset registered")
	}
	return nil
}

func cmdReplay(args []string) error {
	fs := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	var c common
	c.register(fs)
	dataPath := fs.String("data", "", "Path to decision dataset JSON (default from config)")
	interval := fs.Duration("interval", 0, "Tick interval (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, closer, err := c.load()
	if err != nil {
		return err
	}
	defer closer.Close()

	path := *dataPath
	if path == "" {
		path = cfg.Dataset.Path
	}
	if path == "" {
		return errors.New("--data is required")
	}
	v, err := cfg.Validator()
	if err != nil {
		return err
	}
	ds, err := data.LoadDecisionJSON(path, v, log)
	if err != nil {
		return err
	}

	opts := cfg.PlaybackOptions()
	opts.Logger = log
	if *interval > 0 {
		opts.Interval = *interval
	}
	engine, err := playback.New(ds.Data, opts)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	var finish sync.Once
	unsubscribe := engine.OnChange(func(v playback.View) {
		printView(v)
		if !v.IsPlaying() && v.Index == v.Length-1 {
			finish.Do(func() { close(done) })
		}
	})
	defer unsubscribe()

	printView(engine.View())
	if engine.Len() < 2 {
		return nil
	}
	engine.Play()

	select {
	case <-done:
	case <-ctx.Done():
		engine.Pause()
		fmt.Println("interrupted")
	}
	return nil
}

func printView(v playback.View) {
	line := fmt.Sprintf("[%d/%d] %s  %-16s balance=%s",
		v.Index+1, v.Length, v.Current.Step, v.Current.AIDecision.String(),
		humanize.CommafWithDigits(v.Current.TokenBalance, 2))
	if len(v.Highlighted) > 0 {
		line += "  changed: " + strings.Join(v.Highlighted, ", ")
	}
	fmt.Println(line)
}

func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
