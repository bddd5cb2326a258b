// Command firesim-serve runs the fire model on the server and streams frames
// to browsers over a websocket.
//
// Settings come from, in increasing priority: built-in defaults, an optional
// YAML settings file, FIRESIM_* environment variables, and command-line flags.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"wildfire-ca/internal/app"
	"wildfire-ca/internal/sims/forestfire"
	"wildfire-ca/internal/stream"
)

type settings struct {
	Addr      string   `mapstructure:"addr"`
	TPS       int      `mapstructure:"tps"`
	SimConfig string   `mapstructure:"sim_config"`
	Set       []string `mapstructure:"set"`
	LogFormat string   `mapstructure:"log_format"`
}

func loadSettings(path string, fs *flag.FlagSet) (settings, error) {
	vp := viper.New()
	vp.SetDefault("addr", ":8080")
	vp.SetDefault("tps", 10)
	vp.SetDefault("sim_config", "")
	vp.SetDefault("set", []string{})
	vp.SetDefault("log_format", "text")
	vp.SetEnvPrefix("FIRESIM")
	vp.AutomaticEnv()

	if path != "" {
		vp.SetConfigFile(path)
		vp.SetConfigType("yaml")
		if err := vp.ReadInConfig(); err != nil {
			return settings{}, err
		}
	}

	// Only flags given explicitly override the lower layers.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr", "tps", "sim-config", "log-format":
			vp.Set(flagKey(f.Name), f.Value.String())
		case "set":
			vp.Set("set", []string(*f.Value.(*app.KVList)))
		}
	})

	var s settings
	if err := vp.Unmarshal(&s); err != nil {
		return settings{}, err
	}
	return s, nil
}

func flagKey(name string) string {
	switch name {
	case "sim-config":
		return "sim_config"
	case "log-format":
		return "log_format"
	}
	return name
}

// bindFlags registers the server flags and returns the settings file flag.
func bindFlags(fs *flag.FlagSet) *string {
	path := fs.String("settings", "", "YAML file with server settings")
	fs.String("addr", ":8080", "listen address")
	fs.Int("tps", 10, "simulation steps per second")
	fs.String("sim-config", "", "YAML file with simulation parameters")
	fs.String("log-format", "text", "log format: text or json")
	fs.Var(&app.KVList{}, "set", "simulation parameter override in key=value form (repeatable)")
	return path
}

func main() {
	path := bindFlags(flag.CommandLine)
	flag.Parse()

	s, err := loadSettings(*path, flag.CommandLine)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if s.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg := app.NewConfig()
	cfg.ConfigPath = s.SimConfig
	cfg.Overrides = s.Set
	simCfg, err := cfg.SimConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	engine, err := forestfire.New(simCfg)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := stream.NewHub(engine, s.TPS)
	srv := stream.NewServer(hub, logger)
	logger.Info("starting",
		"addr", s.Addr,
		"tps", s.TPS,
		"width", simCfg.Width,
		"height", simCfg.Height)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return srv.ListenAndServe(gctx, s.Addr) })
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Fatalf("serve: %v", err)
	}
	logger.Info("stopped", "step", hub.Latest().Step)
}
