package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/paulstuart/gollm/parlamento"
	"github.com/paulstuart/gollm/parlamento/pkg/config"
	"github.com/paulstuart/gollm/parlamento/pkg/metrics"
	"github.com/paulstuart/gollm/parlamento/pkg/model"
	"github.com/paulstuart/gollm/parlamento/pkg/render"
	"github.com/paulstuart/gollm/parlamento/pkg/selector"
)

type options struct {
	configPath      string
	configSet       bool
	update          bool
	verbose         bool
	interactive     bool
	noColor         bool
	metricsTextfile string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "parlamento.yml", "Path to YAML config file")
	flag.BoolVar(&o.update, "update", false, "Download the dataset even if a cached copy exists")
	flag.BoolVar(&o.update, "u", false, "Shorthand for -update")
	flag.BoolVar(&o.verbose, "verbose", false, "Show phases, committees, publications and attachments")
	flag.BoolVar(&o.verbose, "v", false, "Shorthand for -verbose")
	flag.BoolVar(&o.interactive, "interactive", false, "Pick a single initiative with a fuzzy finder")
	flag.BoolVar(&o.interactive, "i", false, "Shorthand for -interactive")
	flag.BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	flag.StringVar(&o.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			o.configSet = true
		}
	})
	return o
}

func main() {
	opts := parseFlags()

	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := run(opts); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath, opts.configSet)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.metricsTextfile != "" {
		cfg.Metrics.Textfile = opts.metricsTextfile
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()
	if cfg.Metrics.Textfile != "" {
		defer func() {
			if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				log.Printf("Warning: %v", err)
			}
		}()
	}

	initiatives, err := parlamento.NewLoader(cfg, m).Load(ctx, opts.update)
	if err != nil {
		return err
	}

	r := render.Renderer{
		Verbose: opts.verbose || cfg.Display.Verbose,
		Color:   cfg.ColorEnabled() && !opts.noColor && isTerminal(os.Stdout),
	}

	out := bufio.NewWriter(os.Stdout)
	if opts.interactive {
		err = pick(ctx, out, r, cfg.Picker, initiatives)
	} else {
		err = r.List(out, initiatives)
	}
	if err != nil {
		return err
	}
	return out.Flush()
}

// pick shows the initiative chosen in the external picker. An unavailable
// picker or an aborted choice is reported but is not an error.
func pick(ctx context.Context, out *bufio.Writer, r render.Renderer, pc config.Picker, initiatives []model.Initiative) error {
	ctrl := selector.Controller{
		Picker:   selector.Command{Name: pc.Command, Args: pc.Args},
		Renderer: r,
	}
	selected, err := ctrl.Show(ctx, out, initiatives)
	if err != nil {
		if selected {
			return err
		}
		log.Printf("Selection unavailable: %v", err)
		return nil
	}
	if !selected {
		log.Println("No initiative selected")
	}
	return nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
