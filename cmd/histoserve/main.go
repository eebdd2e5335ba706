// Command histoserve is a small demonstration server: it loads a set of
// histogram definitions from a JWCC (JSON-with-comments) config file,
// optionally feeds them synthetic observations, and serves the resulting
// Prometheus text exposition over HTTP. It is not part of the histo
// library; the engine itself has no notion of HTTP, flags, or config
// files.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/finnholt/histo"
)

type histogramConfig struct {
	Name    string    `json:"name"`
	Help    string    `json:"help"`
	Buckets []float64 `json:"buckets"`
	Label   string    `json:"label,omitempty"`
}

type config struct {
	Histograms []histogramConfig `json:"histograms"`
}

func main() {
	listen := pflag.StringP("listen", "l", ":8080", "address to serve /metrics on")
	configPath := pflag.StringP("config", "c", "", "path to a JWCC histogram config file")
	demo := pflag.Bool("demo", false, "feed each configured histogram synthetic observations")
	pflag.Parse()

	if *configPath == "" {
		log.Fatal("histoserve: --config is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("histoserve: %v", err)
	}

	reg := histo.NewRegister()
	for _, hc := range cfg.Histograms {
		if hc.Label == "" {
			h := reg.MustNewHistogram(hc.Name, hc.Help, hc.Buckets...)
			if *demo {
				go feed(h)
			}
			continue
		}
		m := reg.MustNew1LabelHistogram(hc.Name, hc.Help, hc.Label, hc.Buckets...)
		if *demo {
			go feedLabeled(m, hc.Label)
		}
	}

	http.HandleFunc("/metrics", reg.ServeHTTP)
	log.Printf("histoserve: listening on %s", *listen)
	log.Fatal(http.ListenAndServe(*listen, nil))
}

func loadConfig(path string) (*config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	var cfg config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func feed(h *histo.Histogram[float64]) {
	for {
		h.Observe(rand.ExpFloat64())
		time.Sleep(10 * time.Millisecond)
	}
}

func feedLabeled(m *histo.Map1LabelHistogram, label string) {
	values := []string{"a", "b", "c"}
	for {
		v := values[rand.Intn(len(values))]
		m.With(v).Observe(rand.ExpFloat64())
		time.Sleep(10 * time.Millisecond)
	}
}
