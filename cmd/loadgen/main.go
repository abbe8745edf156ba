package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"
)

type Config struct {
	TargetURL      string
	Concurrency    int
	Duration       time.Duration
	ZipfS          float64
	ZipfV          float64
	BBoxCount      int
	Res            int
	RequestTimeout time.Duration
	Seed           int64
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.TargetURL, "target", "http://localhost:8090/v1/cover", "geomd /v1/cover URL")
	flag.IntVar(&cfg.Concurrency, "concurrency", 16, "Concurrent workers")
	flag.DurationVar(&cfg.Duration, "duration", 30*time.Second, "Test duration")
	flag.Float64Var(&cfg.ZipfS, "zipf-s", 1.3, "Zipf parameter s (>1)")
	flag.Float64Var(&cfg.ZipfV, "zipf-v", 1.0, "Zipf parameter v (>=1)")
	flag.IntVar(&cfg.BBoxCount, "bboxes", 128, "Distinct bboxes in pool")
	flag.IntVar(&cfg.Res, "res", 8, "H3 resolution requested")
	flag.DurationVar(&cfg.RequestTimeout, "timeout", 5*time.Second, "Per-request timeout")
	flag.Int64Var(&cfg.Seed, "seed", 0, "Workload seed (0 = time based)")
	flag.Parse()
	return cfg
}

type BBox struct{ X1, Y1, X2, Y2 float64 }

func (b BBox) String() string {
	return fmt.Sprintf("%.5f,%.5f,%.5f,%.5f,EPSG:4326", b.X1, b.Y1, b.X2, b.Y2)
}

// makeBBoxes builds a pool where the first quarter sits around a few city
// centres and the rest is spread over a wider area.
func makeBBoxes(count int, r *rand.Rand) []BBox {
	centers := [][2]float64{
		{18.0686, 59.3293}, // Stockholm
		{11.9746, 57.7089}, // Göteborg
		{13.0038, 55.6050}, // Malmö
		{22.1547, 65.5848}, // Luleå
	}
	bboxes := make([]BBox, 0, count)

	hot := min(count, max(8, count/4))
	for i := range hot {
		c := centers[i%len(centers)]
		dx, dy := (r.Float64()-0.5)*0.20, (r.Float64()-0.5)*0.20
		w, h := 0.02+r.Float64()*0.04, 0.02+r.Float64()*0.04
		lon, lat := c[0]+dx, c[1]+dy
		bboxes = append(bboxes, BBox{lon - w/2, lat - h/2, lon + w/2, lat + h/2})
	}
	for len(bboxes) < count {
		lon := 11 + r.Float64()*(24-11)
		lat := 55 + r.Float64()*(66-55)
		w, h := 0.05*r.Float64()+0.01, 0.05*r.Float64()+0.01
		bboxes = append(bboxes, BBox{lon - w/2, lat - h/2, lon + w/2, lat + h/2})
	}
	return bboxes
}

type sample struct {
	Latency time.Duration
	Status  int
	Err     string
	Source  string
	Cells   int
}

type summary struct {
	DurationSec   float64          `json:"duration_sec"`
	TotalRequests int64            `json:"total"`
	SuccessCount  int64            `json:"success"`
	ErrorCount    int64            `json:"errors"`
	ThroughputRPS float64          `json:"throughput_rps"`
	P50Ms         float64          `json:"p50_ms"`
	P95Ms         float64          `json:"p95_ms"`
	P99Ms         float64          `json:"p99_ms"`
	Sources       map[string]int64 `json:"sources"`
	MeanCells     float64          `json:"mean_cells"`
	Concurrency   int              `json:"concurrency"`
	BBoxes        int              `json:"bboxes"`
	Res           int              `json:"res"`
	TargetURL     string           `json:"target"`
}

func summarize(samples []sample, elapsed time.Duration, cfg Config) summary {
	s := summary{
		DurationSec: elapsed.Seconds(),
		Sources:     map[string]int64{},
		Concurrency: cfg.Concurrency,
		BBoxes:      cfg.BBoxCount,
		Res:         cfg.Res,
		TargetURL:   cfg.TargetURL,
	}
	lat := make([]float64, 0, len(samples))
	var cells int64
	for _, smp := range samples {
		s.TotalRequests++
		if smp.Err != "" {
			s.ErrorCount++
			continue
		}
		s.SuccessCount++
		s.Sources[smp.Source]++
		cells += int64(smp.Cells)
		lat = append(lat, float64(smp.Latency.Microseconds())/1000.0)
	}
	if s.SuccessCount > 0 {
		s.MeanCells = float64(cells) / float64(s.SuccessCount)
	}
	if elapsed > 0 {
		s.ThroughputRPS = float64(s.TotalRequests) / elapsed.Seconds()
	}
	sort.Float64s(lat)
	s.P50Ms, s.P95Ms, s.P99Ms = percentile(lat, 50), percentile(lat, 95), percentile(lat, 99)
	return s
}

func percentile(sortedValues []float64, p float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if p <= 0 {
		return sortedValues[0]
	}
	if p >= 100 {
		return sortedValues[len(sortedValues)-1]
	}
	k := (p / 100.0) * float64(len(sortedValues)-1)
	f := math.Floor(k)
	i := int(f)
	if i >= len(sortedValues)-1 {
		return sortedValues[len(sortedValues)-1]
	}
	d := k - f
	return sortedValues[i]*(1-d) + sortedValues[i+1]*d
}

func doRequest(ctx context.Context, c *http.Client, target string, box BBox, res int) sample {
	u, err := url.Parse(target)
	if err != nil {
		return sample{Err: err.Error()}
	}
	q := u.Query()
	q.Set("bbox", box.String())
	q.Set("res", strconv.Itoa(res))
	u.RawQuery = q.Encode()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return sample{Err: err.Error()}
	}
	resp, err := c.Do(req)
	out := sample{Latency: time.Since(start)}
	if err != nil {
		out.Err = err.Error()
		return out
	}
	defer func() { _ = resp.Body.Close() }()
	out.Status = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		out.Err = fmt.Sprintf("status=%d", resp.StatusCode)
		return out
	}
	var body struct {
		Source string `json:"source"`
		Count  int    `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		out.Err = fmt.Sprintf("decode: %v", err)
		return out
	}
	out.Source, out.Cells = body.Source, body.Count
	return out
}

func main() {
	cfg := loadConfig()
	if cfg.Concurrency <= 0 || cfg.BBoxCount <= 0 {
		log.Fatalf("concurrency and bboxes must be positive")
	}
	if cfg.ZipfS <= 1 || cfg.ZipfV < 1 {
		log.Fatalf("zipf parameters need s > 1 and v >= 1")
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	bboxes := makeBBoxes(cfg.BBoxCount, rand.New(rand.NewSource(seed)))
	imax := uint64(len(bboxes)) - 1

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: 4 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			MaxIdleConns:        256,
			MaxIdleConnsPerHost: 256,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: cfg.RequestTimeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	log.Printf("loadgen start target=%s dur=%s conc=%d zipf(s=%.2f,v=%.2f) bboxes=%d res=%d",
		cfg.TargetURL, cfg.Duration, cfg.Concurrency, cfg.ZipfS, cfg.ZipfV, len(bboxes), cfg.Res)

	var (
		mu      sync.Mutex
		samples []sample
		wg      sync.WaitGroup
	)
	start := time.Now()
	for id := range cfg.Concurrency {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			zipf := rand.NewZipf(rand.New(rand.NewSource(seed+int64(id)+1)), cfg.ZipfS, cfg.ZipfV, imax)
			local := make([]sample, 0, 1024)
			for ctx.Err() == nil {
				smp := doRequest(ctx, httpClient, cfg.TargetURL, bboxes[zipf.Uint64()], cfg.Res)
				if ctx.Err() != nil {
					break
				}
				local = append(local, smp)
			}
			mu.Lock()
			samples = append(samples, local...)
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	s := summarize(samples, time.Since(start), cfg)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(s)
}
