package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/awmpietro/golang-decision-tree-engine/internal/transport/solvedto"
)

type result struct {
	variant int
	latency time.Duration
	status  int
	nodes   int
	hash    string
	err     error
}

func main() {
	url := flag.String("url", "http://localhost:8080/solve", "solve endpoint URL")
	rps := flag.Int("rps", 50, "target requests per second")
	duration := flag.Duration("duration", 60*time.Second, "test duration")
	workers := flag.Int("workers", 50, "number of concurrent workers")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP client timeout")
	scenarioPath := flag.String("scenario", "", "scenario file to send instead of the built-in one")
	dotPath := flag.String("dot", "", "DOT tree to send instead of the built-in one")
	maxP90 := flag.Duration("max-p90", 30*time.Millisecond, "fail when the overall p90 latency is above this")
	flag.Parse()

	if *rps <= 0 || *duration <= 0 || *workers <= 0 {
		fmt.Fprintln(os.Stderr, "rps, duration and workers must be > 0")
		os.Exit(2)
	}

	variants, err := buildVariants(*scenarioPath, *dotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build payloads: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: *timeout}
	jobs := make(chan int, *workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]result, 0, *rps*int(duration.Seconds())+1)

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range jobs {
				r := send(client, *url, variants[v].body)
				r.variant = v
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}
		}()
	}

	ticker := time.NewTicker(time.Second / time.Duration(*rps))
	defer ticker.Stop()
	deadline := time.Now().Add(*duration)

	launched := 0
	for now := range ticker.C {
		if now.After(deadline) {
			break
		}
		jobs <- launched % len(variants)
		launched++
	}
	close(jobs)
	wg.Wait()

	rep := summarize(results, variants, *duration)
	if rep.requests == 0 {
		fmt.Fprintln(os.Stderr, "no requests executed")
		os.Exit(1)
	}
	rep.print(os.Stdout, *rps)

	if rep.pass(float64(*rps)*0.98, *maxP90) {
		fmt.Printf("PASS: %d rps with p90 under %s and consistent hashes\n", *rps, *maxP90)
		return
	}
	fmt.Println("FAIL: target missed, request errors or inconsistent results")
	os.Exit(1)
}

// send posts one solve request and reads the node count and cache hash off a
// successful response.
func send(client *http.Client, url string, body []byte) result {
	start := time.Now()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return result{latency: time.Since(start), err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return result{latency: time.Since(start), err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	r := result{status: resp.StatusCode}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var out solvedto.SolveResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			r.err = fmt.Errorf("decode response: %w", err)
		}
		r.nodes, r.hash = out.Nodes, out.Hash
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	r.latency = time.Since(start)
	return r
}
