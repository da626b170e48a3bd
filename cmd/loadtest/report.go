package main

import (
	"fmt"
	"io"
	"slices"
	"time"
)

type variantStats struct {
	name      string
	latencies []time.Duration
	ok        int
	failed    int
	nodes     int
	hashes    map[string]bool
}

type report struct {
	elapsed   time.Duration
	requests  int
	ok        int
	non2xx    int
	errs      int
	latencies []time.Duration
	variants  []*variantStats
}

// summarize groups results per variant. Latencies come back sorted.
func summarize(results []result, variants []variant, elapsed time.Duration) report {
	rep := report{elapsed: elapsed}
	for _, v := range variants {
		rep.variants = append(rep.variants, &variantStats{name: v.name, hashes: map[string]bool{}})
	}

	for _, r := range results {
		rep.requests++
		rep.latencies = append(rep.latencies, r.latency)
		vs := rep.variants[r.variant]
		vs.latencies = append(vs.latencies, r.latency)

		switch {
		case r.err != nil:
			rep.errs++
			vs.failed++
		case r.status < 200 || r.status >= 300:
			rep.non2xx++
			vs.failed++
		default:
			rep.ok++
			vs.ok++
			vs.nodes = r.nodes
			vs.hashes[r.hash] = true
		}
	}

	slices.Sort(rep.latencies)
	for _, vs := range rep.variants {
		slices.Sort(vs.latencies)
	}
	return rep
}

// consistent reports whether every variant was served from a single cache
// key, and whether variants that only differ in their row filter shared it.
func (r report) consistent() bool {
	byKey := map[string]string{}
	for i, vs := range r.variants {
		if len(vs.hashes) > 1 {
			return false
		}
		for h := range vs.hashes {
			// require_success is the last axis, so i/2 names the source and
			// objective pair.
			key := fmt.Sprint(i / 2)
			if prev, ok := byKey[key]; ok && prev != h {
				return false
			}
			byKey[key] = h
		}
	}
	return true
}

func (r report) pass(minRPS float64, maxP90 time.Duration) bool {
	achieved := float64(r.requests) / r.elapsed.Seconds()
	return achieved >= minRPS &&
		percentile(r.latencies, 90) < maxP90 &&
		r.errs == 0 && r.non2xx == 0 &&
		r.consistent()
}

func (r report) print(w io.Writer, targetRPS int) {
	fmt.Fprintf(w, "Load test finished\n")
	fmt.Fprintf(w, "- target_rps: %d\n", targetRPS)
	fmt.Fprintf(w, "- achieved_rps: %.2f\n", float64(r.requests)/r.elapsed.Seconds())
	fmt.Fprintf(w, "- duration: %s\n", r.elapsed)
	fmt.Fprintf(w, "- requests: %d\n", r.requests)
	fmt.Fprintf(w, "- 2xx: %d\n", r.ok)
	fmt.Fprintf(w, "- non_2xx: %d\n", r.non2xx)
	fmt.Fprintf(w, "- errors: %d\n", r.errs)
	fmt.Fprintf(w, "- avg_ms: %.3f\n", ms(average(r.latencies)))
	fmt.Fprintf(w, "- p50_ms: %.3f\n", ms(percentile(r.latencies, 50)))
	fmt.Fprintf(w, "- p90_ms: %.3f\n", ms(percentile(r.latencies, 90)))
	fmt.Fprintf(w, "- p99_ms: %.3f\n", ms(percentile(r.latencies, 99)))
	fmt.Fprintf(w, "- consistent_hashes: %t\n", r.consistent())

	fmt.Fprintf(w, "\n%-26s %8s %8s %7s %9s  %s\n", "variant", "ok", "failed", "nodes", "p90_ms", "hash")
	for _, vs := range r.variants {
		hash := "-"
		switch len(vs.hashes) {
		case 0:
		case 1:
			for h := range vs.hashes {
				hash = shortHash(h)
			}
		default:
			hash = fmt.Sprintf("%d distinct", len(vs.hashes))
		}
		fmt.Fprintf(w, "%-26s %8d %8d %7d %9.3f  %s\n",
			vs.name, vs.ok, vs.failed, vs.nodes, ms(percentile(vs.latencies, 90)), hash)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func percentile(items []time.Duration, p int) time.Duration {
	if len(items) == 0 {
		return 0
	}
	idx := (len(items) - 1) * p / 100
	return items[idx]
}

func average(items []time.Duration) time.Duration {
	if len(items) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range items {
		total += d
	}
	return total / time.Duration(len(items))
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
