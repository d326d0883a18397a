package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mama165/sdk-go/logs"

	"github.com/devaloi/msgboard/internal/domain"
	"github.com/devaloi/msgboard/internal/remote"
)

func main() {
	url := flag.String("url", "http://localhost:8080", "Table service URL")
	clients := flag.Int("clients", 10, "Number of concurrent clients")
	table := flag.String("table", domain.MessageTable, "Table to write to")
	messages := flag.Int("messages", 10, "Messages per client")
	flag.Parse()

	log := logs.GetLoggerFromString("INFO")
	log.Info("Load test", "clients", *clients, "messages", *messages, "table", *table)

	var (
		sent      int64
		notified  int64
		errs      int64
		latencies []time.Duration
		latencyMu sync.Mutex
		wg        sync.WaitGroup
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			c := remote.New(*url, 10*time.Second, log)
			user := fmt.Sprintf("user_%d", id)

			subCtx, stopSub := context.WithCancel(ctx)
			subDone := make(chan struct{})
			go func() {
				defer close(subDone)
				err := c.Subscribe(subCtx, *table, user, func(domain.Record) {
					atomic.AddInt64(&notified, 1)
				})
				if err != nil {
					atomic.AddInt64(&errs, 1)
					log.Warn("Subscribe failed", "client", id, "error", err)
				}
			}()
			time.Sleep(100 * time.Millisecond)

			for j := 0; j < *messages; j++ {
				sendTime := time.Now()
				text := fmt.Sprintf("msg %d from %s", j, user)
				if _, err := c.Create(ctx, *table, domain.Fields{Text: domain.SomeText(text)}); err != nil {
					atomic.AddInt64(&errs, 1)
					log.Warn("Create failed", "client", id, "error", err)
					continue
				}
				atomic.AddInt64(&sent, 1)
				lat := time.Since(sendTime)
				latencyMu.Lock()
				latencies = append(latencies, lat)
				latencyMu.Unlock()
				time.Sleep(10 * time.Millisecond)
			}

			// Wait a bit for remaining notifications.
			time.Sleep(500 * time.Millisecond)
			stopSub()
			<-subDone
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Println("\n=== Load Test Results ===")
	fmt.Printf("Duration:    %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Created:     %d objects\n", sent)
	fmt.Printf("Notified:    %d (expected up to %d)\n", notified, sent*int64(*clients))
	fmt.Printf("Errors:      %d\n", errs)
	if len(latencies) > 0 {
		fmt.Printf("Latency p50: %s\n", percentile(latencies, 50))
		fmt.Printf("Latency p95: %s\n", percentile(latencies, 95))
		fmt.Printf("Latency p99: %s\n", percentile(latencies, 99))
	}
	fmt.Printf("Throughput:  %.0f creates/sec\n", float64(sent)/elapsed.Seconds())
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
