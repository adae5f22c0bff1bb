// Command latencyserver is a local target for exercising volley: it
// responds with a configurable status code after a fixed or randomized
// delay.
//
//	go run ./scripts/latencyserver -port 8080 -delay 5ms..50ms
//	volley -n 100 -p 4 http://localhost:8080/
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/volleybench/volley/internal/durations"
)

func main() {
	port := flag.Int("port", 8080, "Listening port")
	delay := flag.String("delay", "", "Response delay, fixed or low..high range (e.g. 5ms..50ms)")
	status := flag.Int("status", http.StatusOK, "Status code to respond with")
	flag.Parse()

	var delayRange *durations.Range
	if *delay != "" {
		r, err := durations.ParseRange(*delay)
		if err != nil {
			log.Fatalf("delay: %v", err)
		}
		delayRange = &r
	}

	var mu sync.Mutex
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if delayRange != nil {
			mu.Lock()
			d := delayRange.Sample(rng)
			mu.Unlock()
			time.Sleep(d)
		}
		w.WriteHeader(*status)
		fmt.Fprintln(w, "ok")
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("listening on %s (status %d, delay %s)", addr, *status, *delay)
	log.Fatal(http.ListenAndServe(addr, nil))
}
