// vk2tgctl supervises the relay engine: it spawns the engine binary, prints
// its output tagged by stream, and on interrupt stops it gracefully with a
// bounded grace period before force-killing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sakurp633/Vk2TG-Repost/internal/supervisor"
)

func main() {
	var (
		engine string
		grace  time.Duration
	)
	flag.StringVar(&engine, "engine", "./vk2tg", "path to the relay engine binary")
	flag.DurationVar(&grace, "grace", 5*time.Second, "how long to wait after SIGTERM before force-killing")
	flag.Parse()

	sup, err := supervisor.Start(engine, flag.Args()...)
	if err != nil {
		log.Printf("[ERROR] failed to start engine: %v", err)
		os.Exit(1)
	}
	log.Printf("[INFO] engine started (pid %d)", sup.PID())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case line, ok := <-sup.Lines():
			if !ok {
				if err := sup.Err(); err != nil {
					log.Printf("[WARN] engine exited: %v", err)
					os.Exit(1)
				}
				log.Printf("[INFO] engine exited")
				return
			}
			fmt.Printf("[%s] %s\n", line.Stream, line.Text)

		case <-stop:
			log.Printf("[INFO] stopping engine")
			// Stop in the background so the loop keeps draining output
			// produced during the grace period.
			go func() {
				if err := sup.Stop(grace); err != nil {
					log.Printf("[ERROR] failed to stop engine: %v", err)
				}
			}()
		}
	}
}
