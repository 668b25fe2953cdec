package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gps_tracker/internal/app"
	"github.com/relabs-tech/gps_tracker/internal/config"
	"github.com/relabs-tech/gps_tracker/internal/logging"
)

func main() {
	configPath := flag.String("config", "./tracker_config.txt", "path to configuration file")
	logPath := flag.String("log", "display_sim.log", "log file; the terminal is used for the display")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logFile := logging.Init(*logPath, false)
	defer logFile.Close()

	if err := app.RunDisplaySim(); err != nil {
		log.Printf("fatal: %v", err)
	}
}
