// Command replay feeds recorded frame observations through a safety
// analyzer and prints the resulting assessments. Input is one JSON
// FrameObservation per line, from a file or stdin. Intended for tuning
// thresholds against captured detection logs.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/framewatch-data/crowdwatch/internal/config"
	"github.com/framewatch-data/crowdwatch/internal/safety"
)

var (
	inputPath  = flag.String("input", "-", "Path to JSONL frame log, or - for stdin")
	configPath = flag.String("config", "", "Optional tuning config JSON (defaults apply when empty)")
	verbose    = flag.Bool("v", false, "Print every frame's analysis, not only status changes")
)

func main() {
	flag.Parse()

	cfg := safety.DefaultAnalyzerConfig()
	if *configPath != "" {
		tuning, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = safety.AnalyzerConfigFromTuning(tuning)
	}

	in := io.Reader(os.Stdin)
	if *inputPath != "-" {
		f, err := os.Open(*inputPath)
		if err != nil {
			log.Fatalf("open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	analyzer := safety.NewAnalyzer(cfg)
	if err := replay(in, analyzer, *verbose); err != nil {
		log.Fatalf("replay: %v", err)
	}

	stats := analyzer.Stats()
	log.Printf("replay complete: %d frames, %d tracks live, %d surges, %d falls, %d lying",
		stats.Counters.Frames, stats.ActiveTrackCount,
		stats.Counters.SurgeEvents, stats.Counters.FallEvents, stats.Counters.LyingEvents)
}

// replay drains the reader line by line. Blank lines are skipped; a
// malformed line aborts with its line number so bad captures are easy
// to locate.
func replay(in io.Reader, analyzer *safety.Analyzer, verbose bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	lastStatus := safety.SafetyStatus("")
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var frame safety.FrameObservation
		if err := json.Unmarshal(line, &frame); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		result := analyzer.ProcessDetections(frame.FrameID, frame.TimestampMillis, frame.Detections)
		if verbose || result.Status != lastStatus {
			log.Printf("frame %s t=%d status=%s surges=%d falls=%d lying=%d",
				result.FrameID, result.TimestampMillis, result.Status,
				len(result.DensitySurges), len(result.FallingPersons), len(result.LyingPersons))
		}
		lastStatus = result.Status
	}
	return scanner.Err()
}
