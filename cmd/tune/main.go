// Package main searches for stiffness and damping values that let the thread
// field settle quickly after being disturbed.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/threads/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	frames := flag.Int("frames", 600, "Frames simulated per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, baseCfg, *frames)

	logFile, err := os.Create(filepath.Join(*outputDir, "tune_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestFitness := 1e18
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = append(bestParams[:0], raw...)
			}

			row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6g", fitness)}
			for _, v := range raw {
				row = append(row, fmt.Sprintf("%.6f", v))
			}
			logWriter.Write(row)
			logWriter.Flush()

			fmt.Printf("Eval %d/%d: fitness=%.6g (best=%.6g) elapsed=%s\n",
				evalCount, *maxEvals, fitness, bestFitness, time.Since(startTime).Round(time.Second))
			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	initX := params.Normalize(params.FromConfig(baseCfg))
	fmt.Printf("Starting Nelder-Mead over %d parameters, %d frames per evaluation\n", params.Dim(), *frames)

	result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Denormalize(result.X)
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
