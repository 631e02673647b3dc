// Command artifactcheck lints an artifact directory before it is deployed:
// it runs the same load and cross-check path as the service and prints a
// summary of what the bundle contains.
package main

import (
	"flag"
	"fmt"
	"os"

	"gradesense/artifact"
)

func main() {
	dir := flag.String("dir", "artifacts", "artifact directory to check")
	flag.Parse()

	bundle, status, err := artifact.Load(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "artifact check failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "  model_loaded:    %v\n", status.ModelLoaded)
		fmt.Fprintf(os.Stderr, "  scaler_loaded:   %v\n", status.ScalerLoaded)
		fmt.Fprintf(os.Stderr, "  encoders_loaded: %v\n", status.EncodersLoaded)
		os.Exit(1)
	}

	fmt.Printf("artifact bundle OK (version %q)\n", bundle.ModelVersion)
	fmt.Printf("features (%d, in model order):\n", len(bundle.FeatureOrder))
	for i, name := range bundle.FeatureOrder {
		stats := bundle.Stats[name]
		line := fmt.Sprintf("  %2d. %-50s mean=%.4f std=%.4f", i, name, stats.Mean, stats.Std)
		if mapping, ok := bundle.Encoders[name]; ok {
			line += fmt.Sprintf("  categories=%d", len(mapping))
		} else {
			line += "  numeric"
		}
		fmt.Println(line)
	}

	fmt.Printf("intercept: %.6f\n", bundle.Intercept)
	fmt.Printf("buckets (%d):\n", len(bundle.Buckets))
	for _, b := range bundle.Buckets {
		fmt.Printf("  [%.2f, %.2f) %s\n", b.Low, b.High, b.Label)
	}
}
