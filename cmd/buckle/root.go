package main

import (
	"context"
	"fmt"
	"os"

	"Buckling/internal/calc/buckling"
	"Buckling/internal/logging"
	"Buckling/internal/model"

	"github.com/spf13/cobra"
)

var (
	modelPath string
	policy    string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "buckle",
	Short: "Critical buckling load calculator",
	Long: `buckle - buckling load predictor for 3D-printed members

Estimates the Euler critical load of a slender member fixed at one end
and free at the other (K = 2). Supported cross-sections:
  Plate, Plate with Hole, Cylinder, Hollow Cylinder,
  Rectangular Bar, Hollow Rectangular Bar

When a model artifact is available it is consulted and validated
alongside the closed-form result.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&modelPath, "model", "", "Model artifact path or s3://bucket/key (default: formula only)")
	rootCmd.PersistentFlags().StringVar(&policy, "policy", "formula", "Composition policy: formula or model")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")
}

func newArbiter(ctx context.Context) (*buckling.Arbiter, error) {
	p, err := buckling.ParsePolicy(policy)
	if err != nil {
		return nil, err
	}
	predictor, err := (&model.Loader{Region: os.Getenv("AWS_REGION")}).Load(ctx, modelPath)
	if err != nil {
		return nil, err
	}
	logger := logging.Must(logging.Config{Level: logLevel, Format: "console"})
	return buckling.NewArbiter(predictor, p, logger, nil), nil
}
