package search

import (
	"runtime"

	"github.com/i-spark/catboost/pkg/config"
)

// runConfigEnv is the environment-sourced subset of RunConfig. A caller
// that doesn't want to hand-build a RunConfig (e.g. a CLI entry point
// or a scheduled batch job) loads one through LoadRunConfig instead of
// constructing RunConfig literally.
type runConfigEnv struct {
	NumThreads    int  `env:"SEARCH_NUM_THREADS"`
	Verbose       int  `env:"SEARCH_VERBOSE" env-default:"0"`
	UseTrainTest  bool `env:"SEARCH_USE_TRAIN_TEST"`
	ReturnCVStats bool `env:"SEARCH_RETURN_CV_STATS"`
}

// LoadRunConfig builds a RunConfig from environment variables (or a
// .env file, via pkg/config). SEARCH_NUM_THREADS unset or non-positive
// defaults to runtime.NumCPU()-1, floor 1 (§5).
func LoadRunConfig() (RunConfig, error) {
	var env runConfigEnv
	if err := config.Load(&env); err != nil {
		return RunConfig{}, SearchConfigf("loading run configuration: %v", err)
	}

	threads := env.NumThreads
	if threads <= 0 {
		threads = runtime.NumCPU() - 1
		if threads < 1 {
			threads = 1
		}
	}

	return RunConfig{
		NumThreads:    threads,
		Verbose:       env.Verbose,
		UseTrainTest:  env.UseTrainTest,
		ReturnCVStats: env.ReturnCVStats,
	}, nil
}
