package fuzztests

import (
	"bytes"
	"context"
	"testing"
	"time"

	"mznlint/internal/lint"
	_ "mznlint/internal/lint/rules"
	"mznlint/internal/modelio"
)

// lintTimeout is the maximum time allowed for one model.
const lintTimeout = 5 * time.Second

func FuzzReadSnapshot(f *testing.F) {
	addSnapshotSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		_, _ = modelio.Read(bytes.NewReader(clip(input)))
	})
}

func FuzzLintSnapshot(f *testing.F) {
	addSnapshotSeeds(f)
	rules := lint.All()
	f.Fuzz(func(t *testing.T, input []byte) {
		m, err := modelio.Read(bytes.NewReader(clip(input)))
		if err != nil {
			return
		}
		done := make(chan *lint.Result, 1)
		go func() {
			res, _ := lint.NewRunner(rules, lint.WithJobs(1)).Run(context.Background(), lint.NewCache(m, nil))
			done <- res
		}()
		select {
		case res := <-done:
			if res == nil {
				return
			}
			for _, failure := range res.Failed {
				t.Errorf("%v\n%s", failure, failure.Stack)
			}
		case <-time.After(lintTimeout):
			t.Fatalf("lint did not finish within %v", lintTimeout)
		}
	})
}
