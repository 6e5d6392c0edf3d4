package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mielnikk/foldertree/tree"
)

func newBenchCmd() *cobra.Command {
	var workers int
	var opsPerWorker int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Drive the folder tree with a concurrent synthetic workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := tree.New()

			const fanout = 4
			alphabet := []string{"na", "nb", "nc", "nd", "ne", "nf"}
			names := alphabet[:fanout]
			randomPath := func(r *rand.Rand) string {
				depth := r.Intn(3) + 1
				path := "/"
				for i := 0; i < depth; i++ {
					path += names[r.Intn(fanout)] + "/"
				}
				return path
			}

			g := new(errgroup.Group)
			for w := 0; w < workers; w++ {
				w := w
				g.Go(func() error {
					r := rand.New(rand.NewSource(int64(w) + 1))
					for i := 0; i < opsPerWorker; i++ {
						switch r.Intn(4) {
						case 0:
							_, _ = t.List(randomPath(r))
						case 1:
							_ = t.Create(randomPath(r))
						case 2:
							_ = t.Remove(randomPath(r))
						case 3:
							_ = t.Move(randomPath(r), randomPath(r))
						}
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			listing, err := t.List("/")
			if err != nil {
				return err
			}
			fmt.Printf("workers=%d ops/worker=%d final root children: %s\n", workers, opsPerWorker, listing)
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 8, "number of concurrent workers")
	cmd.Flags().IntVar(&opsPerWorker, "ops", 500, "operations per worker")
	return cmd
}
