package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"beatme-server/internal/rng"
	"beatme-server/pkg/table"
)

// CLI are the simulation options
type CLI struct {
	Tables  int   `default:"4" help:"Number of tables to simulate concurrently"`
	Hands   int   `default:"1000" help:"Number of hands to play at each table"`
	Seats   int   `default:"5" help:"Number of seats at each table"`
	Seed    int64 `default:"0" help:"RNG seed (0 for random)"`
	Verbose bool  `short:"v" help:"Verbose logging"`
}

// result is what happened at a single table
type result struct {
	Hands     int
	Showdowns int
	Actions   int
	Rebuys    int
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Description("Plays random legal actions at hold'em tables and verifies no chips are created or lost."))

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if cli.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	opts := table.DefaultOptions()
	opts.Seats = cli.Seats
	// hands are started explicitly, the pause between hands never elapses
	opts.NextHandDelay = time.Hour
	if err := opts.Validate(); err != nil {
		kctx.FatalIfErrorf(err)
	}

	fmt.Printf("Starting simulation: %d tables x %d hands (seed: %d)\n", cli.Tables, cli.Hands, cli.Seed)

	startTime := time.Now()
	results := make([]result, cli.Tables)

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < cli.Tables; i++ {
		seed := cli.Seed + int64(i)
		log := logger.WithFields(logrus.Fields{
			"table": i,
			"seed":  seed,
		})

		g.Go(func() error {
			res, err := simulate(ctx, opts, cli.Hands, seed, log)
			if err != nil {
				return fmt.Errorf("table %d (seed %d): %w", i, seed, err)
			}

			results[i] = res
			return nil
		})
	}

	err := g.Wait()
	kctx.FatalIfErrorf(err)

	var total result
	for i, res := range results {
		fmt.Printf("table %d: %d hands, %d showdowns, %d actions, %d rebuys\n", i, res.Hands, res.Showdowns, res.Actions, res.Rebuys)
		total.Hands += res.Hands
		total.Showdowns += res.Showdowns
		total.Actions += res.Actions
		total.Rebuys += res.Rebuys
	}

	duration := time.Since(startTime)
	fmt.Printf("total: %d hands, %d showdowns, %d actions in %s (%.0f hands/sec)\n",
		total.Hands, total.Showdowns, total.Actions, duration.Round(time.Millisecond),
		float64(total.Hands)/duration.Seconds())
}

// simulate plays hands at a single table until the target is reached
func simulate(ctx context.Context, opts table.Options, hands int, seed int64, logger logrus.FieldLogger) (result, error) {
	var res result

	tbl := table.New(opts, logger, rng.NewSeeded(seed), quartz.NewReal())
	defer tbl.Close()

	// players make their decisions with their own generator
	players := rng.NewSeeded(^seed)

	handles := make([]table.SeatHandle, opts.Seats)
	for i := range handles {
		h, err := tbl.SignIn(i)
		if err != nil {
			return res, err
		}

		handles[i] = h
	}

	for res.Hands < hands {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if snap := tbl.Snapshot(); snap.Phase == table.PhaseOff {
			if err := tbl.BeginNextHand(); err != nil {
				return res, err
			}
		}

		chips := tbl.TotalChips()
		for {
			snap := tbl.Snapshot()
			if snap.Phase != table.PhaseOn {
				if snap.Showdown != nil && !snap.Showdown.Uncontested {
					res.Showdowns++
				}

				break
			}

			if err := act(tbl, handles[*snap.Turn], players); err != nil {
				return res, err
			}

			res.Actions++
			if total := tbl.TotalChips(); total != chips {
				return res, fmt.Errorf("chips went from %d to %d", chips, total)
			}
		}

		res.Hands++

		// broke players buy back in
		for i, h := range handles {
			if snap := tbl.Snapshot(i); *snap.Seats[i].Stack > 0 {
				continue
			}

			if _, err := tbl.SignOut(h); err != nil {
				return res, err
			}

			nh, err := tbl.SignIn(i)
			if err != nil {
				return res, err
			}

			handles[i] = nh
			res.Rebuys++
		}
	}

	return res, tbl.Err()
}

// act picks a random legal action and amount for the seat on the clock
func act(tbl *table.Table, h table.SeatHandle, gen rng.Generator) error {
	legal, err := tbl.LegalActions()
	if err != nil {
		return err
	}

	actions := legal.Actions()
	if len(actions) == 0 {
		return errors.New("no legal actions for the seat on the clock")
	}

	a := actions[gen.Intn(len(actions))]
	r := legal[a]

	amount := r.Min
	if r.Max > r.Min {
		amount += gen.Intn(r.Max - r.Min + 1)
	}

	return tbl.Act(h, a, amount)
}
