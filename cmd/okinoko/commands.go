package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"okinoko-gomoku/engine"
	"okinoko-gomoku/service"
	"okinoko-gomoku/store"
)

// parse handles per-command flags; positional arguments must number want.
func parse(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, usageError{err.Error()}
	}
	if fs.NArg() != want {
		return nil, usageError{fmt.Sprintf("want %d arguments, got %d", want, fs.NArg())}
	}
	return fs.Args(), nil
}

// playerCommand parses "-player ID" plus want positionals.
func playerCommand(name string, args []string, want int) (string, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	player := fs.String("player", "", "acting player id")
	rest, err := parse(fs, args, want)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(*player) == "" {
		return "", nil, usageError{"-player is required"}
	}
	return *player, rest, nil
}

func (a *app) print(v any, text func(w io.Writer)) error {
	if a.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(a.out)
	return nil
}

func (a *app) printGame(g *engine.Game) error {
	return a.print(g, func(w io.Writer) { renderGame(w, g) })
}

func runSeed(ctx context.Context, a *app, args []string) error {
	if _, err := parse(flag.NewFlagSet("seed", flag.ContinueOnError), args, 0); err != nil {
		return err
	}
	added, err := a.svc.SeedRuleSets(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "stored %d rulesets (%d known)\n", added, len(a.svc.RuleSets()))
	return nil
}

func runRuleSets(_ context.Context, a *app, args []string) error {
	if _, err := parse(flag.NewFlagSet("rulesets", flag.ContinueOnError), args, 0); err != nil {
		return err
	}
	all := a.svc.RuleSets()
	return a.print(all, func(w io.Writer) {
		for _, rs := range all {
			fmt.Fprintf(w, "%-10s %-6s %2dx%-2d  %s\n", rs.Name, rs.Family, rs.BoardSize, rs.BoardSize, rs.Description)
		}
	})
}

func runNew(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	player := fs.String("player", "", "black player id")
	white := fs.String("white", "", "white player id (empty: open or practice game)")
	ruleset := fs.String("ruleset", a.cfg.DefaultRuleSet, "ruleset name")
	start := fs.Bool("start", false, "start immediately")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	g, err := a.svc.CreateGame(ctx, service.CreateGameRequest{
		BlackPlayerID: *player,
		WhitePlayerID: *white,
		RuleSet:       *ruleset,
	})
	if err != nil {
		return err
	}
	if *start {
		if g, err = a.svc.StartGame(ctx, g.ID, *player); err != nil {
			return err
		}
	}
	return a.printGame(g)
}

// lifecycle wraps the commands shaped "-player ID GAME".
func lifecycle(name string, op func(*service.Service, context.Context, string, string) (*engine.Game, error)) func(context.Context, *app, []string) error {
	return func(ctx context.Context, a *app, args []string) error {
		player, rest, err := playerCommand(name, args, 1)
		if err != nil {
			return err
		}
		g, err := op(a.svc, ctx, rest[0], player)
		if err != nil {
			return err
		}
		return a.printGame(g)
	}
}

var (
	runJoin    = lifecycle("join", (*service.Service).JoinGame)
	runStart   = lifecycle("start", (*service.Service).StartGame)
	runResign  = lifecycle("resign", (*service.Service).Resign)
	runAbandon = lifecycle("abandon", (*service.Service).Abandon)
	runClaim   = lifecycle("claim", (*service.Service).ClaimTimeout)
)

func runMove(ctx context.Context, a *app, args []string) error {
	player, rest, err := playerCommand("move", args, 3)
	if err != nil {
		return err
	}
	row, err := strconv.Atoi(rest[1])
	if err != nil {
		return usageError{"ROW must be an integer"}
	}
	col, err := strconv.Atoi(rest[2])
	if err != nil {
		return usageError{"COL must be an integer"}
	}
	res, err := a.svc.MakeMove(ctx, rest[0], player, row, col)
	if err != nil {
		return err
	}
	return a.printMove(res)
}

func runPass(ctx context.Context, a *app, args []string) error {
	player, rest, err := playerCommand("pass", args, 1)
	if err != nil {
		return err
	}
	res, err := a.svc.Pass(ctx, rest[0], player)
	if err != nil {
		return err
	}
	return a.printMove(res)
}

func (a *app) printMove(res service.MoveResult) error {
	return a.print(res, func(w io.Writer) {
		if res.Move.IsPass() {
			fmt.Fprintf(w, "move %d: %s passes\n", res.Move.Number, res.Move.Color)
		} else {
			fmt.Fprintf(w, "move %d: %s at (%d,%d)\n", res.Move.Number, res.Move.Color, res.Move.Row, res.Move.Col)
		}
		renderGame(w, res.Game, res.WinningLine...)
	})
}

func runSwap(ctx context.Context, a *app, args []string) error {
	player, rest, err := playerCommand("swap", args, 2)
	if err != nil {
		return err
	}
	g, err := a.svc.ChooseSwap(ctx, rest[0], player, engine.SwapChoice(strings.ToLower(rest[1])))
	if err != nil {
		return err
	}
	return a.printGame(g)
}

func runColor(ctx context.Context, a *app, args []string) error {
	player, rest, err := playerCommand("color", args, 2)
	if err != nil {
		return err
	}
	color, err := engine.ParseCell(rest[1])
	if err != nil || color == engine.Empty {
		return usageError{"color must be black or white"}
	}
	g, err := a.svc.ChooseColor(ctx, rest[0], player, color)
	if err != nil {
		return err
	}
	return a.printGame(g)
}

func runShow(ctx context.Context, a *app, args []string) error {
	rest, err := parse(flag.NewFlagSet("show", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	g, err := a.svc.GetGame(ctx, rest[0])
	if err != nil {
		return err
	}
	return a.printGame(g)
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	player := fs.String("player", "", "only games with this player")
	statusName := fs.String("status", "", "WAITING, ACTIVE, FINISHED or ABANDONED")
	limit := fs.Int("limit", 20, "max games (0 = all)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	filter := store.ListFilter{PlayerID: *player, Limit: *limit}
	if *statusName != "" {
		st, err := engine.ParseGameStatus(*statusName)
		if err != nil {
			return usageError{err.Error()}
		}
		filter.Status = &st
	}
	games, err := a.svc.ListGames(ctx, filter)
	if err != nil {
		return err
	}
	return a.print(games, func(w io.Writer) {
		for _, g := range games {
			fmt.Fprintf(w, "%s  %-9s %-10s %s vs %s  moves=%d\n",
				g.ID, g.Status, g.RuleSet.Name, g.BlackPlayerID, orDash(g.WhitePlayerID), g.MoveCount)
		}
	})
}

func runMoves(ctx context.Context, a *app, args []string) error {
	rest, err := parse(flag.NewFlagSet("moves", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	moves, err := a.svc.ListMoves(ctx, rest[0])
	if err != nil {
		return err
	}
	return a.print(moves, func(w io.Writer) {
		for _, m := range moves {
			mark := ""
			if m.IsWinning {
				mark = " *"
			}
			if m.IsPass() {
				fmt.Fprintf(w, "%3d %-5s pass  %s\n", m.Number, m.Color, m.PlayerID)
				continue
			}
			fmt.Fprintf(w, "%3d %-5s %2d,%-2d %s%s\n", m.Number, m.Color, m.Row, m.Col, m.PlayerID, mark)
		}
	})
}

func runVerify(ctx context.Context, a *app, args []string) error {
	rest, err := parse(flag.NewFlagSet("verify", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	if err := a.svc.VerifyGame(ctx, rest[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: move log consistent\n", rest[0])
	return nil
}

func runExport(ctx context.Context, a *app, args []string) error {
	rest, err := parse(flag.NewFlagSet("export", flag.ContinueOnError), args, 2)
	if err != nil {
		return err
	}
	if err := a.svc.ExportGame(ctx, rest[0], rest[1]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s\n", rest[1])
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
