package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/derekprior/pickup/internal/balance"
	"github.com/derekprior/pickup/internal/config"
	"github.com/derekprior/pickup/internal/excel"
	"github.com/derekprior/pickup/internal/roster"
	"github.com/derekprior/pickup/internal/tournament"
	"github.com/derekprior/pickup/internal/validator"
)

func resolveConfigPath(configFlag, envPath string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(envPath); err == nil {
		return envPath, nil
	}
	return "", fmt.Errorf("no session file found. Either create %s in the current directory or pass --config", envPath)
}

func main() {
	// A missing .env is normal; anything set there is picked up by LoadEnv.
	dotenvErr := godotenv.Load()

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, failMark(), err)
		os.Exit(1)
	}

	var logLevel string
	rootCmd := &cobra.Command{
		Use:   "pickup",
		Short: "Balanced teams and round robin tournaments for pickup badminton",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := config.ParseLogLevel(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			if dotenvErr != nil {
				slog.Debug("no .env loaded", "error", dotenvErr)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", env.LogLevel, "Log level: debug, info, warn or error (env PICKUP_LOG_LEVEL)")

	var configFile string
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("Path to session file (default: %s, env PICKUP_CONFIG)", env.Config))
	loadConfig := func() (*config.Config, error) {
		path, err := resolveConfigPath(configFile, env.Config)
		if err != nil {
			return nil, err
		}
		slog.Debug("loading session", "path", path)
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter pickup.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", env.Config, "Output path for the session file")

	teamsCmd := &cobra.Command{
		Use:   "teams",
		Short: "Split the roster into teams and check edited team sheets",
	}

	var teamCount int
	var strategyName string
	var teamsOutput string
	splitCmd := &cobra.Command{
		Use:          "split",
		Short:        "Split the active players into balanced teams",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if strategyName != "" {
				if _, err := balance.Get(strategyName); err != nil {
					return err
				}
				cfg.Balance.Strategy = strategyName
			}
			return runSplit(cfg, teamCount, teamsOutput)
		},
	}
	splitCmd.Flags().IntVarP(&teamCount, "teams", "n", 0, "Number of teams (default: team_count from the session file)")
	splitCmd.Flags().StringVar(&strategyName, "strategy", "", "Two-team strategy: exhaustive or greedy (default: by roster size)")
	splitCmd.Flags().StringVarP(&teamsOutput, "output", "o", "teams.xlsx", "Output Excel file path")

	validateCmd := &cobra.Command{
		Use:          "validate <teams.xlsx>",
		Short:        "Validate a teams workbook against the session file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runValidate(cfg, args[0])
		},
	}
	teamsCmd.AddCommand(splitCmd, validateCmd)

	tournamentCmd := &cobra.Command{
		Use:   "tournament",
		Short: "Run a round robin tournament",
	}

	var matchTypeFlag string
	var selected []string
	var tournamentOutput string
	createCmd := &cobra.Command{
		Use:          "create",
		Short:        "Schedule a round robin between the active players or pairs",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runCreate(cfg, matchTypeFlag, selected, tournamentOutput)
		},
	}
	createCmd.Flags().StringVarP(&matchTypeFlag, "match-type", "m", "", "Match type: MS, WS, XD, MD or WD (default: from the session file or the roster)")
	createCmd.Flags().StringSliceVarP(&selected, "players", "p", nil, "Only include these players (singles) or pairs containing them (doubles)")
	createCmd.Flags().StringVarP(&tournamentOutput, "output", "o", "tournament.xlsx", "Output Excel file path")

	recordCmd := &cobra.Command{
		Use:          "record <tournament.xlsx> <match-id> <score-a> <score-b>",
		Short:        "Record the score of a match and update the standings",
		Args:         cobra.ExactArgs(4),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scoreA, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("score A: %q is not a number", args[2])
			}
			scoreB, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("score B: %q is not a number", args[3])
			}
			return runRecord(args[0], args[1], scoreA, scoreB)
		},
	}

	standingsCmd := &cobra.Command{
		Use:          "standings <tournament.xlsx>",
		Short:        "Show the schedule progress and standings",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStandings(args[0])
		},
	}
	tournamentCmd.AddCommand(createCmd, recordCmd, standingsCmd)

	rootCmd.AddCommand(initCmd, teamsCmd, tournamentCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("%s Created %s\n", okMark(), outputPath)
	return nil
}

func runSplit(cfg *config.Config, teamCount int, outputPath string) error {
	opts := cfg.BalanceOptions()
	if teamCount != 0 {
		if teamCount < 2 {
			return fmt.Errorf("--teams must be at least 2, got %d", teamCount)
		}
		opts.TeamCount = teamCount
		opts.TeamNames = roster.PadTeamNames(teamCount, cfg.Session.TeamNames)
	}

	players := cfg.Players()
	fmt.Printf("Splitting %d active players into %d teams...\n", len(roster.Active(players)), opts.TeamCount)

	result := balance.SplitWithOptions(players, opts)
	slog.Debug("split finished", "strategy", result.Strategy, "spread", result.Spread)

	fmt.Println("\nTeams:")
	fmt.Printf("  %-15s %7s %4s %6s %6s\n", "Team", "Players", "Male", "Female", "Skill")
	for _, team := range result.Teams {
		s := team.Stats
		fmt.Printf("  %-15s %7d %4d %6d %6d\n", team.Name, s.Count, s.Male, s.Female, s.TotalSkill)
	}
	for _, team := range result.Teams {
		names := make([]string, len(team.Players))
		for i, p := range team.Players {
			names[i] = p.Name
		}
		fmt.Printf("\n%s: %s\n", team.Name, strings.Join(names, ", "))
	}
	if len(result.Bench) > 0 {
		names := make([]string, len(result.Bench))
		for i, p := range result.Bench {
			names[i] = p.Name
		}
		fmt.Printf("\nBench: %s\n", strings.Join(names, ", "))
	}

	printWarnings(result.Warnings)

	f, err := excel.GenerateTeams(result, cfg.Session.Name)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n%s Teams saved to %s\n", okMark(), outputPath)
	return nil
}

func runValidate(cfg *config.Config, teamsPath string) error {
	violations, err := validator.Validate(cfg, teamsPath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}
	validator.Sort(violations)

	errCount := 0
	warnings := 0
	for _, v := range violations {
		where := ""
		if v.Row > 0 {
			where = fmt.Sprintf("row %d: ", v.Row)
		}
		switch v.Type {
		case "error":
			errCount++
			fmt.Printf("%s Roster error: %s%s\n", failMark(), where, v.Message)
		case "warning":
			warnings++
			fmt.Printf("%s Balance warning: %s%s\n", warnMark(), where, v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d roster errors, %d balance warnings\n", errCount, warnings)
	if errCount > 0 {
		return fmt.Errorf("%d roster errors found", errCount)
	}
	fmt.Printf("%s %s is consistent with the roster\n", okMark(), teamsPath)
	return nil
}

func runCreate(cfg *config.Config, matchTypeFlag string, selected []string, outputPath string) error {
	matchType := cfg.MatchType()
	if matchTypeFlag != "" {
		mt, err := tournament.ParseMatchType(matchTypeFlag)
		if err != nil {
			return err
		}
		matchType = mt
	}

	players := roster.Active(cfg.Players())
	if len(selected) > 0 {
		var err error
		if players, err = selectPlayers(cfg, players, selected); err != nil {
			return err
		}
	}

	s := roster.Summarize(players)
	if !matchType.CanPlay(s.Male, s.Female) {
		fmt.Printf("%s %d male and %d female players is short for %s\n", warnMark(), s.Male, s.Female, matchType.Label())
	}

	var competitors []tournament.Competitor
	if matchType.Doubles() {
		in := make(map[string]bool, len(players))
		for _, p := range players {
			in[p.ID] = true
		}
		for _, pair := range cfg.Pairs() {
			members := pair.Members()
			if in[members[0].ID] && in[members[1].ID] {
				competitors = append(competitors, pair)
			}
		}
	} else {
		competitors = tournament.Singles(players)
	}
	if len(competitors) < 2 {
		return fmt.Errorf("%s needs at least 2 competitors, have %d", matchType.Label(), len(competitors))
	}

	t := tournament.New(competitors, matchType)
	slog.Debug("scheduled round robin", "competitors", len(competitors), "rounds", len(t.Schedule))

	fmt.Printf("%s: %d competitors, %d rounds, %d matches\n",
		matchType.Label(), len(competitors), len(t.Schedule), tournament.MatchCount(t.Schedule))
	printSchedule(t)

	if err := saveTournament(t, cfg.Session.Name, outputPath); err != nil {
		return err
	}
	fmt.Printf("\n%s Tournament saved to %s\n", okMark(), outputPath)
	return nil
}

func selectPlayers(cfg *config.Config, active []roster.Player, names []string) ([]roster.Player, error) {
	byName := make(map[string]roster.Player, len(active))
	for _, p := range active {
		byName[strings.ToLower(p.Name)] = p
	}

	var out []roster.Player
	seen := make(map[string]bool)
	for _, name := range names {
		p, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			if s := cfg.Suggest(name); s != "" {
				return nil, fmt.Errorf("%q is not an active player (did you mean %q?)", name, s)
			}
			return nil, fmt.Errorf("%q is not an active player", name)
		}
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out, nil
}

func runRecord(path, matchID string, scoreA, scoreB int) error {
	t, err := excel.ReadTournament(path)
	if err != nil {
		return fmt.Errorf("loading tournament: %w", err)
	}

	t, err = tournament.RecordResult(t, matchID, scoreA, scoreB)
	if err != nil {
		if errors.Is(err, tournament.ErrMatchNotFound) {
			return fmt.Errorf("%w; run `pickup tournament standings %s` to list match ids", err, path)
		}
		return err
	}

	m, _ := t.Match(matchID)
	fmt.Printf("%s %s: %s %d - %d %s\n", okMark(), m.ID, m.A.Name(), scoreA, scoreB, m.B.Name())

	if err := saveTournament(t, sessionTitle(path), path); err != nil {
		return err
	}
	printStandings(t)
	return nil
}

func runStandings(path string) error {
	t, err := excel.ReadTournament(path)
	if err != nil {
		return fmt.Errorf("loading tournament: %w", err)
	}
	printSchedule(t)
	printStandings(t)
	return nil
}

// sessionTitle keeps the workbook title when a tournament is rewritten.
func sessionTitle(path string) string {
	title, err := excel.Title(path)
	if err != nil {
		slog.Debug("reading workbook title", "path", path, "error", err)
		return ""
	}
	return title
}

func saveTournament(t tournament.Tournament, title, path string) error {
	f, err := excel.GenerateTournament(t, title)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	slog.Debug("saved tournament", "path", path)
	return nil
}

func printSchedule(t tournament.Tournament) {
	for _, round := range t.Schedule {
		if len(round) == 0 {
			continue
		}
		marker := " "
		if round[0].Round == t.CurrentRound && !t.Complete {
			marker = "▸"
		}
		fmt.Printf("\n%s Round %d\n", marker, round[0].Round)
		for _, m := range round {
			score := "-"
			if m.Status == tournament.Completed && m.ScoreA != nil && m.ScoreB != nil {
				score = fmt.Sprintf("%d - %d", *m.ScoreA, *m.ScoreB)
			}
			fmt.Printf("  %-6s %-24s %9s  %s\n", m.ID, m.A.Name(), score, m.B.Name())
		}
	}
}

func printStandings(t tournament.Tournament) {
	fmt.Println("\nStandings:")
	fmt.Printf("  %4s %-24s %6s %4s %4s %6s %6s\n", "Rank", "Name", "Played", "Won", "Lost", "Points", "Diff")
	for _, s := range t.Standings {
		fmt.Printf("  %4d %-24s %6d %4d %4d %6d %+6d\n",
			s.Rank, s.Competitor.Name(), s.Played, s.Wins, s.Losses, s.Points, s.ScoreDiff)
	}
	if t.Complete {
		fmt.Printf("\n%s Tournament complete\n", okMark())
	} else if len(t.Schedule) > 0 {
		fmt.Printf("\nCurrent round: %d of %d\n", t.CurrentRound, len(t.Schedule))
	}
}

func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		fmt.Printf("\n%s Teams are balanced\n", okMark())
		return
	}
	fmt.Printf("\nBalance warnings (%d):\n", len(warnings))
	for _, w := range warnings {
		fmt.Printf("  %s %s\n", warnMark(), w)
	}
}
