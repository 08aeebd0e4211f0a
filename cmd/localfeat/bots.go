package main

import (
	"encoding/json"
	"fmt"

	"github.com/localfeat/backend/internal/seed"
	"github.com/spf13/cobra"
)

var (
	botCount     int
	botBatchSize int
	statusJSON   bool
	seedLat      float64
	seedLng      float64
)

var botsCmd = &cobra.Command{
	Use:   "bots",
	Short: "Create and inspect seeded bot accounts",
}

var botsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Bulk-create bot users, profiles and posts around Delhi",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := app.Seeder().CreateBots(cmd.Context(), botCount, botBatchSize, cmd.OutOrStdout())
		return err
	},
}

var botsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many bot users and posts exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := app.Seeder().Status(cmd.Context())
		if err != nil {
			return err
		}
		if statusJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Bot users: %d\nBot posts: %d\nReady:     %v\n", status.BotUsers, status.BotPosts, status.Ready)
		return nil
	},
}

var seedActivityCmd = &cobra.Command{
	Use:   "seed-activity",
	Short: "Run one activity-bot seeding pass in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		bot := app.Bot()
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
			lat, lng := bot.Location()
			if cmd.Flags().Changed("lat") {
				lat = seedLat
			}
			if cmd.Flags().Changed("lng") {
				lng = seedLng
			}
			bot.SetLocation(lat, lng)
		}
		lat, lng := bot.Location()
		fmt.Fprintf(cmd.OutOrStdout(), "Seeding activity around %.4f, %.4f...\n", lat, lng)
		if err := bot.SeedActivity(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Done")
		return nil
	},
}

func init() {
	botsCreateCmd.Flags().IntVar(&botCount, "count", seed.DefaultBotCount, "Number of bots to create")
	botsCreateCmd.Flags().IntVar(&botBatchSize, "batch-size", seed.DefaultBatchSize, "Bots inserted per batch")
	botsStatusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print status as JSON")

	seedActivityCmd.Flags().Float64Var(&seedLat, "lat", 0, "Latitude to seed around (defaults to BOT_BASE_LAT)")
	seedActivityCmd.Flags().Float64Var(&seedLng, "lng", 0, "Longitude to seed around (defaults to BOT_BASE_LNG)")

	botsCmd.AddCommand(botsCreateCmd)
	botsCmd.AddCommand(botsStatusCmd)
}
