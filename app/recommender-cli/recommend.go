package main

import (
	"fmt"

	"tutorMarket/business/recommendation"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <student-id>",
	Short: "Print a recommendation list for a student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		if err := svc.Orchestrator.EnsureStudent(cmd.Context(), id); err != nil {
			return err
		}

		flags := cmd.Flags()
		topic, _ := flags.GetString("topic")
		algName, _ := flags.GetString("algorithm")
		limit, _ := flags.GetInt("limit")
		language, _ := flags.GetString("language")
		priceRange, _ := flags.GetString("price-range")

		alg, ok := recommendation.ParseAlgorithm(algName)
		if !ok {
			return fmt.Errorf("unknown algorithm %q", algName)
		}

		opts := recommendation.DefaultOptions()
		opts.Algorithm = alg
		opts.Limit = limit
		opts.Filters.Language = language
		opts.Filters.PriceRange = priceRange
		if flags.Changed("min-rating") {
			v, _ := flags.GetFloat64("min-rating")
			opts.Filters.MinRating = &v
		}
		if flags.Changed("min-experience") {
			v, _ := flags.GetInt("min-experience")
			opts.Filters.MinExperience = &v
		}

		recs := svc.Orchestrator.GenerateRecommendations(cmd.Context(), id, topic, opts)
		return printJSON(cmd, recs)
	},
}

func init() {
	recommendCmd.Flags().String("topic", "", "topic the student is looking for")
	recommendCmd.Flags().String("algorithm", "hybrid", "collaborative, content or hybrid")
	recommendCmd.Flags().Int("limit", 10, "maximum number of educators")
	recommendCmd.Flags().Float64("min-rating", 0, "minimum educator rating")
	recommendCmd.Flags().Int("min-experience", 0, "minimum years of experience")
	recommendCmd.Flags().String("language", "", "required teaching language")
	recommendCmd.Flags().String("price-range", "", "under30, 30to40 or over40")

	rootCmd.AddCommand(recommendCmd)
}
