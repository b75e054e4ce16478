package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"questline/internal/pipeline"
	"questline/internal/planning"
)

func newGenerateCmd(configPath *string, verbose *bool) *cobra.Command {
	var profilePath string
	var checkinPath string
	var goal string
	var skipCache bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate today's quest list from a profile file",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(*configPath, *verbose)
			if err != nil {
				return err
			}

			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			checkin, err := loadCheckin(checkinPath)
			if err != nil {
				return err
			}

			pipe := pipeline.New(rt.client, rt.pipelineOptions()...)
			result, err := pipe.Generate(cmd.Context(), pipeline.Request{
				Profile:   profile,
				Checkin:   checkin,
				Goal:      goal,
				SkipCache: skipCache,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			renderResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "YAML profile file (required)")
	cmd.Flags().StringVar(&checkinPath, "checkin", "", "YAML daily check-in file (optional)")
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "override the profile's long-term goal")
	cmd.Flags().BoolVar(&skipCache, "no-cache", false, "skip the skill-map cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full result as JSON")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func loadProfile(path string) (planning.Profile, error) {
	var profile planning.Profile
	raw, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read profile %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return profile, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}

func loadCheckin(path string) (*planning.DailyCheckin, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkin %s: %w", path, err)
	}
	var checkin planning.DailyCheckin
	if err := yaml.Unmarshal(raw, &checkin); err != nil {
		return nil, fmt.Errorf("parse checkin %s: %w", path, err)
	}
	return &checkin, nil
}

func renderResult(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()
	heading := color.New(color.FgCyan, color.Bold)
	title := color.New(color.FgGreen, color.Bold)
	dim := color.New(color.Faint)

	heading.Fprintf(out, "Today's quests (%d min of a %d min budget)\n",
		result.Final.TotalMinutes(), result.Constraints.TotalMinutesMax)
	if result.SkillMapCached {
		dim.Fprintln(out, "skill map served from cache")
	}
	fmt.Fprintln(out)

	for i, q := range result.Final.Quests {
		title.Fprintf(out, "%d. %s", i+1, q.Title)
		fmt.Fprintf(out, "  [%s, %d min, difficulty %.2f]\n", q.Pattern, q.Minutes, q.Difficulty)
		for _, step := range q.Steps {
			fmt.Fprintf(out, "   - %s\n", step)
		}
		dim.Fprintf(out, "   done when: %s\n", strings.Join(q.DoneDefinition, "; "))
		if q.Deliverable != "" {
			dim.Fprintf(out, "   deliverable: %s\n", q.Deliverable)
		}
		fmt.Fprintln(out)
	}

	if len(result.Final.Rationale) > 0 {
		heading.Fprintln(out, "Why this plan")
		for _, line := range result.Final.Rationale {
			fmt.Fprintf(out, "- %s\n", line)
		}
	}
}
