package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/prakashgarg91/truckopti/internal/api"
	"github.com/prakashgarg91/truckopti/internal/cost"
	"github.com/prakashgarg91/truckopti/internal/domain"
	"github.com/prakashgarg91/truckopti/internal/recommend"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-request> <new-request>",
	Short: "Re-optimize two PackRequest documents and report the placement delta",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func recommendFromFile(path string) (domain.PackingPlan, error) {
	raw, err := readInput(path)
	if err != nil {
		return domain.PackingPlan{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var dto api.PackRequestDTO
	if err := yaml.Unmarshal(raw, &dto); err != nil {
		return domain.PackingPlan{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	req, err := dto.ToDomain()
	if err != nil {
		return domain.PackingPlan{}, err
	}
	req = req.WithDefaults()
	if verr := req.Validate(); verr != nil {
		return domain.PackingPlan{}, verr
	}

	resp, cerr := recommend.Recommend(context.Background(), req, cost.NewModel())
	if cerr != nil {
		return domain.PackingPlan{}, cerr
	}
	return *resp.Recommendation, nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldPlan, err := recommendFromFile(args[0])
	if err != nil {
		return err
	}
	newPlan, err := recommendFromFile(args[1])
	if err != nil {
		return err
	}

	diff := domain.DiffPlans(oldPlan, newPlan)
	out, err := yaml.Marshal(diff)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
