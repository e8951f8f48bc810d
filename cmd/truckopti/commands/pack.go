package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/prakashgarg91/truckopti/internal/api"
	"github.com/prakashgarg91/truckopti/internal/cost"
	"github.com/prakashgarg91/truckopti/internal/domain"
	"github.com/prakashgarg91/truckopti/internal/recommend"
)

var (
	packInputPath  string
	packOutputPath string
	packAsJSON     bool
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Run a single pack request from a YAML or JSON document and print the resulting plan",
	RunE:  runPack,
}

func init() {
	packCmd.Flags().StringVarP(&packInputPath, "input", "i", "", "path to a PackRequest document (default: stdin)")
	packCmd.Flags().StringVarP(&packOutputPath, "output", "o", "", "path to write the persisted plan (default: stdout)")
	packCmd.Flags().BoolVar(&packAsJSON, "json", false, "write the output as JSON instead of YAML")
}

func runPack(cmd *cobra.Command, args []string) error {
	raw, err := readInput(packInputPath)
	if err != nil {
		return fmt.Errorf("reading pack request: %w", err)
	}

	var dto api.PackRequestDTO
	if err := yaml.Unmarshal(raw, &dto); err != nil {
		return fmt.Errorf("parsing pack request: %w", err)
	}

	req, err := dto.ToDomain()
	if err != nil {
		return err
	}
	req = req.WithDefaults()
	if verr := req.Validate(); verr != nil {
		return verr
	}

	resp, cerr := recommend.Recommend(context.Background(), req, cost.NewModel())
	if cerr != nil {
		return cerr
	}

	persisted := domain.ToPersisted(req.Strategy, req.Route, *resp.Recommendation)
	out, err := marshalOutput(persisted, packAsJSON)
	if err != nil {
		return err
	}
	return writeOutput(packOutputPath, out)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func marshalOutput(v any, asJSON bool) ([]byte, error) {
	if asJSON {
		return json.MarshalIndent(v, "", "  ")
	}
	return yaml.Marshal(v)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
