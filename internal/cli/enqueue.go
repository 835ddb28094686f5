package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

var (
	enqueueBrand     string
	enqueueFormat    string
	enqueueObjective string
	enqueueHook      string
	enqueueModel     string
	enqueueVars      []string
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Submit a generation job",
	RunE: func(cmd *cobra.Command, args []string) error {
		variables := map[string]string{}
		for _, pair := range enqueueVars {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("invalid --var %q, expected key=value", pair)
			}
			variables[key] = value
		}

		input := domain.JobInput{
			Brand:         enqueueBrand,
			Format:        domain.OutputFormat(enqueueFormat),
			Objective:     enqueueObjective,
			HookType:      enqueueHook,
			ModelOverride: enqueueModel,
			Variables:     variables,
		}
		body, err := json.Marshal(input)
		if err != nil {
			return err
		}

		resp, err := httpClient.Post(apiBase+"/v1/jobs", "application/json", bytes.NewReader(body))
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		out, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusAccepted {
			return fmt.Errorf("enqueue rejected (%d): %s", resp.StatusCode, strings.TrimSpace(string(out)))
		}
		fmt.Println(strings.TrimSpace(string(out)))
		return nil
	},
}

func init() {
	enqueueCmd.Flags().StringVar(&enqueueBrand, "brand", "", "Brand key (required)")
	enqueueCmd.Flags().StringVar(&enqueueFormat, "format", "", "Output format: image_kit, motion_post, spot_video (required)")
	enqueueCmd.Flags().StringVar(&enqueueObjective, "objective", "", "Campaign objective (required)")
	enqueueCmd.Flags().StringVar(&enqueueHook, "hook", "", "Hook type")
	enqueueCmd.Flags().StringVar(&enqueueModel, "model", "", "Model override")
	enqueueCmd.Flags().StringArrayVar(&enqueueVars, "var", nil, "Template variable key=value (repeatable)")
	_ = enqueueCmd.MarkFlagRequired("brand")
	_ = enqueueCmd.MarkFlagRequired("format")
	_ = enqueueCmd.MarkFlagRequired("objective")
	rootCmd.AddCommand(enqueueCmd)
}
