package cli

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Show the current state of a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getJSON("/v1/jobs/" + args[0])
	},
}

var assetsCmd = &cobra.Command{
	Use:   "assets [job-id]",
	Short: "List the assets a job produced",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getJSON("/v1/jobs/" + args[0] + "/assets")
	},
}

func getJSON(path string) error {
	resp, err := httpClient.Get(apiBase + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(out)))
	}
	fmt.Println(strings.TrimSpace(string(out)))
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(assetsCmd)
}
