package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/qsynth/internal/studio"
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Browse generated tables in the browser",
	Long: `
Generate the models of a file and serve them through a local web UI and a
JSON API. Tables can be regenerated with a new seed without restarting.

Examples:
  qsynth studio -i model.yaml
  qsynth studio -i model.yaml --port 3000 --browser=false`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		doc, err := loadDocument(cmd)
		if err != nil {
			return err
		}

		service, err := studio.NewService(cmd.Context(), doc.Models, generatorOptions(cfg))
		if err != nil {
			return fmt.Errorf("failed to generate models: %w", err)
		}
		color.Cyan("🎲 Seed: %d", service.Seed())

		port, _ := cmd.Flags().GetInt("port")
		browser, _ := cmd.Flags().GetBool("browser")

		server := studio.NewServer(service, port)
		go func() {
			<-cmd.Context().Done()
			server.Shutdown()
		}()
		return server.Start(browser)
	},
}

func init() {
	rootCmd.AddCommand(studioCmd)
	addInputFlag(studioCmd)
	studioCmd.Flags().IntP("port", "p", 5555, "Port to run studio on")
	studioCmd.Flags().BoolP("browser", "b", true, "Open browser automatically")
}
