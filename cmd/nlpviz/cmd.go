package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maslahah/nlpviz/config"
	"github.com/maslahah/nlpviz/internal"
	"github.com/maslahah/nlpviz/pkg/analysis"
	"github.com/maslahah/nlpviz/pkg/app"
	"github.com/maslahah/nlpviz/pkg/models"
	"github.com/maslahah/nlpviz/pkg/nlp"
)

var (
	log *logrus.Logger

	cfgFile     string
	showVersion bool
	dumpConfig  bool

	processModel  string
	processText   string
	processLabels []string
	processDoc    bool
	processMeta   bool
)

var cmd = &cobra.Command{
	Use:   "nlpviz",
	Short: "nlpviz serves an interactive named entity and text classification visualizer",
	Run:   func(cmd *cobra.Command, args []string) { run() },
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Lists the configured models and their capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appState, cleanup, err := app.NewAppState(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		infos, err := analysis.ModelInfos(cmd.Context(), appState.Loader)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), infos)
	},
}

var processCmd = &cobra.Command{
	Use:     "process",
	Short:   "Runs a model over text and prints the render model as JSON",
	Example: `echo "Joko Widodo di Jakarta" | nlpviz process --model id_maslahah_ner --labels PER`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		text := processText
		if !cmd.Flags().Changed("text") {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read text from stdin: %w", err)
			}
			text = strings.TrimRight(string(raw), "\r\n")
		}

		req := &models.VisualizeRequest{
			Model:    processModel,
			Text:     text,
			ShowDoc:  processDoc,
			ShowMeta: processMeta,
		}
		if cmd.Flags().Changed("labels") {
			labels := append([]string{}, processLabels...)
			req.Labels = &labels
		}

		return process(cmd.Context(), cmd.OutOrStdout(), cfg, req)
	},
}

var dumpJsonSchemaCmd = &cobra.Command{
	Use:     "json-schema",
	Short:   "Generates JSON Schema for nlpviz's configuration file",
	Example: "nlpviz json-schema > nlpviz_config_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return nil
	},
}

var dumpMetaSchemaCmd = &cobra.Command{
	Use:     "meta-schema",
	Short:   "Generates JSON Schema for pipeline meta.json files",
	Example: "nlpviz meta-schema > meta_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := nlp.MetaSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return nil
	},
}

func init() {
	cmd.AddCommand(modelsCmd)
	cmd.AddCommand(processCmd)
	cmd.AddCommand(dumpJsonSchemaCmd)
	cmd.AddCommand(dumpMetaSchemaCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")

	processCmd.Flags().StringVarP(&processModel, "model", "m", "", "model to run")
	processCmd.Flags().StringVarP(&processText, "text", "t", "", "text to process (default stdin)")
	processCmd.Flags().
		StringSliceVarP(&processLabels, "labels", "l", nil, "entity labels to show (default all)")
	processCmd.Flags().BoolVar(&processDoc, "doc", false, "include the processed document")
	processCmd.Flags().BoolVar(&processMeta, "meta", false, "include the model meta")
	_ = processCmd.MarkFlagRequired("model")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error configuring nlpviz: %w", err)
	}
	config.SetLogLevel(cfg)
	return cfg, nil
}

func process(ctx context.Context, w io.Writer, cfg *config.Config, req *models.VisualizeRequest) error {
	appState, cleanup, err := app.NewAppState(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	rm, err := appState.Visualizer.Visualize(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(w, rm)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute executes the root cobra command.
func Execute() {
	log = internal.GetLogger()
	log.SetLevel(logrus.InfoLevel)

	err := cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}
