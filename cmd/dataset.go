/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/docalign/internal/automl"
	"github.com/valpere/docalign/internal/validator"
)

var (
	dsName       string
	dsSourceLang string
	dsTargetLang string
	dsModelName  string
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage translation datasets",
	Long:  `Create and list datasets, and import an aligned corpus into one.`,
}

var datasetCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a translation dataset for a language pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validator.ValidateLanguages(dsSourceLang, dsTargetLang); err != nil {
			return err
		}

		name := dsName
		if name == "" {
			name = fmt.Sprintf("%s_%s", dsSourceLang, dsTargetLang)
		}

		client, err := newAutoMLClient()
		if err != nil {
			return err
		}

		ds, err := client.CreateDataset(context.Background(), name, dsSourceLang, dsTargetLang)
		if err != nil {
			return fmt.Errorf("failed to create dataset: %w", err)
		}

		fmt.Printf("Created dataset %s (%s)\n", ds.DisplayName, ds.Name)
		return nil
	},
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets of the project",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAutoMLClient()
		if err != nil {
			return err
		}

		datasets, err := client.ListDatasets(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list datasets: %w", err)
		}

		if len(datasets) == 0 {
			fmt.Println("No datasets found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSOURCE\tTARGET\tEXAMPLES\tID")
		for _, ds := range datasets {
			srcLang, tgtLang := "", ""
			if ds.TranslationDatasetMetadata != nil {
				srcLang = ds.TranslationDatasetMetadata.SourceLanguageCode
				tgtLang = ds.TranslationDatasetMetadata.TargetLanguageCode
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				ds.DisplayName, srcLang, tgtLang, ds.ExampleCount, datasetID(ds.Name))
		}
		return w.Flush()
	},
}

var datasetImportCmd = &cobra.Command{
	Use:   "import <gcs-uri>",
	Short: "Import an aligned corpus into a dataset",
	Long: `Import a tab-separated corpus from Cloud Storage into the dataset
named by --name, e.g.:

  docalign dataset import gs://my-bucket/corpus.tsv --name en_uk`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if dsName == "" {
			return fmt.Errorf("dataset name is required")
		}

		client, err := newAutoMLClient()
		if err != nil {
			return err
		}

		ctx := context.Background()
		ds, err := client.FindDataset(ctx, dsName)
		if err != nil {
			return err
		}

		op, err := client.ImportData(ctx, ds.Name, args[0])
		if err != nil {
			return fmt.Errorf("failed to import corpus: %w", err)
		}

		fmt.Printf("Import started: %s\n", op.Name)
		return nil
	},
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a custom model against a dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if dsName == "" {
			return fmt.Errorf("dataset name is required")
		}

		client, err := newAutoMLClient()
		if err != nil {
			return err
		}

		ctx := context.Background()
		ds, err := client.FindDataset(ctx, dsName)
		if err != nil {
			return err
		}

		modelName := dsModelName
		if modelName == "" {
			modelName = ds.DisplayName + "_model"
		}

		op, err := client.TrainModel(ctx, datasetID(ds.Name), modelName)
		if err != nil {
			return fmt.Errorf("failed to start training: %w", err)
		}

		fmt.Printf("Training started: %s\n", op.Name)
		return nil
	},
}

func newAutoMLClient() (*automl.Client, error) {
	return automl.NewClient(context.Background(),
		viper.GetString("credentials"),
		viper.GetString("project"),
		viper.GetString("location"))
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(trainCmd)
	datasetCmd.AddCommand(datasetCreateCmd)
	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetImportCmd)

	datasetCreateCmd.Flags().StringVarP(&dsName, "name", "n", "", "Dataset display name (default <source>_<target>)")
	datasetCreateCmd.Flags().StringVarP(&dsSourceLang, "source", "s", "", "Source language code (required)")
	datasetCreateCmd.Flags().StringVarP(&dsTargetLang, "target", "t", "", "Target language code (required)")
	datasetCreateCmd.MarkFlagRequired("source")
	datasetCreateCmd.MarkFlagRequired("target")

	datasetImportCmd.Flags().StringVarP(&dsName, "name", "n", "", "Dataset display name (required)")

	trainCmd.Flags().StringVarP(&dsName, "name", "n", "", "Dataset display name (required)")
	trainCmd.Flags().StringVar(&dsModelName, "model-name", "", "Model display name (default <dataset>_model)")
}
