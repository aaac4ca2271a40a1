package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/araliya/supportbot/internal/config"
	"github.com/araliya/supportbot/internal/storage"
)

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import dataset CSV files into the local store",
	Long: `Import dataset CSV files into the local store.

Each file replaces its table entirely; row order in the file is preserved
and is significant for FAQ topic lookups.

Examples:
  supportbot import --orders orders.csv --products products.csv --faq faq.csv
  supportbot import --faq faq.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ordersPath, _ := cmd.Flags().GetString("orders")
		productsPath, _ := cmd.Flags().GetString("products")
		faqPath, _ := cmd.Flags().GetString("faq")

		if ordersPath == "" && productsPath == "" && faqPath == "" {
			return fmt.Errorf("at least one of --orders, --products, or --faq is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		if ordersPath != "" {
			n, err := importOrders(store, ordersPath)
			if err != nil {
				return err
			}
			printSuccess("Imported %d orders from %s", n, ordersPath)
		}
		if productsPath != "" {
			n, err := importProducts(store, productsPath)
			if err != nil {
				return err
			}
			printSuccess("Imported %d products from %s", n, productsPath)
		}
		if faqPath != "" {
			n, err := importFAQ(store, faqPath)
			if err != nil {
				return err
			}
			printSuccess("Imported %d FAQ entries from %s", n, faqPath)
		}

		return nil
	},
}

func importOrders(store *storage.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	orders, err := storage.ParseOrdersCSV(f)
	if err != nil {
		return 0, err
	}
	if err := store.ReplaceOrders(orders); err != nil {
		return 0, fmt.Errorf("writing orders: %w", err)
	}
	return len(orders), nil
}

func importProducts(store *storage.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	products, err := storage.ParseProductsCSV(f)
	if err != nil {
		return 0, err
	}
	if err := store.ReplaceProducts(products); err != nil {
		return 0, fmt.Errorf("writing products: %w", err)
	}
	return len(products), nil
}

func importFAQ(store *storage.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries, err := storage.ParseFAQCSV(f)
	if err != nil {
		return 0, err
	}
	if err := store.ReplaceFAQ(entries); err != nil {
		return 0, fmt.Errorf("writing faq: %w", err)
	}
	return len(entries), nil
}

func init() {
	importCmd.Flags().String("orders", "", "path to orders CSV")
	importCmd.Flags().String("products", "", "path to products CSV")
	importCmd.Flags().String("faq", "", "path to FAQ CSV")
}

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a message to the running server and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/chat", map[string]string{"message": message})
		if err != nil {
			return err
		}

		var result struct {
			Reply  string `json:"reply"`
			Intent string `json:"intent"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result.Reply)
		printStatus("Intent", "%s", result.Intent)
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
