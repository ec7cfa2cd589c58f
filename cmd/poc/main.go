package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"poc-go/internal/app"
	"poc-go/internal/config"
	"poc-go/internal/poc"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a PocApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Verify", "Scan").
func newApp(operation, passphrase string, observer poc.ProgressObserver) (*app.PocApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewPocApp(cfg, operation, passphrase, observer)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readPassphrase prompts for a passphrase without echoing it.
func readPassphrase(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(data), nil
}

// stepPrinter prints step transitions to stdout as the pipeline runs.
type stepPrinter struct {
	printed map[string]poc.StepStatus
}

func newStepPrinter() *stepPrinter {
	return &stepPrinter{printed: make(map[string]poc.StepStatus)}
}

func (p *stepPrinter) OnStep(steps []poc.VerificationStep) {
	for _, s := range steps {
		if s.Status == poc.StepWaiting || p.printed[s.Name] == s.Status {
			continue
		}
		p.printed[s.Name] = s.Status

		switch s.Status {
		case poc.StepRunning:
			fmt.Printf("  %-20s ...\n", s.Name)
		case poc.StepSuccess:
			fmt.Printf("  %-20s ok    %s\n", s.Name, s.Detail)
		case poc.StepError:
			fmt.Printf("  %-20s ERROR %s\n", s.Name, s.Detail)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "poc",
	Short: "Proof-of-capture verification tool",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Generate a new device ID
		deviceID := uuid.New().String()

		// Create config with defaults
		cfg := config.NewConfig(deviceID, defaults["base_dir"])

		// Initialize config file
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Device ID: %s\n", deviceID)
		fmt.Printf("Base Dir:  %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Device ID: %s\n", cfg.DeviceID)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Storage:   %s\n", cfg.Storage.Type)
		fmt.Printf("Anchor:    %s\n", orNone(cfg.Anchor.Endpoint))
		fmt.Printf("CloudSync: %s\n", cfg.CloudSync.Type)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the device key pair",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the device key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := readPassphrase("Passphrase for the signing key: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		a, err := newApp("SetupKeys", passphrase, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		publicKey, err := a.SetupKeys()
		if err != nil {
			return err
		}

		fmt.Printf("Device key pair generated.\nPublic key: %s\n", publicKey)
		return nil
	},
}

// verify command
var verifyCmd = &cobra.Command{
	Use:   "verify FILE",
	Short: "Run the verification pipeline on a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := readPassphrase("Passphrase for the signing key: ")
		if err != nil {
			return err
		}

		a, err := newApp("Verify", passphrase, newStepPrinter())
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.KeysConfigured() {
			return fmt.Errorf("no device key pair: run 'poc keys init' first")
		}

		fmt.Printf("Verifying %s\n", args[0])
		record, err := a.VerifyFile(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}

		fmt.Printf("\nRecord %s: trust score %d (%s)\n", record.ID, record.TrustScore, record.TrustGrade)
		if record.OracleSimulated {
			fmt.Println("Note: one or more AI checks used simulated estimates (service unavailable).")
		}
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan FILE",
	Short: "Check a file against its stored proof",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Scan", "", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.ScanFile(args[0])
		if err != nil {
			return err
		}

		switch result.Outcome {
		case poc.ScanIntact:
			fmt.Printf("intact     %s (record %s)\n", args[0], result.RecordID)
		case poc.ScanTampered:
			fmt.Printf("TAMPERED   %s (record %s)\n", args[0], result.RecordID)
			fmt.Printf("  stored:  %s\n", result.StoredDigest)
			fmt.Printf("  current: %s\n", result.CurrentDigest)
		default:
			fmt.Printf("unverified %s (no stored proof)\n", args[0])
		}
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a capture record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetRecord", "", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		record, err := a.GetRecord(args[0])
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("no record with id %s", args[0])
		}

		fmt.Printf("Record:      %s\n", record.ID)
		fmt.Printf("File:        %s (%s, %d bytes)\n", record.DisplayName, record.Kind, record.SizeBytes)
		fmt.Printf("Status:      %s\n", record.Status)
		fmt.Printf("Digest:      %s\n", record.Digest)
		fmt.Printf("Signature:   %s\n", record.Signature)
		fmt.Printf("Public key:  %s\n", record.PublicKey)
		if record.Anchored() {
			fmt.Printf("Anchor tx:   %s\n", *record.AnchorTx)
			if record.AnchorBlock != nil {
				fmt.Printf("Block:       %d\n", *record.AnchorBlock)
			}
		} else {
			fmt.Println("Anchor tx:   (not anchored)")
		}
		simulated := ""
		if record.OracleSimulated {
			simulated = "  [simulated]"
		}
		fmt.Printf("Synthetic:   %.2f%s\n", record.SyntheticScore, simulated)
		fmt.Printf("Generative:  %.2f%s\n", record.GenerativeScore, simulated)
		fmt.Printf("Duplication: %.0f%%%s\n", record.DuplicationPct, simulated)
		fmt.Printf("Trust:       %d (%s)\n", record.TrustScore, record.TrustGrade)
		fmt.Printf("Verified at: %s\n", record.UpdatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List capture records",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")

		a, err := newApp("ListRecords", "", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.ListRecords(poc.RecordStatus(status))
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No records.")
			return nil
		}

		for _, r := range records {
			anchored := " "
			if r.Anchored() {
				anchored = "A"
			}
			fmt.Printf("%s  %s %3d %-2s %s\n",
				r.ID, anchored, r.TrustScore, r.TrustGrade, r.DisplayName)
		}
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetStats", "", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.GetStats()
		if err != nil {
			return err
		}

		fmt.Printf("Records:  %d\n", stats.Total)
		fmt.Printf("Verified: %d\n", stats.Verified)
		fmt.Printf("Anchored: %d\n", stats.AnchoredCount)
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	keysCmd.AddCommand(keysInitCmd)

	listCmd.Flags().String("status", string(poc.StatusVerified), "Filter by record status")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
}
