package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain/walletext"
	"github.com/scallionlabs/manor/internal/output"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the local encrypted keyfile",
	Long: `Manages the keyfile used by the extension backend: an age-encrypted
BIP-39 mnemonic from which the account key is derived.`,
}

var walletInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new keyfile with a fresh mnemonic",
	RunE: func(_ *cobra.Command, _ []string) error {
		mnemonic, err := walletext.GenerateMnemonic()
		if err != nil {
			return err
		}

		passphrase, err := promptNewPassphrase()
		if err != nil {
			return err
		}

		path := cfg.KeyfilePath()
		if err := walletext.CreateKeyfile(path, mnemonic, passphrase); err != nil {
			return err
		}

		_ = formatter.Println("Recovery phrase (write this down, it is shown once):")
		_ = formatter.Println()
		_ = formatter.Println("  " + mnemonic)
		_ = formatter.Println()
		output.Successf("Keyfile created at %s", path)
		return nil
	},
}

var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Create a keyfile from an existing mnemonic",
	RunE: func(_ *cobra.Command, _ []string) error {
		_, _ = os.Stderr.WriteString("Enter mnemonic (all words on one line): ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		mnemonic := strings.TrimSpace(line)

		passphrase, err := promptNewPassphrase()
		if err != nil {
			return err
		}

		path := cfg.KeyfilePath()
		if err := walletext.CreateKeyfile(path, mnemonic, passphrase); err != nil {
			return err
		}

		output.Successf("Keyfile created at %s", path)
		return nil
	},
}

var walletAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the keyfile's account address",
	RunE: func(cmd *cobra.Command, _ []string) error {
		passphrase, err := promptKeyfilePassphrase(cmd.Context())
		if err != nil {
			return err
		}

		address, err := walletext.AddressFromKeyfile(cfg.KeyfilePath(), passphrase)
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			return formatter.Print(map[string]string{"address": address})
		}
		return formatter.Println(address)
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	walletCmd.AddCommand(walletInitCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletAddressCmd)
	rootCmd.AddCommand(walletCmd)
}
